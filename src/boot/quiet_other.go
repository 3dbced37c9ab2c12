//go:build !unix

package boot

func quiet() func() {
	return func() {}
}
