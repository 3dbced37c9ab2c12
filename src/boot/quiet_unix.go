//go:build unix

package boot

import (
	"golang.org/x/sys/unix"
)

// quiet points fd 1 at stderr and returns the func that puts it back.
func quiet() func() {
	saved, err := unix.Dup(1)
	if err != nil {
		return func() {}
	}
	if err := unix.Dup2(2, 1); err != nil {
		_ = unix.Close(saved)
		return func() {}
	}
	return func() {
		_ = unix.Dup2(saved, 1)
		_ = unix.Close(saved)
	}
}
