package reader

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
)

var ErrLineTooLong = errors.New("line exceeds max line size")

// FileAccessError is returned when a log file cannot be opened or read.
type FileAccessError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// Line is one line of a file without its terminator. No starts at 1.
type Line struct {
	No       int64
	Text     string
	Oversize bool
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// Lines streams the lines of path. The file is opened when iteration starts
// and closed when it ends, whether by exhaustion, break, error or ctx.
func Lines(ctx context.Context, path string, opts Options) iter.Seq2[Line, error] {
	opts = opts.withDefaults()
	return func(yield func(Line, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			opts.Tally.AddFailed()
			yield(Line{}, &FileAccessError{Path: path, Op: "open", Err: err})
			return
		}
		defer f.Close()

		reader := bufio.NewReader(f)
		buf := make([]byte, 0, 4096)
		var no int64
		for {
			if err := ctx.Err(); err != nil {
				yield(Line{}, err)
				return
			}
			var oversize bool
			var n int
			buf, n, oversize, err = readLine(reader, buf, opts.MaxLineSize)
			if err != nil && !errors.Is(err, io.EOF) {
				opts.Tally.AddFailed()
				yield(Line{}, &FileAccessError{Path: path, Op: "read", Err: err})
				return
			}
			if n == 0 && err != nil {
				return
			}
			no++
			if no == 1 {
				buf = bytes.TrimPrefix(buf, bom)
			}
			opts.Tally.AddLine()
			line := Line{No: no, Text: strings.ToValidUTF8(string(buf), "\uFFFD"), Oversize: oversize}
			if !yield(line, nil) {
				return
			}
			if err != nil {
				return
			}
		}
	}
}

// readLine reads up to and including the next '\n'. It keeps at most max
// bytes of content and discards the rest of an oversize line. n is the
// number of bytes consumed from r.
func readLine(r *bufio.Reader, buf []byte, max int) ([]byte, int, bool, error) {
	buf = buf[:0]
	var n int
	var dropped bool
	for {
		chunk, err := r.ReadSlice('\n')
		n += len(chunk)
		if room := max + 2 - len(buf); room > 0 {
			if len(chunk) > room {
				chunk, dropped = chunk[:room], true
			}
			buf = append(buf, chunk...)
		} else if len(chunk) > 0 {
			dropped = true
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		buf = bytes.TrimSuffix(buf, []byte{'\n'})
		buf = bytes.TrimSuffix(buf, []byte{'\r'})
		oversize := dropped || len(buf) > max
		if len(buf) > max {
			buf = buf[:max]
		}
		return buf, n, oversize, err
	}
}
