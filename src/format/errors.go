package format

import (
	"errors"
	"fmt"
)

// FormatNotFoundCode is the diagnostic code carried by FormatNotFoundError.
const FormatNotFoundCode = 404

var ErrFormatNotFound = errors.New("format not found in registry")

type FormatNotFoundError struct {
	Format string
	Code   int
}

func (e *FormatNotFoundError) Error() string {
	return fmt.Sprintf("format %q not found in registry (error code: %d)", e.Format, e.Code)
}

func (e *FormatNotFoundError) Is(target error) bool {
	return target == ErrFormatNotFound
}

var (
	ErrNoMatch   = errors.New("line does not match format")
	ErrTimestamp = errors.New("invalid timestamp")
	ErrMethod    = errors.New("unsupported HTTP method")
	ErrStatus    = errors.New("invalid status")
	ErrSize      = errors.New("invalid size")
)

// ParseError reports a single line that could not be turned into a record.
type ParseError struct {
	Format string
	Line   string
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %v %q in line %q", e.Format, e.Err, e.Detail, e.Line)
	}
	return fmt.Sprintf("%s: %v: %q", e.Format, e.Err, e.Line)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseErr(format, line string, err error, detail string) *ParseError {
	return &ParseError{Format: format, Line: line, Detail: detail, Err: err}
}
