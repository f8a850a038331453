package source

import (
	"errors"
	"fmt"
)

// ParseError reports a malformed cell or a missing header column.
type ParseError struct {
	File   string
	Line   int    // 1-based; 0 when the error concerns the whole file
	Column string // header name
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: column %q: %v", e.File, e.Column, e.Err)
	}
	return fmt.Sprintf("%s:%d: column %q: %v", e.File, e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrMissingColumn is wrapped by a ParseError when a required header is absent.
var ErrMissingColumn = errors.New("missing column")

// ErrNonFinite marks a numeric cell holding NaN or an infinity.
var ErrNonFinite = errors.New("value is not finite")

// IsParseError returns true if err is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
