package composite

import (
	"errors"
	"fmt"
)

// Parse failure causes. A *ParseError wraps exactly one of these so callers
// can branch with errors.Is while still getting the position from the error.
var (
	ErrUnexpectedEnd   = errors.New("unexpected end of string inside placeholder")
	ErrStrayBrace      = errors.New("closing brace without a matching opening brace")
	ErrIndexOutOfRange = errors.New("placeholder index must be between 0 and 99")
	ErrLeadingZero     = errors.New("placeholder index must not have a leading zero")
	ErrSpecifier       = errors.New("alignment and format specifiers are not supported")
	ErrMissingIndex    = errors.New("placeholder must start with a digit")
	ErrUnexpectedChar  = errors.New("unexpected character inside placeholder")
)

// ParseError reports an invalid composite format together with the byte
// position of the offending character in the original input.
type ParseError struct {
	Pos int
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("composite: invalid format at position %d: %v", e.Pos, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseErr(pos int, cause error) *ParseError {
	return &ParseError{Pos: pos, Err: cause}
}
