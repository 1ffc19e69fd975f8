package calc

import (
	"errors"
	"fmt"
)

var (
	// Rejected before parsing
	ErrDisallowedCharacters = errors.New("disallowed characters")

	// Evaluation failures
	ErrSyntax         = errors.New("invalid syntax")
	ErrDivisionByZero = errors.New("division by zero")
	ErrOverflow       = errors.New("overflow")
	ErrValue          = errors.New("value error")
)

// Error describes why an expression could not be evaluated. Kind is one of
// the sentinel errors above so callers can tell failures apart with
// errors.Is while Msg carries the human readable detail.
type Error struct {
	Kind error
	Msg  string
	// Pos is the 1-based column the error refers to, or 0 when the error is
	// not tied to a position.
	Pos int
}

func (e *Error) Error() string {
	if e.Pos > 0 {
		return fmt.Sprintf("%s (column %d)", e.Msg, e.Pos)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func syntaxError(pos int, format string, args ...any) *Error {
	return &Error{Kind: ErrSyntax, Msg: fmt.Sprintf(format, args...), Pos: pos}
}

func zeroDivision(msg string) *Error {
	return &Error{Kind: ErrDivisionByZero, Msg: msg}
}

func overflow(msg string) *Error {
	return &Error{Kind: ErrOverflow, Msg: msg}
}
