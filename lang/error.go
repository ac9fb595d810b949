package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
//
// Errors derived from a sentinel with [Error.With] or [Error.Wrap] still match
// it with [errors.Is].
var (
	ErrIllegalCharacter      = NewError("illegal character")
	ErrParenthesisMismatch   = NewError("parenthesis mismatch")
	ErrUnterminatedTokenList = NewError("unterminated token list")
	ErrCalculateSyntax       = NewError("invalid operand count")
	ErrCompileSyntax         = NewError("invalid expression syntax")
	ErrUndeclaredIdentifier  = NewError("undeclared identifier")
	ErrFunctionParse         = NewError("invalid function call")
	ErrFunctionHeader        = NewError("invalid function header")
	ErrFunctionDelimiter     = NewError("invalid function parameter delimiter")
	ErrFunctionClose         = NewError("unclosed function parameter list")
	ErrFunctionType          = NewError("invalid function parameter")
	ErrFunctionParameter     = NewError("function argument count mismatch")
	ErrMaxDepthExceeded      = NewError("maximum nesting depth exceeded")
	ErrInvalidNumber         = NewError("invalid number")
	ErrInvalidVariable       = NewError("invalid variable")
	ErrInvalidTarget         = NewError("invalid assignment target")
	ErrInvalidOrder          = NewError("invalid evaluation order")
	ErrResolver              = NewError("external resolver failed")
	ErrReadInput             = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	base  *Error      // Sentinel this error was derived from
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
// An error that already is (or wraps) an *Error is returned as that *Error.
func WrapError(err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message from whichever fields are set:
	//
	//   "<msg> (<key>=<value>, ...): <err>"
	var b strings.Builder

	b.WriteString(e.msg)

	if len(e.attrs) > 0 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}

		b.WriteByte('(')

		for i, a := range e.attrs {
			if i > 0 {
				b.WriteString(", ")
			}

			b.WriteString(a.String())
		}

		b.WriteByte(')')
	}

	if e.err != nil {
		if b.Len() > 0 {
			b.WriteString(": ")
		}

		b.WriteString(e.err.Error())
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}

	return e.root() == t.root()
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		base:  e.root(),
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		base:  e.root(),
		attrs: newAttrs,
	}
}
