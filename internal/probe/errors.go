package probe

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrTransport  ErrorKind = "transport"
	ErrDecode     ErrorKind = "decode"
	ErrTool       ErrorKind = "tool"
	ErrValidation ErrorKind = "validation"
)

type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

func ValidationError(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Err: fmt.Errorf(format, args...)}
}

func KindOf(err error) ErrorKind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return ErrTransport
}

func IsValidation(err error) bool {
	var perr *Error
	return errors.As(err, &perr) && perr.Kind == ErrValidation
}
