package kanban

import (
	"errors"
	"fmt"
)

// Error kinds. Every error raised by this package wraps exactly one of them,
// so callers can branch with errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrAuthorization = errors.New("authorization error")
	ErrState         = errors.New("state error")
	ErrNotFound      = errors.New("not found")
	ErrCapacity      = errors.New("capacity error")
	ErrDuplicate     = errors.New("duplicate error")
)

// Error carries a user-facing message together with its kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
