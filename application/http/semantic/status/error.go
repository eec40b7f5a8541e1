package status

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error is an error which should be answered with Status.
type Error struct {
	cause  error
	Status Status
}

func NewError(err error, status Status) Error {
	return Error{cause: err, Status: status}
}

func (e Error) Error() string {
	cause := ""
	if e.cause != nil {
		cause = e.cause.Error()
	}

	return fmt.Sprintf(
		"%d %s: %q", e.Status.Code, e.Status.ReasonPhrase, cause,
	)
}

func (e Error) Cause() error {
	return e.cause
}

func (e Error) Unwrap() error {
	return e.cause
}

// ErrorFrom finds an Error in the chain of err,
// or wraps err with fallback when there is none.
func ErrorFrom(err error, fallback Status) Error {
	var se Error
	if errors.As(err, &se) {
		return se
	}
	return NewError(err, fallback)
}
