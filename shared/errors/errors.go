package errors

import (
	"errors"
	"fmt"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// Mutation outcomes. NotFound also covers "exists but owned by someone else".
var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidPosition        = fmt.Errorf("%w: position references unknown or non-adjacent siblings", ErrInvalidInput)
	ErrCrossBoardMove         = errors.New("cross-board move rejected")
	ErrConflictRetryExhausted = errors.New("concurrent modification, retry later")
)

// Internal only, never returned to callers of the service.
var (
	ErrOrderSpaceExhausted = errors.New("order space exhausted")
	ErrWriteConflict       = errors.New("write conflict")
)

// InvalidInput wraps ErrInvalidInput with a field specific message.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
