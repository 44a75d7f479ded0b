// Package apperr defines the error taxonomy shared between the services
// and the HTTP layer. Handlers map these to status codes, everything else
// is treated as an internal error.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError means caller-supplied data broke a business rule
// (duplicate mission name, empty name, unknown category). Never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError means a referenced mission or file id doesn't exist.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func NotFoundf(format string, args ...any) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// StorageError wraps a failed filesystem operation. These are logged and,
// except for directory renames, don't abort the user-visible operation.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s, %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}

func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
