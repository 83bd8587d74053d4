package core

import "github.com/pkg/errors"

// FieldError reports an error on a single payload field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries an invalid-payload error, optionally broken down
// per field. The API layer renders Fields as a field->message map.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error { return err.Err }

type shutdown struct {
	message string
}

// NewShutdownError returns an error indicating the app can no longer serve
// requests and should shut down.
func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
