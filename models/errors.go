package models

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrUnauthorized = errors.New("Unauthorized")
	ErrForbidden    = errors.New("Insufficient permissions")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// ValidationError is a request problem the caller can fix, its text goes to the client as is.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(format string, args ...any) error {
	return ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func RequiredError(field string) error {
	return ValidationError{Msg: fmt.Sprintf("%s is required", field)}
}

func IsValidationError(err error) bool {
	var vErr ValidationError
	return errors.As(err, &vErr)
}
