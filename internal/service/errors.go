package service

import (
	"errors"

	"storefront/console/internal/apiclient"
)

// Error is a failure normalized to the one message shown to the user.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// fail wraps err with the server message, or fallback when there is none.
// Validation errors already carry their message and pass through.
func fail(err error, fallback string) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return err
	}
	return &Error{Message: apiclient.Message(err, fallback), Err: err}
}
