package services

import (
	"errors"
	"strings"
)

var (
	ErrNotFound        = errors.New("club not found")
	ErrPaymentDisabled = errors.New("payment is not enabled for this club")
	ErrNoZelleURL      = errors.New("club has no zelle url")
	ErrConflict        = errors.New("club was modified by someone else")
)

// ValidationError carries messages that are safe to show to the caller.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) add(problem string) {
	e.Problems = append(e.Problems, problem)
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
