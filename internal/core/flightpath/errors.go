package flightpath

import (
	"errors"
	"fmt"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
)

var (
	// ErrDegenerateInput is returned when both corridor ends share a ground position.
	ErrDegenerateInput = errors.New("coord1 and coord2 must be different points")

	// ErrInvalidArgument is returned for malformed inputs to the path primitives.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ValidationError names the builder option that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets callers match validation failures with domain.ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return domain.ErrInvalidInput
}

func invalidField(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
