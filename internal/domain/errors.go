package domain

import (
	"errors"
	"fmt"
)

// ErrValidation is returned when a domain entity fails validation.
// The specific errors below wrap it, so callers can test either.
var ErrValidation = errors.New("validation failed")

// Validation errors for tasks and their inputs.
var (
	ErrInvalidID            = fmt.Errorf("%w: invalid ID", ErrValidation)
	ErrInvalidReferenceType = fmt.Errorf("%w: invalid reference type", ErrValidation)
	ErrInvalidTaskKind      = fmt.Errorf("%w: invalid task kind", ErrValidation)
	ErrInvalidTaskStatus    = fmt.Errorf("%w: invalid task status", ErrValidation)
	ErrInvalidPriority      = fmt.Errorf("%w: invalid priority", ErrValidation)
	ErrInvalidDateField     = fmt.Errorf("%w: invalid date field", ErrValidation)
	ErrInvalidDateRange     = fmt.Errorf("%w: end date is before start date", ErrValidation)
	ErrEmptyComment         = fmt.Errorf("%w: comment cannot be empty", ErrValidation)

	// ErrKindNotApplicable is returned when a task kind does not belong to
	// the reference type it is being created for.
	ErrKindNotApplicable = fmt.Errorf("%w: task kind not applicable to reference type", ErrValidation)
)
