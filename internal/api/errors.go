package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/workforce-api/internal/api/shared"
	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/service"
	"github.com/phrazzld/workforce-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, store.ErrNotFound):
		return "Task not found"

	case errors.Is(err, domain.ErrInvalidReferenceType):
		return "Invalid reference type"
	case errors.Is(err, domain.ErrInvalidTaskKind):
		return "Invalid task"
	case errors.Is(err, domain.ErrKindNotApplicable):
		return "Task not applicable to reference type"
	case errors.Is(err, domain.ErrInvalidTaskStatus):
		return "Invalid task status"
	case errors.Is(err, domain.ErrInvalidPriority):
		return "Invalid priority"
	case errors.Is(err, domain.ErrInvalidDateField):
		return "Invalid date field"
	case errors.Is(err, domain.ErrInvalidDateRange):
		return "End date must not be before start date"
	case errors.Is(err, domain.ErrEmptyComment):
		return "Comment cannot be empty"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a validator error into a short message
// naming the first offending field by its JSON name. Anything else yields a generic message.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "gt", "gte", "min":
		return "too small"
	case "max":
		return "too many values"
	case "oneof":
		return "invalid value"
	case "dive":
		return "invalid element"
	default:
		return "validation failed"
	}
}

// HandleAPIError maps err to a status code and safe message and writes the
// error response, logging the full error.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	statusCode := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if statusCode == http.StatusInternalServerError && defaultMsg != "" {
		message = defaultMsg
	}
	shared.RespondWithErrorAndLog(w, r, statusCode, message, err)
}
