package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/workforce-api/internal/api/shared"
	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/service"
	"github.com/phrazzld/workforce-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"service not found", service.ErrTaskNotFound, http.StatusNotFound},
		{"store not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", service.ErrTaskNotFound), http.StatusNotFound},
		{"domain validation", domain.ErrInvalidPriority, http.StatusBadRequest},
		{"wrapped validation", service.NewTaskServiceError("op", "msg", domain.ErrEmptyComment), http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{nil, "An unexpected error occurred"},
		{service.ErrTaskNotFound, "Task not found"},
		{domain.ErrInvalidTaskStatus, "Invalid task status"},
		{domain.ErrInvalidDateField, "Invalid date field"},
		{domain.ErrInvalidID, "Invalid ID"},
		{domain.ErrValidation, "Invalid entity data"},
		{store.ErrInvalidEntity, "Invalid entity data"},
		{errors.New("pq: password=hunter22 rejected"), "An unexpected error occurred"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, GetSafeErrorMessage(tc.err))
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := shared.ValidateRequest(&AssignByReferenceRequest{ReferenceID: 1, AssigneeID: 2})
	assert.Equal(t, "Invalid reference_type: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
