package store

import (
	"context"

	"github.com/phrazzld/workforce-api/internal/domain"
)

// TxFn is a function that runs against a transactional view of a TaskStore.
// Writes made through tx become visible to other callers only if the
// function returns nil.
type TxFn func(ctx context.Context, tx TaskStore) error

// TaskStore defines the interface for task data persistence.
//
// All read methods return copies ordered by ascending task ID; callers may
// mutate them freely and persist changes with Update.
type TaskStore interface {
	// Create saves a new task. It assigns the task ID, the creation time if
	// unset, and IDs for the task's activities and comments. The passed task
	// is updated in place with the assigned values.
	// Returns ErrInvalidEntity if the task fails domain validation.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// Update saves changes to an existing task, assigning IDs to any
	// activities or comments appended since it was loaded.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// List returns every task.
	List(ctx context.Context) ([]*domain.Task, error)

	// FindByReference returns the tasks attached to the given reference.
	FindByReference(ctx context.Context, referenceID int64, referenceType domain.ReferenceType) ([]*domain.Task, error)

	// FindByAssignees returns the tasks assigned to any of the given assignees.
	FindByAssignees(ctx context.Context, assigneeIDs []int64) ([]*domain.Task, error)

	// FindByPriority returns the tasks with the given priority.
	FindByPriority(ctx context.Context, priority domain.Priority) ([]*domain.Task, error)

	// RunInTx runs fn against a transactional view of the store. The view
	// is isolated from concurrent writers for the duration of fn. If fn
	// returns an error, none of its writes are applied.
	RunInTx(ctx context.Context, fn TxFn) error
}
