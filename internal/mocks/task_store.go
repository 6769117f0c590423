package mocks

import (
	"context"

	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockTaskStore is a mock of store.TaskStore interface for use with testify/mock
type TestifyMockTaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*TestifyMockTaskStore)(nil)

// Create is a mock implementation of store.TaskStore.Create
func (m *TestifyMockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// GetByID is a mock implementation of store.TaskStore.GetByID
func (m *TestifyMockTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// Update is a mock implementation of store.TaskStore.Update
func (m *TestifyMockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// List is a mock implementation of store.TaskStore.List
func (m *TestifyMockTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	args := m.Called(ctx)
	return tasksArg(args, 0), args.Error(1)
}

// FindByReference is a mock implementation of store.TaskStore.FindByReference
func (m *TestifyMockTaskStore) FindByReference(
	ctx context.Context,
	referenceID int64,
	referenceType domain.ReferenceType,
) ([]*domain.Task, error) {
	args := m.Called(ctx, referenceID, referenceType)
	return tasksArg(args, 0), args.Error(1)
}

// FindByAssignees is a mock implementation of store.TaskStore.FindByAssignees
func (m *TestifyMockTaskStore) FindByAssignees(ctx context.Context, assigneeIDs []int64) ([]*domain.Task, error) {
	args := m.Called(ctx, assigneeIDs)
	return tasksArg(args, 0), args.Error(1)
}

// FindByPriority is a mock implementation of store.TaskStore.FindByPriority
func (m *TestifyMockTaskStore) FindByPriority(ctx context.Context, priority domain.Priority) ([]*domain.Task, error) {
	args := m.Called(ctx, priority)
	return tasksArg(args, 0), args.Error(1)
}

// RunInTx is a mock implementation of store.TaskStore.RunInTx.
// When the expectation returns a nil error, fn is run against the mock
// itself so the expectations on the other methods apply inside the
// transaction.
func (m *TestifyMockTaskStore) RunInTx(ctx context.Context, fn store.TxFn) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m)
}

func tasksArg(args mock.Arguments, index int) []*domain.Task {
	if tasks, ok := args.Get(index).([]*domain.Task); ok {
		return tasks
	}
	return nil
}
