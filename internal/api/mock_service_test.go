package api

import (
	"context"

	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/service"
)

// MockTaskService is a mock implementation of service.TaskService for testing
type MockTaskService struct {
	GetTaskFn              func(ctx context.Context, id int64) (*domain.Task, error)
	ListTasksFn            func(ctx context.Context) ([]*domain.Task, error)
	CreateTasksFn          func(ctx context.Context, inputs []service.CreateTaskInput) ([]*domain.Task, error)
	UpdateTasksFn          func(ctx context.Context, inputs []service.UpdateTaskInput) ([]*domain.Task, error)
	AssignByReferenceFn    func(ctx context.Context, in service.AssignInput) (*service.AssignResult, error)
	FetchTasksByDateFn     func(ctx context.Context, in service.FetchByDateInput) ([]*domain.Task, error)
	FetchTasksByPriorityFn func(ctx context.Context, priority domain.Priority) ([]*domain.Task, error)
	UpdateTaskPriorityFn   func(ctx context.Context, taskID int64, priority domain.Priority, userID *int64) (*domain.Task, error)
	AddCommentFn           func(ctx context.Context, taskID, userID int64, text string) (*domain.Task, error)
}

var _ service.TaskService = (*MockTaskService)(nil)

// GetTask implements service.TaskService
func (m *MockTaskService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, id)
	}
	return nil, service.ErrTaskNotFound
}

// ListTasks implements service.TaskService
func (m *MockTaskService) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx)
	}
	return nil, nil
}

// CreateTasks implements service.TaskService
func (m *MockTaskService) CreateTasks(
	ctx context.Context,
	inputs []service.CreateTaskInput,
) ([]*domain.Task, error) {
	if m.CreateTasksFn != nil {
		return m.CreateTasksFn(ctx, inputs)
	}
	return nil, nil
}

// UpdateTasks implements service.TaskService
func (m *MockTaskService) UpdateTasks(
	ctx context.Context,
	inputs []service.UpdateTaskInput,
) ([]*domain.Task, error) {
	if m.UpdateTasksFn != nil {
		return m.UpdateTasksFn(ctx, inputs)
	}
	return nil, nil
}

// AssignByReference implements service.TaskService
func (m *MockTaskService) AssignByReference(
	ctx context.Context,
	in service.AssignInput,
) (*service.AssignResult, error) {
	if m.AssignByReferenceFn != nil {
		return m.AssignByReferenceFn(ctx, in)
	}
	return &service.AssignResult{}, nil
}

// FetchTasksByDate implements service.TaskService
func (m *MockTaskService) FetchTasksByDate(
	ctx context.Context,
	in service.FetchByDateInput,
) ([]*domain.Task, error) {
	if m.FetchTasksByDateFn != nil {
		return m.FetchTasksByDateFn(ctx, in)
	}
	return nil, nil
}

// FetchTasksByPriority implements service.TaskService
func (m *MockTaskService) FetchTasksByPriority(
	ctx context.Context,
	priority domain.Priority,
) ([]*domain.Task, error) {
	if m.FetchTasksByPriorityFn != nil {
		return m.FetchTasksByPriorityFn(ctx, priority)
	}
	return nil, nil
}

// UpdateTaskPriority implements service.TaskService
func (m *MockTaskService) UpdateTaskPriority(
	ctx context.Context,
	taskID int64,
	priority domain.Priority,
	userID *int64,
) (*domain.Task, error) {
	if m.UpdateTaskPriorityFn != nil {
		return m.UpdateTaskPriorityFn(ctx, taskID, priority, userID)
	}
	return nil, service.ErrTaskNotFound
}

// AddComment implements service.TaskService
func (m *MockTaskService) AddComment(
	ctx context.Context,
	taskID, userID int64,
	text string,
) (*domain.Task, error) {
	if m.AddCommentFn != nil {
		return m.AddCommentFn(ctx, taskID, userID, text)
	}
	return nil, service.ErrTaskNotFound
}
