package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/events"
	"github.com/phrazzld/workforce-api/internal/platform/logger"
	"github.com/phrazzld/workforce-api/internal/store"
)

// defaultDescription is used for tasks created without one.
const defaultDescription = "New task created."

// CreateTaskInput holds the fields of a task to create.
type CreateTaskInput struct {
	ReferenceID   int64
	ReferenceType domain.ReferenceType
	Kind          domain.TaskKind
	AssigneeID    int64
	Priority      domain.Priority
	Deadline      *time.Time
	Description   string
}

// UpdateTaskInput names a task and the fields to change on it. Nil fields
// are left as they are.
type UpdateTaskInput struct {
	TaskID      int64
	Status      *domain.TaskStatus
	Description *string
}

// AssignInput asks for all work on a reference to be given to one assignee.
type AssignInput struct {
	ReferenceID   int64
	ReferenceType domain.ReferenceType
	AssigneeID    int64
}

// KindOutcome records what AssignByReference did for one task kind.
type KindOutcome struct {
	Kind domain.TaskKind `json:"task"`
	// TaskID is the task now holding the kind's work for the reference:
	// either the reassigned survivor or the newly created task.
	TaskID       int64   `json:"task_id"`
	Created      bool    `json:"created"`
	CancelledIDs []int64 `json:"cancelled_task_ids"`
}

// AssignResult summarizes an AssignByReference call.
type AssignResult struct {
	ReferenceID int64         `json:"reference_id"`
	Message     string        `json:"message"`
	Created     int           `json:"created"`
	Reassigned  int           `json:"reassigned"`
	Cancelled   int           `json:"cancelled"`
	Outcomes    []KindOutcome `json:"outcomes"`
}

// FetchByDateInput selects tasks of some assignees that are relevant to a
// date window.
type FetchByDateInput struct {
	AssigneeIDs []int64
	Start       time.Time
	End         time.Time
	// Field picks the timestamp compared against the window; empty means
	// domain.DateFieldCreatedAt.
	Field domain.DateField
}

// TaskService provides task-related operations
type TaskService interface {
	// GetTask retrieves a task by its ID.
	// Returns ErrTaskNotFound if it does not exist.
	GetTask(ctx context.Context, id int64) (*domain.Task, error)

	// ListTasks returns every task ordered by ID.
	ListTasks(ctx context.Context) ([]*domain.Task, error)

	// CreateTasks creates each task in ASSIGNED status. The batch is atomic.
	CreateTasks(ctx context.Context, inputs []CreateTaskInput) ([]*domain.Task, error)

	// UpdateTasks applies status and description changes. The batch is
	// atomic: an unknown task ID fails it with ErrTaskNotFound.
	UpdateTasks(ctx context.Context, inputs []UpdateTaskInput) ([]*domain.Task, error)

	// AssignByReference gives every applicable kind of work on a reference to
	// one assignee. For each kind it reassigns the first non-completed task
	// and cancels the remaining non-completed duplicates, or creates a task
	// if every task of that kind is completed. Cancelled tasks are eligible.
	AssignByReference(ctx context.Context, in AssignInput) (*AssignResult, error)

	// FetchTasksByDate returns the non-cancelled tasks of the given assignees
	// that fall in the window, plus open tasks that predate it.
	FetchTasksByDate(ctx context.Context, in FetchByDateInput) ([]*domain.Task, error)

	// FetchTasksByPriority returns every task with the given priority.
	FetchTasksByPriority(ctx context.Context, priority domain.Priority) ([]*domain.Task, error)

	// UpdateTaskPriority changes a task's priority on behalf of userID,
	// which may be nil.
	UpdateTaskPriority(ctx context.Context, taskID int64, priority domain.Priority, userID *int64) (*domain.Task, error)

	// AddComment appends a comment to a task.
	AddComment(ctx context.Context, taskID, userID int64, text string) (*domain.Task, error)
}

// TaskCache is a read cache for single task lookups. Entries are expected to
// be evicted by an events.EventHandler registered on the service's emitter,
// and every eviction must advance the generation so that a copy read before
// it is not cached afterwards.
type TaskCache interface {
	Get(id int64) (*domain.Task, bool)
	Generation() uint64
	SetIfCurrent(task *domain.Task, gen uint64) bool
}

// Option configures the task service.
type Option func(*taskServiceImpl)

// WithCache serves GetTask from c when possible.
func WithCache(c TaskCache) Option {
	return func(s *taskServiceImpl) {
		s.cache = c
	}
}

// WithClock overrides the time source used for activities and new tasks.
func WithClock(now func() time.Time) Option {
	return func(s *taskServiceImpl) {
		s.now = now
	}
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	store        store.TaskStore
	eventEmitter events.EventEmitter
	cache        TaskCache
	now          func() time.Time
	logger       *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	taskStore store.TaskStore,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
	opts ...Option,
) (TaskService, error) {
	if taskStore == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "taskStore cannot be nil",
		}
	}
	if eventEmitter == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "eventEmitter cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &taskServiceImpl{
		store:        taskStore,
		eventEmitter: eventEmitter,
		now:          func() time.Time { return time.Now().UTC() },
		logger:       logger.With("component", "task_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// log returns the request-scoped logger if ctx carries one.
func (s *taskServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// pendingEvent is an event to emit once the surrounding transaction commits.
type pendingEvent struct {
	eventType string
	taskID    int64
	payload   interface{}
}

// emit publishes events for committed changes. The changes are already
// durable, so failures are logged rather than returned.
func (s *taskServiceImpl) emit(ctx context.Context, pending []pendingEvent) {
	for _, p := range pending {
		event, err := events.NewTaskEvent(p.eventType, p.taskID, p.payload)
		if err != nil {
			s.log(ctx).Error("failed to create task event",
				"error", err,
				"event_type", p.eventType,
				"task_id", p.taskID)
			continue
		}
		if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
			s.log(ctx).Error("failed to emit task event",
				"error", err,
				"event_id", event.ID,
				"event_type", p.eventType,
				"task_id", p.taskID)
		}
	}
}

// GetTask retrieves a task by its ID
func (s *taskServiceImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	if s.cache != nil {
		if t, ok := s.cache.Get(id); ok {
			s.log(ctx).Debug("task served from cache", "task_id", id)
			return t, nil
		}
	}

	var gen uint64
	if s.cache != nil {
		gen = s.cache.Generation()
	}

	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		s.log(ctx).Debug("failed to retrieve task", "error", err, "task_id", id)
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}

	if s.cache != nil && !s.cache.SetIfCurrent(t, gen) {
		s.log(ctx).Debug("skipped caching task read before an eviction", "task_id", id)
	}
	return t, nil
}

// ListTasks returns every task
func (s *taskServiceImpl) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.store.List(ctx)
	if err != nil {
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// CreateTasks creates each task in one transaction
func (s *taskServiceImpl) CreateTasks(ctx context.Context, inputs []CreateTaskInput) ([]*domain.Task, error) {
	now := s.now()

	tasks := make([]*domain.Task, 0, len(inputs))
	for i, in := range inputs {
		description := in.Description
		if description == "" {
			description = defaultDescription
		}
		t, err := domain.NewTask(domain.TaskParams{
			ReferenceID:   in.ReferenceID,
			ReferenceType: in.ReferenceType,
			Kind:          in.Kind,
			AssigneeID:    in.AssigneeID,
			Priority:      in.Priority,
			Deadline:      in.Deadline,
			Description:   description,
		}, now)
		if err != nil {
			s.log(ctx).Warn("invalid task in create request",
				"error", err,
				"index", i,
				"reference_id", in.ReferenceID)
			return nil, NewTaskServiceError("create_tasks", fmt.Sprintf("invalid task at index %d", i), err)
		}
		tasks = append(tasks, t)
	}

	err := s.store.RunInTx(ctx, func(ctx context.Context, tx store.TaskStore) error {
		for _, t := range tasks {
			if err := tx.Create(ctx, t); err != nil {
				return NewTaskServiceError("create_tasks", "failed to save task", err)
			}
		}
		return nil
	})
	if err != nil {
		s.log(ctx).Error("failed to create tasks", "error", err, "count", len(tasks))
		return nil, err
	}

	pending := make([]pendingEvent, 0, len(tasks))
	for _, t := range tasks {
		pending = append(pending, pendingEvent{events.TaskCreated, t.ID, map[string]interface{}{
			"reference_id":   t.ReferenceID,
			"reference_type": t.ReferenceType,
			"task":           t.Kind,
			"assignee_id":    t.AssigneeID,
		}})
	}
	s.emit(ctx, pending)

	s.log(ctx).Info("tasks created", "count", len(tasks))
	return tasks, nil
}

// UpdateTasks applies each update in one transaction
func (s *taskServiceImpl) UpdateTasks(ctx context.Context, inputs []UpdateTaskInput) ([]*domain.Task, error) {
	now := s.now()

	var updated []*domain.Task
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx store.TaskStore) error {
		updated = make([]*domain.Task, 0, len(inputs))
		for _, in := range inputs {
			t, err := tx.GetByID(ctx, in.TaskID)
			if err != nil {
				return NewTaskServiceError("update_tasks", "failed to retrieve task", err)
			}

			if in.Status != nil {
				if err := t.UpdateStatus(*in.Status, now); err != nil {
					return NewTaskServiceError("update_tasks",
						fmt.Sprintf("failed to update status of task %d", in.TaskID), err)
				}
			}
			if in.Description != nil {
				t.UpdateDescription(*in.Description, now)
			}

			if err := tx.Update(ctx, t); err != nil {
				return NewTaskServiceError("update_tasks", "failed to save task", err)
			}
			updated = append(updated, t)
		}
		return nil
	})
	if err != nil {
		s.log(ctx).Warn("task update batch rejected", "error", err, "count", len(inputs))
		return nil, err
	}

	pending := make([]pendingEvent, 0, len(updated))
	for _, t := range updated {
		pending = append(pending, pendingEvent{events.TaskUpdated, t.ID, map[string]interface{}{
			"status": t.Status,
		}})
	}
	s.emit(ctx, pending)

	s.log(ctx).Info("tasks updated", "count", len(updated))
	return updated, nil
}

// AssignByReference reassigns or creates the work on a reference.
// The lookup, reassignment and deduplication happen in one transaction, so
// concurrent calls for the same reference cannot both create a task.
func (s *taskServiceImpl) AssignByReference(ctx context.Context, in AssignInput) (*AssignResult, error) {
	kinds := domain.KindsForReference(in.ReferenceType)
	if kinds == nil {
		return nil, NewTaskServiceError("assign_by_reference", "unknown reference type", domain.ErrInvalidReferenceType)
	}
	if in.ReferenceID <= 0 {
		return nil, NewTaskServiceError("assign_by_reference", "reference id must be positive", domain.ErrInvalidID)
	}
	if in.AssigneeID <= 0 {
		return nil, NewTaskServiceError("assign_by_reference", "assignee id must be positive", domain.ErrInvalidID)
	}

	now := s.now()
	var (
		result  *AssignResult
		pending []pendingEvent
	)

	err := s.store.RunInTx(ctx, func(ctx context.Context, tx store.TaskStore) error {
		result = &AssignResult{
			ReferenceID: in.ReferenceID,
			Outcomes:    make([]KindOutcome, 0, len(kinds)),
		}
		pending = nil

		existing, err := tx.FindByReference(ctx, in.ReferenceID, in.ReferenceType)
		if err != nil {
			return NewTaskServiceError("assign_by_reference", "failed to find tasks for reference", err)
		}

		for _, kind := range kinds {
			outcome, kindEvents, err := s.assignKind(ctx, tx, in, kind, eligibleOfKind(existing, kind), now)
			if err != nil {
				return err
			}
			result.Outcomes = append(result.Outcomes, outcome)
			pending = append(pending, kindEvents...)
			if outcome.Created {
				result.Created++
			} else {
				result.Reassigned++
			}
			result.Cancelled += len(outcome.CancelledIDs)
		}
		return nil
	})
	if err != nil {
		s.log(ctx).Error("failed to assign tasks by reference",
			"error", err,
			"reference_id", in.ReferenceID,
			"reference_type", in.ReferenceType,
			"assignee_id", in.AssigneeID)
		return nil, err
	}

	s.emit(ctx, pending)

	result.Message = fmt.Sprintf("Tasks assigned successfully for reference %d", in.ReferenceID)
	s.log(ctx).Info("tasks assigned by reference",
		"reference_id", in.ReferenceID,
		"reference_type", in.ReferenceType,
		"assignee_id", in.AssigneeID,
		"created", result.Created,
		"reassigned", result.Reassigned,
		"cancelled", result.Cancelled)
	return result, nil
}

// assignKind handles one task kind of AssignByReference. eligible must be
// ordered by ID; its first element survives.
func (s *taskServiceImpl) assignKind(
	ctx context.Context,
	tx store.TaskStore,
	in AssignInput,
	kind domain.TaskKind,
	eligible []*domain.Task,
	now time.Time,
) (KindOutcome, []pendingEvent, error) {
	outcome := KindOutcome{Kind: kind, CancelledIDs: []int64{}}

	if len(eligible) == 0 {
		t, err := domain.NewAssignedTask(domain.TaskParams{
			ReferenceID:   in.ReferenceID,
			ReferenceType: in.ReferenceType,
			Kind:          kind,
			AssigneeID:    in.AssigneeID,
			Priority:      domain.PriorityMedium,
			Description:   defaultDescription,
		}, now)
		if err != nil {
			return outcome, nil, NewTaskServiceError("assign_by_reference", "failed to build task", err)
		}
		if err := tx.Create(ctx, t); err != nil {
			return outcome, nil, NewTaskServiceError("assign_by_reference", "failed to save new task", err)
		}
		outcome.TaskID = t.ID
		outcome.Created = true
		return outcome, []pendingEvent{{events.TaskCreated, t.ID, map[string]interface{}{
			"reference_id":   t.ReferenceID,
			"reference_type": t.ReferenceType,
			"task":           t.Kind,
			"assignee_id":    t.AssigneeID,
		}}}, nil
	}

	first := eligible[0]
	previous := first.AssigneeID
	if err := first.Reassign(in.AssigneeID, now); err != nil {
		return outcome, nil, NewTaskServiceError("assign_by_reference", "failed to reassign task", err)
	}
	if err := tx.Update(ctx, first); err != nil {
		return outcome, nil, NewTaskServiceError("assign_by_reference", "failed to save reassigned task", err)
	}
	outcome.TaskID = first.ID
	pending := []pendingEvent{{events.TaskReassigned, first.ID, map[string]int64{
		"from_assignee_id": previous,
		"to_assignee_id":   in.AssigneeID,
	}}}

	for _, dup := range eligible[1:] {
		dup.Cancel(now)
		if err := tx.Update(ctx, dup); err != nil {
			return outcome, nil, NewTaskServiceError("assign_by_reference", "failed to cancel duplicate task", err)
		}
		outcome.CancelledIDs = append(outcome.CancelledIDs, dup.ID)
		pending = append(pending, pendingEvent{events.TaskCancelled, dup.ID, map[string]int64{
			"kept_task_id": first.ID,
		}})
	}

	if len(outcome.CancelledIDs) > 0 {
		s.log(ctx).Info("cancelled duplicate tasks",
			"reference_id", in.ReferenceID,
			"task", kind,
			"kept_task_id", first.ID,
			"cancelled_task_ids", outcome.CancelledIDs)
	}
	return outcome, pending, nil
}

// eligibleOfKind returns the non-completed tasks of the given kind,
// preserving order. A cancelled task is still eligible for reassignment.
func eligibleOfKind(tasks []*domain.Task, kind domain.TaskKind) []*domain.Task {
	var out []*domain.Task
	for _, t := range tasks {
		if t.Kind == kind && t.Status != domain.TaskStatusCompleted {
			out = append(out, t)
		}
	}
	return out
}

// FetchTasksByDate filters the assignees' tasks through a date window
func (s *taskServiceImpl) FetchTasksByDate(ctx context.Context, in FetchByDateInput) ([]*domain.Task, error) {
	window, err := domain.NewDateWindow(in.Start, in.End, in.Field)
	if err != nil {
		return nil, NewTaskServiceError("fetch_tasks_by_date", "invalid date window", err)
	}

	tasks, err := s.store.FindByAssignees(ctx, in.AssigneeIDs)
	if err != nil {
		return nil, NewTaskServiceError("fetch_tasks_by_date", "failed to find tasks for assignees", err)
	}

	matched := window.Filter(tasks)
	s.log(ctx).Debug("fetched tasks by date",
		"assignee_count", len(in.AssigneeIDs),
		"candidates", len(tasks),
		"matched", len(matched),
		"date_field", window.Field)
	return matched, nil
}

// FetchTasksByPriority returns every task with the given priority
func (s *taskServiceImpl) FetchTasksByPriority(ctx context.Context, priority domain.Priority) ([]*domain.Task, error) {
	if !priority.IsValid() {
		return nil, NewTaskServiceError("fetch_tasks_by_priority", "unknown priority", domain.ErrInvalidPriority)
	}

	tasks, err := s.store.FindByPriority(ctx, priority)
	if err != nil {
		return nil, NewTaskServiceError("fetch_tasks_by_priority", "failed to find tasks", err)
	}
	return tasks, nil
}

// UpdateTaskPriority changes a task's priority
func (s *taskServiceImpl) UpdateTaskPriority(
	ctx context.Context,
	taskID int64,
	priority domain.Priority,
	userID *int64,
) (*domain.Task, error) {
	t, err := s.mutate(ctx, "update_task_priority", taskID, func(t *domain.Task, now time.Time) error {
		return t.UpdatePriority(priority, userID, now)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, []pendingEvent{{events.TaskPriorityUpdated, t.ID, map[string]interface{}{
		"priority": t.Priority,
		"user_id":  userID,
	}}})
	return t, nil
}

// AddComment appends a comment to a task
func (s *taskServiceImpl) AddComment(ctx context.Context, taskID, userID int64, text string) (*domain.Task, error) {
	t, err := s.mutate(ctx, "add_comment", taskID, func(t *domain.Task, now time.Time) error {
		return t.AddComment(userID, text, now)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, []pendingEvent{{events.TaskCommented, t.ID, map[string]int64{
		"user_id": userID,
	}}})
	return t, nil
}

// mutate loads a task, applies change and saves it in one transaction.
func (s *taskServiceImpl) mutate(
	ctx context.Context,
	operation string,
	taskID int64,
	change func(t *domain.Task, now time.Time) error,
) (*domain.Task, error) {
	now := s.now()

	var out *domain.Task
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx store.TaskStore) error {
		t, err := tx.GetByID(ctx, taskID)
		if err != nil {
			return NewTaskServiceError(operation, "failed to retrieve task", err)
		}
		if err := change(t, now); err != nil {
			return NewTaskServiceError(operation, "invalid change", err)
		}
		if err := tx.Update(ctx, t); err != nil {
			return NewTaskServiceError(operation, "failed to save task", err)
		}
		out = t
		return nil
	})
	if err != nil {
		s.log(ctx).Warn("task change rejected",
			"error", err,
			"operation", operation,
			"task_id", taskID)
		return nil, err
	}
	return out, nil
}
