package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/platform/logger"
	"github.com/phrazzld/workforce-api/internal/store"
)

// TaskStore implements the store.TaskStore interface using an in-memory map
// as the storage backend.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[int64]*domain.Task

	taskSeq     atomic.Int64
	activitySeq atomic.Int64
	commentSeq  atomic.Int64

	now    func() time.Time
	logger *slog.Logger
}

// Option configures a TaskStore.
type Option func(*TaskStore)

// WithClock overrides the time source used to stamp creation times.
func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) {
		s.now = now
	}
}

// NewTaskStore creates an empty in-memory TaskStore.
// If logger is nil, a default logger will be used.
func NewTaskStore(logger *slog.Logger, opts ...Option) *TaskStore {
	if logger == nil {
		logger = slog.Default()
	}

	s := &TaskStore{
		tasks:  make(map[int64]*domain.Task),
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.With(slog.String("component", "task_store")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create(ctx, s.view(nil), task)
}

// GetByID implements store.TaskStore.GetByID
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getByID(ctx, s.view(nil), id)
}

// Update implements store.TaskStore.Update
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, s.view(nil), task)
}

// List implements store.TaskStore.List
func (s *TaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view(nil).filter(func(*domain.Task) bool { return true }), nil
}

// FindByReference implements store.TaskStore.FindByReference
func (s *TaskStore) FindByReference(
	ctx context.Context,
	referenceID int64,
	referenceType domain.ReferenceType,
) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view(nil).filter(byReference(referenceID, referenceType)), nil
}

// FindByAssignees implements store.TaskStore.FindByAssignees
func (s *TaskStore) FindByAssignees(ctx context.Context, assigneeIDs []int64) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view(nil).filter(byAssignees(assigneeIDs)), nil
}

// FindByPriority implements store.TaskStore.FindByPriority
func (s *TaskStore) FindByPriority(ctx context.Context, priority domain.Priority) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view(nil).filter(byPriority(priority)), nil
}

// RunInTx implements store.TaskStore.RunInTx
// The write lock is held until fn returns, so transactions are serialized
// with each other and with every direct read and write.
// A context that is done before the transaction starts or before it commits
// fails it with store.ErrTransactionFailed and nothing is written.
func (s *TaskStore) RunInTx(ctx context.Context, fn store.TxFn) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		log.Error("failed to begin transaction", slog.String("error", err.Error()))
		return fmt.Errorf("%w: begin: %w", store.ErrTransactionFailed, err)
	}

	tx := &txTaskStore{parent: s, staged: make(map[int64]*domain.Task)}
	if err := fn(ctx, tx); err != nil {
		log.Debug("rolled back transaction due to error",
			slog.String("error", err.Error()),
			slog.Int("staged_writes", len(tx.staged)))
		return err
	}

	if err := ctx.Err(); err != nil {
		log.Error("rolled back transaction before commit",
			slog.String("error", err.Error()),
			slog.Int("staged_writes", len(tx.staged)))
		return fmt.Errorf("%w: commit: %w", store.ErrTransactionFailed, err)
	}

	for id, t := range tx.staged {
		s.tasks[id] = t
	}
	log.Debug("transaction committed successfully",
		slog.Int("staged_writes", len(tx.staged)))
	return nil
}

// txTaskStore is the view of a TaskStore handed to RunInTx callbacks. The
// parent's write lock is already held, so its methods do not lock.
type txTaskStore struct {
	parent *TaskStore
	staged map[int64]*domain.Task
}

var _ store.TaskStore = (*txTaskStore)(nil)

func (tx *txTaskStore) Create(ctx context.Context, task *domain.Task) error {
	return tx.parent.create(ctx, tx.parent.view(tx.staged), task)
}

func (tx *txTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return tx.parent.getByID(ctx, tx.parent.view(tx.staged), id)
}

func (tx *txTaskStore) Update(ctx context.Context, task *domain.Task) error {
	return tx.parent.update(ctx, tx.parent.view(tx.staged), task)
}

func (tx *txTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	return tx.parent.view(tx.staged).filter(func(*domain.Task) bool { return true }), nil
}

func (tx *txTaskStore) FindByReference(
	ctx context.Context,
	referenceID int64,
	referenceType domain.ReferenceType,
) ([]*domain.Task, error) {
	return tx.parent.view(tx.staged).filter(byReference(referenceID, referenceType)), nil
}

func (tx *txTaskStore) FindByAssignees(ctx context.Context, assigneeIDs []int64) ([]*domain.Task, error) {
	return tx.parent.view(tx.staged).filter(byAssignees(assigneeIDs)), nil
}

func (tx *txTaskStore) FindByPriority(ctx context.Context, priority domain.Priority) ([]*domain.Task, error) {
	return tx.parent.view(tx.staged).filter(byPriority(priority)), nil
}

// RunInTx on a transaction joins it: fn shares the staged writes and the
// outcome of the enclosing transaction.
func (tx *txTaskStore) RunInTx(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, tx)
}

// view overlays staged writes (if any) on the committed tasks.
// The caller must hold the lock appropriate to what it does with the view.
type view struct {
	committed map[int64]*domain.Task
	staged    map[int64]*domain.Task
}

func (s *TaskStore) view(staged map[int64]*domain.Task) view {
	return view{committed: s.tasks, staged: staged}
}

func (v view) lookup(id int64) (*domain.Task, bool) {
	if v.staged != nil {
		if t, ok := v.staged[id]; ok {
			return t, true
		}
	}
	t, ok := v.committed[id]
	return t, ok
}

func (v view) put(t *domain.Task) {
	if v.staged != nil {
		v.staged[t.ID] = t
		return
	}
	v.committed[t.ID] = t
}

// filter returns clones of the matching tasks ordered by ID.
func (v view) filter(match func(*domain.Task) bool) []*domain.Task {
	ids := make([]int64, 0, len(v.committed)+len(v.staged))
	for id := range v.committed {
		ids = append(ids, id)
	}
	for id := range v.staged {
		if _, ok := v.committed[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*domain.Task, 0, len(ids))
	for _, id := range ids {
		t, _ := v.lookup(id)
		if match(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}

func byReference(referenceID int64, referenceType domain.ReferenceType) func(*domain.Task) bool {
	return func(t *domain.Task) bool {
		return t.ReferenceID == referenceID && t.ReferenceType == referenceType
	}
}

func byAssignees(assigneeIDs []int64) func(*domain.Task) bool {
	set := make(map[int64]struct{}, len(assigneeIDs))
	for _, id := range assigneeIDs {
		set[id] = struct{}{}
	}
	return func(t *domain.Task) bool {
		_, ok := set[t.AssigneeID]
		return ok
	}
}

func byPriority(priority domain.Priority) func(*domain.Task) bool {
	return func(t *domain.Task) bool {
		return t.Priority == priority
	}
}

func (s *TaskStore) create(ctx context.Context, v view, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if task.ID != 0 {
		log.Warn("refusing to create task that already has an ID",
			slog.Int64("task_id", task.ID))
		return store.NewStoreError("task", "create", "task already has an ID", store.ErrInvalidEntity)
	}

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("reference_id", task.ReferenceID))
		return store.NewStoreError("task", "create", "invalid task",
			fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
	}

	task.ID = s.taskSeq.Add(1)
	if task.CreatedAt.IsZero() {
		task.CreatedAt = s.now()
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = task.CreatedAt
	}
	s.stamp(task)
	v.put(task.Clone())

	log.Debug("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("reference_id", task.ReferenceID),
		slog.String("kind", string(task.Kind)),
		slog.Int64("assignee_id", task.AssigneeID))
	return nil
}

func (s *TaskStore) getByID(ctx context.Context, v view, id int64) (*domain.Task, error) {
	t, ok := v.lookup(id)
	if !ok {
		logger.FromContextOrDefault(ctx, s.logger).Debug("task not found",
			slog.Int64("task_id", id))
		return nil, store.ErrTaskNotFound
	}
	return t.Clone(), nil
}

func (s *TaskStore) update(ctx context.Context, v view, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, ok := v.lookup(task.ID); !ok {
		log.Debug("task not found for update", slog.Int64("task_id", task.ID))
		return store.ErrTaskNotFound
	}

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return store.NewStoreError("task", "update", "invalid task",
			fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
	}

	s.stamp(task)
	v.put(task.Clone())

	log.Debug("task updated",
		slog.Int64("task_id", task.ID),
		slog.String("status", string(task.Status)),
		slog.Int64("assignee_id", task.AssigneeID))
	return nil
}

// stamp assigns IDs to activities and comments that have none yet and ties
// them to the task.
func (s *TaskStore) stamp(task *domain.Task) {
	for i := range task.Activities {
		if task.Activities[i].ID == 0 {
			task.Activities[i].ID = s.activitySeq.Add(1)
		}
		task.Activities[i].TaskID = task.ID
	}
	for i := range task.Comments {
		if task.Comments[i].ID == 0 {
			task.Comments[i].ID = s.commentSeq.Add(1)
		}
		task.Comments[i].TaskID = task.ID
	}
}
