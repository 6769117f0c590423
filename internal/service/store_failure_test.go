package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/mocks"
	"github.com/phrazzld/workforce-api/internal/platform/logger"
	"github.com/phrazzld/workforce-api/internal/platform/memory"
	"github.com/phrazzld/workforce-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errConnReset = errors.New("connection reset by peer")

func newMockedService(t *testing.T, st store.TaskStore, emitter *mocks.MockEventEmitter) TaskService {
	t.Helper()
	log, _ := logger.GetTestLogger(t)
	svc, err := NewTaskService(st, emitter, log, WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	return svc
}

func TestTaskService_StoreReadFailures(t *testing.T) {
	st := &mocks.TestifyMockTaskStore{}
	st.On("List", mock.Anything).Return(nil, errConnReset)
	st.On("GetByID", mock.Anything, int64(1)).Return(nil, errConnReset)
	st.On("GetByID", mock.Anything, int64(2)).Return(nil, store.ErrTaskNotFound)
	st.On("FindByPriority", mock.Anything, domain.PriorityLow).Return(nil, errConnReset)

	svc := newMockedService(t, st, &mocks.MockEventEmitter{})
	ctx := context.Background()

	_, err := svc.ListTasks(ctx)
	var serviceErr *TaskServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "list_tasks", serviceErr.Operation)
	assert.ErrorIs(t, err, errConnReset)

	_, err = svc.GetTask(ctx, 1)
	assert.ErrorIs(t, err, errConnReset)
	assert.NotErrorIs(t, err, ErrTaskNotFound)

	_, err = svc.GetTask(ctx, 2)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = svc.FetchTasksByPriority(ctx, domain.PriorityLow)
	assert.ErrorIs(t, err, errConnReset)

	st.AssertExpectations(t)
}

func TestTaskService_TransactionFailureEmitsNothing(t *testing.T) {
	st := &mocks.TestifyMockTaskStore{}
	st.On("RunInTx", mock.Anything, mock.Anything).Return(store.ErrTransactionFailed)
	emitter := &mocks.MockEventEmitter{}

	svc := newMockedService(t, st, emitter)

	_, err := svc.CreateTasks(context.Background(), []CreateTaskInput{{
		ReferenceID:   1,
		ReferenceType: domain.ReferenceTypeOrder,
		Kind:          domain.TaskKindCreateInvoice,
		AssigneeID:    1,
		Priority:      domain.PriorityLow,
	}})
	assert.ErrorIs(t, err, store.ErrTransactionFailed)
	assert.Empty(t, emitter.Events())
	st.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTaskService_CancelledContextFailsTransaction(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.AssignByReference(ctx, AssignInput{
		ReferenceID:   900,
		ReferenceType: domain.ReferenceTypeOrder,
		AssigneeID:    3,
	})
	assert.ErrorIs(t, err, store.ErrTransactionFailed)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.recorder.types())

	tasks, err := f.store.FindByReference(context.Background(), 900, domain.ReferenceTypeOrder)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskService_AssignStopsOnLookupFailure(t *testing.T) {
	st := &mocks.TestifyMockTaskStore{}
	st.On("RunInTx", mock.Anything, mock.Anything).Return(nil)
	st.On("FindByReference", mock.Anything, int64(7), domain.ReferenceTypeEntity).Return(nil, errConnReset)
	emitter := &mocks.MockEventEmitter{}

	svc := newMockedService(t, st, emitter)

	_, err := svc.AssignByReference(context.Background(), AssignInput{
		ReferenceID:   7,
		ReferenceType: domain.ReferenceTypeEntity,
		AssigneeID:    3,
	})
	assert.ErrorIs(t, err, errConnReset)
	st.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	st.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	assert.Empty(t, emitter.Events())
}

func TestTaskService_EmitFailureDoesNotFailCommittedChange(t *testing.T) {
	log, buf := logger.GetTestLogger(t)
	st := memory.NewTaskStore(nil, memory.WithClock(func() time.Time { return testNow }))
	emitter := &mocks.MockEventEmitter{Err: errors.New("handler unavailable")}

	svc, err := NewTaskService(st, emitter, log, WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)

	created, err := svc.CreateTasks(context.Background(), []CreateTaskInput{{
		ReferenceID:   1,
		ReferenceType: domain.ReferenceTypeOrder,
		Kind:          domain.TaskKindArrangePickup,
		AssigneeID:    1,
		Priority:      domain.PriorityMedium,
	}})
	require.NoError(t, err)
	require.Len(t, created, 1)

	stored, err := st.GetByID(context.Background(), created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskKindArrangePickup, stored.Kind)

	emitted := emitter.Events()
	require.Len(t, emitted, 1)
	assert.Equal(t, created[0].ID, emitted[0].TaskID)
	logger.AssertLogContains(t, buf, "failed to emit task event")
}
