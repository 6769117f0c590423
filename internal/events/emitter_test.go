package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/phrazzld/workforce-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryEventEmitter(t *testing.T) {
	l, _ := logger.GetTestLogger(t)

	t.Run("emit event with no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(l)
		event, err := NewTaskEvent(TaskCreated, 1, nil)
		require.NoError(t, err)

		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("emit event with successful handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(l)
		handler1 := &MockEventHandler{}
		handler2 := &MockEventHandler{}
		emitter.RegisterHandler(handler1)
		emitter.RegisterHandler(handler2)

		event, err := NewTaskEvent(TaskCreated, 1, nil)
		require.NoError(t, err)

		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Equal(t, 1, handler1.HandledCount)
		assert.Equal(t, 1, handler2.HandledCount)
		assert.Same(t, event, handler1.LastEvent)
		assert.Same(t, event, handler2.LastEvent)
	})

	t.Run("emit event with failing handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(l)
		first := &MockEventHandler{HandlerError: errors.New("first error")}
		success := &MockEventHandler{}
		second := &MockEventHandler{HandlerError: errors.New("second error")}
		emitter.RegisterHandler(first)
		emitter.RegisterHandler(success)
		emitter.RegisterHandler(second)

		event, err := NewTaskEvent(TaskCancelled, 2, nil)
		require.NoError(t, err)

		err = emitter.EmitEvent(context.Background(), event)
		assert.EqualError(t, err, "first error", "the first handler error is returned")
		assert.Equal(t, 1, first.HandledCount)
		assert.Equal(t, 1, success.HandledCount, "later handlers still run")
		assert.Equal(t, 1, second.HandledCount)
	})

	t.Run("concurrent emit and register", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(l)
		handler := &MockEventHandler{}
		emitter.RegisterHandler(handler)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(2)
			go func(id int64) {
				defer wg.Done()
				event, err := NewTaskEvent(TaskUpdated, id, nil)
				if err != nil {
					t.Error(err)
					return
				}
				if err := emitter.EmitEvent(context.Background(), event); err != nil {
					t.Error(err)
				}
			}(int64(i + 1))
			go func() {
				defer wg.Done()
				emitter.RegisterHandler(&MockEventHandler{})
			}()
		}
		wg.Wait()

		assert.Equal(t, 20, handler.count())
	})
}

func TestNoopEmitter(t *testing.T) {
	event, err := NewTaskEvent(TaskCreated, 1, nil)
	require.NoError(t, err)
	assert.NoError(t, NoopEmitter{}.EmitEvent(context.Background(), event))
}

func TestAuditLogHandler(t *testing.T) {
	l, buf := logger.GetTestLogger(t)
	h := NewAuditLogHandler(l)

	event, err := NewTaskEvent(TaskPriorityUpdated, 42, map[string]string{"priority": "HIGH"})
	require.NoError(t, err)

	require.NoError(t, h.HandleEvent(context.Background(), event))

	logger.AssertLogContains(t, buf, "task event")
	logger.AssertLogField(t, buf, "event_type", TaskPriorityUpdated)
	logger.AssertLogField(t, buf, "task_id", float64(42))
	logger.AssertLogField(t, buf, "component", "task_audit")
	logger.AssertLogContains(t, buf, `{\"priority\":\"HIGH\"}`)
}

func TestAuditLogHandlerPrefersRequestLogger(t *testing.T) {
	own, ownBuf := logger.GetTestLogger(t)
	h := NewAuditLogHandler(own)

	ctx, reqBuf := logger.NewCaptureContext(t)
	event, err := NewTaskEvent(TaskCommented, 9, nil)
	require.NoError(t, err)

	require.NoError(t, h.HandleEvent(ctx, event))

	assert.Empty(t, ownBuf.String())
	logger.AssertLogField(t, reqBuf, "event_type", TaskCommented)
}
