package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/workforce-api/internal/events"
)

// MockEventEmitter implements events.EventEmitter for testing
type MockEventEmitter struct {
	// EmitEventFn overrides the default behavior of returning Err.
	EmitEventFn func(ctx context.Context, event *events.TaskEvent) error

	// Err is returned by EmitEvent when EmitEventFn is nil.
	Err error

	mu      sync.Mutex
	emitted []*events.TaskEvent
}

var _ events.EventEmitter = (*MockEventEmitter)(nil)

// EmitEvent records the event and then delegates to EmitEventFn or Err.
func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.TaskEvent) error {
	m.mu.Lock()
	m.emitted = append(m.emitted, event)
	m.mu.Unlock()

	if m.EmitEventFn != nil {
		return m.EmitEventFn(ctx, event)
	}
	return m.Err
}

// Events returns a copy of every event passed to EmitEvent, in call order.
func (m *MockEventEmitter) Events() []*events.TaskEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*events.TaskEvent, len(m.emitted))
	copy(out, m.emitted)
	return out
}
