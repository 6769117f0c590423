package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the task service.
const (
	TaskCreated         = "task.created"
	TaskUpdated         = "task.updated"
	TaskReassigned      = "task.reassigned"
	TaskCancelled       = "task.cancelled"
	TaskPriorityUpdated = "task.priority_updated"
	TaskCommented       = "task.commented"
)

// TaskEvent records a change made to a task after it has been committed.
type TaskEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Task* constants
	Type string `json:"type"`

	// TaskID is the task the change applies to
	TaskID int64 `json:"task_id"`

	// Payload contains event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload,omitempty"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *TaskEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewTaskEvent creates a new TaskEvent with the specified type, task and payload.
// A nil payload leaves Payload empty.
func NewTaskEvent(eventType string, taskID int64, payload interface{}) (*TaskEvent, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = b
	}

	return &TaskEvent{
		ID:        uuid.New(),
		Type:      eventType,
		TaskID:    taskID,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *TaskEvent) error
}

// HandlerFunc adapts an ordinary function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *TaskEvent) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *TaskEvent) error {
	return f(ctx, event)
}
