package domain

import "time"

// DateField selects which task timestamp a DateWindow compares.
type DateField string

// Supported date fields
const (
	DateFieldCreatedAt DateField = "created_at"
	DateFieldDeadline  DateField = "deadline"
)

// IsValid reports whether f is a known date field. The empty value is
// accepted and means DateFieldCreatedAt.
func (f DateField) IsValid() bool {
	switch f {
	case "", DateFieldCreatedAt, DateFieldDeadline:
		return true
	default:
		return false
	}
}

// DateWindow is the "smart daily view" over a set of tasks: the tasks whose
// timestamp falls in [Start, End], plus the tasks that began before Start and
// are still open. Cancelled tasks never match.
type DateWindow struct {
	Start time.Time
	End   time.Time
	Field DateField
}

// NewDateWindow validates and builds a DateWindow. Both bounds are inclusive.
func NewDateWindow(start, end time.Time, field DateField) (DateWindow, error) {
	if !field.IsValid() {
		return DateWindow{}, ErrInvalidDateField
	}
	if end.Before(start) {
		return DateWindow{}, ErrInvalidDateRange
	}
	if field == "" {
		field = DateFieldCreatedAt
	}
	return DateWindow{Start: start, End: end, Field: field}, nil
}

// Matches reports whether the task belongs in the window.
func (w DateWindow) Matches(t *Task) bool {
	if t.Status == TaskStatusCancelled {
		return false
	}

	ts := t.ReferenceTime(w.Field)
	if !ts.Before(w.Start) && !ts.After(w.End) {
		return true
	}

	// Stale work: started before the window and never finished.
	return ts.Before(w.Start) && t.Status.IsOpen()
}

// Filter returns the tasks that match the window, preserving order.
func (w DateWindow) Filter(tasks []*Task) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if w.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}
