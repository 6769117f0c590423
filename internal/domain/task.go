package domain

import (
	"fmt"
	"strings"
	"time"
)

// Activity is an append-only audit note recording a state change on a task.
// UserID is nil when the change was made by the system rather than a user.
type Activity struct {
	ID          int64     `json:"id"`
	TaskID      int64     `json:"task_id"`
	Description string    `json:"description"`
	UserID      *int64    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Comment is a free-text note left on a task by a user.
type Comment struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	UserID    int64     `json:"user_id"`
	Text      string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Task is a unit of work of a given kind, attached to a business reference
// and assigned to a single assignee.
//
// ID, activity IDs and comment IDs are zero until the task has been saved;
// the store assigns them.
type Task struct {
	ID            int64         `json:"id"`
	ReferenceID   int64         `json:"reference_id"`
	ReferenceType ReferenceType `json:"reference_type"`
	Kind          TaskKind      `json:"task"`
	Description   string        `json:"description"`
	Status        TaskStatus    `json:"status"`
	AssigneeID    int64         `json:"assignee_id"`
	Priority      Priority      `json:"priority"`
	Deadline      *time.Time    `json:"task_deadline_time,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	Activities    []Activity    `json:"activities"`
	Comments      []Comment     `json:"comments"`
}

// TaskParams holds the caller-supplied fields of a new task.
type TaskParams struct {
	ReferenceID   int64
	ReferenceType ReferenceType
	Kind          TaskKind
	AssigneeID    int64
	Priority      Priority
	Deadline      *time.Time
	Description   string
}

// NewTask creates a task in ASSIGNED status from the given parameters and
// records a "Task created" activity attributed to the assignee.
// Returns an error if validation fails.
func NewTask(p TaskParams, now time.Time) (*Task, error) {
	return newTask(p, "Task created", now)
}

// NewAssignedTask is NewTask for work opened by an assignment against a
// reference; the first activity reads "New task assigned".
func NewAssignedTask(p TaskParams, now time.Time) (*Task, error) {
	return newTask(p, "New task assigned", now)
}

func newTask(p TaskParams, activity string, now time.Time) (*Task, error) {
	t := &Task{
		ReferenceID:   p.ReferenceID,
		ReferenceType: p.ReferenceType,
		Kind:          p.Kind,
		Description:   p.Description,
		Status:        TaskStatusAssigned,
		AssigneeID:    p.AssigneeID,
		Priority:      p.Priority,
		CreatedAt:     now,
		UpdatedAt:     now,
		Activities:    []Activity{},
		Comments:      []Comment{},
	}
	if p.Deadline != nil {
		d := *p.Deadline
		t.Deadline = &d
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	t.AddActivity(activity, UserRef(p.AssigneeID), now)
	return t, nil
}

// Validate checks that the task holds a consistent set of values.
func (t *Task) Validate() error {
	if t.ReferenceID <= 0 {
		return fmt.Errorf("%w: reference id must be positive", ErrInvalidID)
	}
	if !t.ReferenceType.IsValid() {
		return ErrInvalidReferenceType
	}
	if !t.Kind.IsValid() {
		return ErrInvalidTaskKind
	}
	if !t.Kind.AppliesTo(t.ReferenceType) {
		return ErrKindNotApplicable
	}
	if !t.Status.IsValid() {
		return ErrInvalidTaskStatus
	}
	if t.AssigneeID <= 0 {
		return fmt.Errorf("%w: assignee id must be positive", ErrInvalidID)
	}
	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}
	return nil
}

// AddActivity appends an audit note to the task.
func (t *Task) AddActivity(description string, userID *int64, at time.Time) {
	t.Activities = append(t.Activities, Activity{
		TaskID:      t.ID,
		Description: description,
		UserID:      userID,
		CreatedAt:   at,
	})
	t.UpdatedAt = at
}

// Reassign moves the task to a new assignee.
func (t *Task) Reassign(assigneeID int64, at time.Time) error {
	if assigneeID <= 0 {
		return fmt.Errorf("%w: assignee id must be positive", ErrInvalidID)
	}
	t.AssigneeID = assigneeID
	t.AddActivity("Task reassigned", UserRef(assigneeID), at)
	return nil
}

// Cancel marks the task CANCELLED. Used to retire duplicates.
func (t *Task) Cancel(at time.Time) {
	t.Status = TaskStatusCancelled
	t.AddActivity("Task cancelled", nil, at)
}

// UpdateStatus moves the task to the given status.
func (t *Task) UpdateStatus(status TaskStatus, at time.Time) error {
	if !status.IsValid() {
		return ErrInvalidTaskStatus
	}
	t.Status = status
	t.AddActivity(fmt.Sprintf("Status updated to %s", status), nil, at)
	return nil
}

// UpdateDescription replaces the free-text description. It is not audited.
func (t *Task) UpdateDescription(description string, at time.Time) {
	t.Description = description
	t.UpdatedAt = at
}

// UpdatePriority changes the task priority on behalf of userID, which may be nil.
func (t *Task) UpdatePriority(priority Priority, userID *int64, at time.Time) error {
	if !priority.IsValid() {
		return ErrInvalidPriority
	}
	t.Priority = priority
	t.AddActivity(fmt.Sprintf("Priority updated to %s", priority), userID, at)
	return nil
}

// AddComment appends a user comment and records an activity for it.
func (t *Task) AddComment(userID int64, text string, at time.Time) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyComment
	}
	if userID <= 0 {
		return fmt.Errorf("%w: user id must be positive", ErrInvalidID)
	}
	t.Comments = append(t.Comments, Comment{
		TaskID:    t.ID,
		UserID:    userID,
		Text:      text,
		CreatedAt: at,
	})
	t.AddActivity(fmt.Sprintf("User %d added a comment", userID), UserRef(userID), at)
	return nil
}

// ReferenceTime returns the timestamp used to place the task in a date
// window. For DateFieldDeadline it is the deadline, falling back to the
// creation time for tasks without one.
func (t *Task) ReferenceTime(field DateField) time.Time {
	if field == DateFieldDeadline && t.Deadline != nil {
		return *t.Deadline
	}
	return t.CreatedAt
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}
	c.Activities = make([]Activity, len(t.Activities))
	for i, a := range t.Activities {
		if a.UserID != nil {
			a.UserID = UserRef(*a.UserID)
		}
		c.Activities[i] = a
	}
	c.Comments = make([]Comment, len(t.Comments))
	copy(c.Comments, t.Comments)
	return &c
}

// UserRef returns a pointer to a copy of id, for the nullable user fields.
func UserRef(id int64) *int64 {
	return &id
}
