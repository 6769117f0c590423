package api

import (
	"time"

	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/service"
)

// Request structures. Timestamps are epoch milliseconds.

// CreateTaskRequest describes one task to create.
type CreateTaskRequest struct {
	ReferenceID      int64  `json:"reference_id"       validate:"gt=0"`
	ReferenceType    string `json:"reference_type"     validate:"required"`
	Task             string `json:"task"               validate:"required"`
	AssigneeID       int64  `json:"assignee_id"        validate:"gt=0"`
	Priority         string `json:"priority"           validate:"required"`
	TaskDeadlineTime *int64 `json:"task_deadline_time" validate:"omitempty,gt=0"`
	Description      string `json:"description"`
}

// CreateTasksRequest is the payload for POST /task-mgmt/create.
type CreateTasksRequest struct {
	Requests []CreateTaskRequest `json:"requests" validate:"required,min=1,dive"`
}

// UpdateTaskRequest changes the status and/or description of a task.
type UpdateTaskRequest struct {
	TaskID      int64   `json:"task_id"     validate:"gt=0"`
	TaskStatus  *string `json:"task_status"`
	Description *string `json:"description"`
}

// UpdateTasksRequest is the payload for POST /task-mgmt/update.
type UpdateTasksRequest struct {
	Requests []UpdateTaskRequest `json:"requests" validate:"required,min=1,dive"`
}

// AssignByReferenceRequest is the payload for POST /task-mgmt/assign-by-ref.
type AssignByReferenceRequest struct {
	ReferenceID   int64  `json:"reference_id"   validate:"gt=0"`
	ReferenceType string `json:"reference_type" validate:"required"`
	AssigneeID    int64  `json:"assignee_id"    validate:"gt=0"`
}

// FetchByDateRequest is the payload for POST /task-mgmt/fetch-by-date/v2.
type FetchByDateRequest struct {
	AssigneeIDs []int64 `json:"assignee_ids" validate:"required,min=1,dive,gt=0"`
	// StartDate and EndDate are epoch milliseconds; zero and negative values
	// are valid instants.
	StartDate *int64 `json:"start_date" validate:"required"`
	EndDate   *int64 `json:"end_date"   validate:"required"`
	// DateField is "created_at" (default) or "deadline".
	DateField string `json:"date_field"`
}

// UpdatePriorityRequest is the payload for POST /task-mgmt/priority/update.
type UpdatePriorityRequest struct {
	TaskID   int64  `json:"task_id"  validate:"gt=0"`
	Priority string `json:"priority" validate:"required"`
	UserID   *int64 `json:"user_id"  validate:"omitempty,gt=0"`
}

// AddCommentRequest is the payload for POST /task-mgmt/comment/add.
type AddCommentRequest struct {
	TaskID  int64  `json:"task_id" validate:"gt=0"`
	Comment string `json:"comment" validate:"required"`
	UserID  int64  `json:"user_id" validate:"gt=0"`
}

// Response structures

// ActivityResponse is one entry of a task's history.
type ActivityResponse struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	UserID      *int64 `json:"user_id"`
	CreatedAt   int64  `json:"created_at"`
}

// CommentResponse is a comment on a task.
type CommentResponse struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Comment   string `json:"comment"`
	CreatedAt int64  `json:"created_at"`
}

// TaskResponse represents the response data for a task
type TaskResponse struct {
	ID               int64              `json:"id"`
	ReferenceID      int64              `json:"reference_id"`
	ReferenceType    string             `json:"reference_type"`
	Task             string             `json:"task"`
	Description      string             `json:"description"`
	Status           string             `json:"status"`
	AssigneeID       int64              `json:"assignee_id"`
	Priority         string             `json:"priority"`
	TaskDeadlineTime *int64             `json:"task_deadline_time"`
	CreatedAt        int64              `json:"created_at"`
	UpdatedAt        int64              `json:"updated_at"`
	Activities       []ActivityResponse `json:"activities"`
	Comments         []CommentResponse  `json:"comments"`
}

// toMillis converts t to epoch milliseconds.
func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// fromMillis converts epoch milliseconds to a UTC time.
func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func taskToResponse(t *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:            t.ID,
		ReferenceID:   t.ReferenceID,
		ReferenceType: string(t.ReferenceType),
		Task:          string(t.Kind),
		Description:   t.Description,
		Status:        string(t.Status),
		AssigneeID:    t.AssigneeID,
		Priority:      string(t.Priority),
		CreatedAt:     toMillis(t.CreatedAt),
		UpdatedAt:     toMillis(t.UpdatedAt),
		Activities:    make([]ActivityResponse, 0, len(t.Activities)),
		Comments:      make([]CommentResponse, 0, len(t.Comments)),
	}
	if t.Deadline != nil {
		ms := toMillis(*t.Deadline)
		resp.TaskDeadlineTime = &ms
	}
	for _, a := range t.Activities {
		resp.Activities = append(resp.Activities, ActivityResponse{
			ID:          a.ID,
			Description: a.Description,
			UserID:      a.UserID,
			CreatedAt:   toMillis(a.CreatedAt),
		})
	}
	for _, c := range t.Comments {
		resp.Comments = append(resp.Comments, CommentResponse{
			ID:        c.ID,
			UserID:    c.UserID,
			Comment:   c.Text,
			CreatedAt: toMillis(c.CreatedAt),
		})
	}
	return resp
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}

func (r CreateTaskRequest) toInput() service.CreateTaskInput {
	in := service.CreateTaskInput{
		ReferenceID:   r.ReferenceID,
		ReferenceType: domain.ReferenceType(r.ReferenceType),
		Kind:          domain.TaskKind(r.Task),
		AssigneeID:    r.AssigneeID,
		Priority:      domain.Priority(r.Priority),
		Description:   r.Description,
	}
	if r.TaskDeadlineTime != nil {
		d := fromMillis(*r.TaskDeadlineTime)
		in.Deadline = &d
	}
	return in
}

func (r UpdateTaskRequest) toInput() service.UpdateTaskInput {
	in := service.UpdateTaskInput{
		TaskID:      r.TaskID,
		Description: r.Description,
	}
	if r.TaskStatus != nil {
		status := domain.TaskStatus(*r.TaskStatus)
		in.Status = &status
	}
	return in
}

func (r FetchByDateRequest) toInput() service.FetchByDateInput {
	return service.FetchByDateInput{
		AssigneeIDs: r.AssigneeIDs,
		Start:       fromMillis(*r.StartDate),
		End:         fromMillis(*r.EndDate),
		Field:       domain.DateField(r.DateField),
	}
}
