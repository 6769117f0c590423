package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/workforce-api/internal/api/shared"
	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/platform/logger"
	"github.com/phrazzld/workforce-api/internal/service"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if taskService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("taskService cannot be nil for TaskHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// Routes mounts the task endpoints on r.
func (h *TaskHandler) Routes(r chi.Router) {
	r.Get("/tasks", h.ListTasks)
	r.Get("/task/{id}", h.GetTask)
	r.Post("/create", h.CreateTasks)
	r.Post("/update", h.UpdateTasks)
	r.Post("/assign-by-ref", h.AssignByReference)
	r.Post("/fetch-by-date/v2", h.FetchByDate)
	r.Get("/priority/{priority}", h.FetchByPriority)
	r.Post("/priority/update", h.UpdatePriority)
	r.Post("/comment/add", h.AddComment)
}

// decodeAndValidate reads the request body into v and validates it. On
// failure it writes a 400 response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// ListTasks handles GET /task-mgmt/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListTasks(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, tasksToResponse(tasks))
}

// GetTask handles GET /task-mgmt/task/{id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	pathID := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(pathID, 10, 64)
	if err != nil || id <= 0 {
		log.Warn("invalid task ID format", slog.String("task_id", pathID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid ID")
		return
	}

	task, err := h.taskService.GetTask(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, taskToResponse(task))
}

// CreateTasks handles POST /task-mgmt/create
func (h *TaskHandler) CreateTasks(w http.ResponseWriter, r *http.Request) {
	var req CreateTasksRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	inputs := make([]service.CreateTaskInput, 0, len(req.Requests))
	for _, item := range req.Requests {
		inputs = append(inputs, item.toInput())
	}

	tasks, err := h.taskService.CreateTasks(r.Context(), inputs)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create tasks")
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, tasksToResponse(tasks))
}

// UpdateTasks handles POST /task-mgmt/update
func (h *TaskHandler) UpdateTasks(w http.ResponseWriter, r *http.Request) {
	var req UpdateTasksRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	inputs := make([]service.UpdateTaskInput, 0, len(req.Requests))
	for _, item := range req.Requests {
		inputs = append(inputs, item.toInput())
	}

	tasks, err := h.taskService.UpdateTasks(r.Context(), inputs)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update tasks")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, tasksToResponse(tasks))
}

// AssignByReference handles POST /task-mgmt/assign-by-ref
func (h *TaskHandler) AssignByReference(w http.ResponseWriter, r *http.Request) {
	var req AssignByReferenceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.taskService.AssignByReference(r.Context(), service.AssignInput{
		ReferenceID:   req.ReferenceID,
		ReferenceType: domain.ReferenceType(req.ReferenceType),
		AssigneeID:    req.AssigneeID,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to assign tasks")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, result)
}

// FetchByDate handles POST /task-mgmt/fetch-by-date/v2
func (h *TaskHandler) FetchByDate(w http.ResponseWriter, r *http.Request) {
	var req FetchByDateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tasks, err := h.taskService.FetchTasksByDate(r.Context(), req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch tasks")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, tasksToResponse(tasks))
}

// FetchByPriority handles GET /task-mgmt/priority/{priority}
func (h *TaskHandler) FetchByPriority(w http.ResponseWriter, r *http.Request) {
	priority := domain.Priority(chi.URLParam(r, "priority"))

	tasks, err := h.taskService.FetchTasksByPriority(r.Context(), priority)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch tasks")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, tasksToResponse(tasks))
}

// UpdatePriority handles POST /task-mgmt/priority/update
func (h *TaskHandler) UpdatePriority(w http.ResponseWriter, r *http.Request) {
	var req UpdatePriorityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.UpdateTaskPriority(r.Context(), req.TaskID, domain.Priority(req.Priority), req.UserID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update priority")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, taskToResponse(task))
}

// AddComment handles POST /task-mgmt/comment/add
func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req AddCommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.AddComment(r.Context(), req.TaskID, req.UserID, req.Comment)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add comment")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, taskToResponse(task))
}
