package handler

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/taskflow/taskflow/internal/api/request"
	"github.com/taskflow/taskflow/internal/api/response"
	"github.com/taskflow/taskflow/internal/domain"
	"github.com/taskflow/taskflow/internal/taskstore"
)

// TaskHandler handles task CRUD and ordering.
type TaskHandler struct {
	store *taskstore.Store
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(store *taskstore.Store) *TaskHandler {
	return &TaskHandler{store: store}
}

// ListTasks handles GET /tasks. A filter query parameter selects the view
// for this request only; the active filter is left unchanged.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	filter, override, err := request.ParseFilter(r)
	if err != nil {
		response.Error(w, domain.NewValidationError([]string{err.Error()}))
		return
	}
	if !override {
		filter = h.store.Filter()
	}

	tasks := slices.Collect(h.store.VisibleUnder(filter))
	if tasks == nil {
		tasks = []domain.Task{}
	}

	response.OK(w, response.TaskList{
		Data:      tasks,
		Filter:    filter,
		Remaining: h.store.RemainingCount(),
		Summary:   h.store.Summary(),
	})
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTaskRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	task, ok := h.store.Add(req.Text)
	if !ok {
		response.Error(w, domain.NewValidationError([]string{"text is required"}))
		return
	}

	response.Created(w, task)
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")

	task, ok := h.store.Get(taskID)
	if !ok {
		response.Error(w, domain.NewTaskNotFoundError(taskID))
		return
	}

	response.OK(w, task)
}

// UpdateTask handles PATCH /tasks/{id}. Blank text deletes the task and
// answers 204.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")

	var req request.UpdateTaskRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	if !h.store.Edit(taskID, *req.Text) {
		response.Error(w, domain.NewTaskNotFoundError(taskID))
		return
	}

	task, ok := h.store.Get(taskID)
	if !ok {
		response.NoContent(w)
		return
	}
	response.OK(w, task)
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")

	if !h.store.Delete(taskID) {
		response.Error(w, domain.NewTaskNotFoundError(taskID))
		return
	}

	response.NoContent(w)
}

// ToggleTask handles POST /tasks/{id}/toggle.
func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")

	if !h.store.Toggle(taskID) {
		response.Error(w, domain.NewTaskNotFoundError(taskID))
		return
	}

	task, ok := h.store.Get(taskID)
	if !ok {
		// Deleted concurrently.
		response.Error(w, domain.NewTaskNotFoundError(taskID))
		return
	}
	response.OK(w, task)
}

// MoveTask handles POST /tasks/{id}/move.
func (h *TaskHandler) MoveTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")

	var req request.MoveTaskRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	if _, ok := h.store.Get(taskID); !ok {
		response.Error(w, domain.NewTaskNotFoundError(taskID))
		return
	}

	var changed bool
	switch req.Direction {
	case request.DirectionUp:
		changed = h.store.MoveUp(taskID)
	case request.DirectionDown:
		changed = h.store.MoveDown(taskID)
	default:
		if _, ok := h.store.Get(req.Before); !ok {
			response.Error(w, domain.NewTaskNotFoundError(req.Before))
			return
		}
		changed = h.store.Reorder(taskID, req.Before)
	}

	response.OK(w, response.MoveResult{Changed: changed, Data: h.store.Tasks()})
}

// ClearCompleted handles POST /tasks/clear-completed.
func (h *TaskHandler) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	response.OK(w, response.ClearResult{Removed: h.store.ClearCompleted()})
}
