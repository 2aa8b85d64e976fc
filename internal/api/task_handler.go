package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dstreet/taskhub/internal/api/shared"
	"github.com/dstreet/taskhub/internal/domain"
	"github.com/dstreet/taskhub/internal/platform/logger"
	"github.com/dstreet/taskhub/internal/service/auth"
	"github.com/dstreet/taskhub/internal/store"
)

// forbiddenMessage is returned when a task exists but belongs to another
// user. Existence is still revealed; only access is denied.
const forbiddenMessage = "You do not have permission to access this resource"

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskStore store.TaskStore, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /users/{userID}/tasks requests.
// The new task is owned by the authenticated user; ownership comes from the
// verified token, never from the request body.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	claims, ok := getClaims(r)
	if !ok {
		log.Warn("user claims not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(
			w,
			r,
			http.StatusUnprocessableEntity,
			"Validation error: "+err.Error(),
		)
		return
	}

	task, err := domain.NewTask(claims.UserID, req.Title, req.Description)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, GetSafeErrorMessage(err))
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to create task"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", claims.UserID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// ListTasks handles GET /users/{userID}/tasks requests.
// Tasks are returned newest first; a user with no tasks gets an empty list.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	claims, ok := getClaims(r)
	if !ok {
		log.Warn("user claims not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User not authenticated")
		return
	}

	tasks, err := h.taskStore.ListByUserID(r.Context(), claims.UserID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to list tasks"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToListResponse(tasks))
}

// GetTask handles GET /users/{userID}/tasks/{taskID} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadOwnedTask(w, r)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PUT /users/{userID}/tasks/{taskID} requests.
// The update is partial: only fields present in the body change, and each
// changed field is re-validated before anything is persisted.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadOwnedTask(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(
			w,
			r,
			http.StatusUnprocessableEntity,
			"Validation error: "+err.Error(),
		)
		return
	}

	if req.Title != nil {
		if err := task.SetTitle(*req.Title); err != nil {
			shared.RespondWithError(
				w,
				r,
				http.StatusUnprocessableEntity,
				GetSafeErrorMessage(err),
			)
			return
		}
	}
	if req.Description != nil {
		if err := task.SetDescription(*req.Description); err != nil {
			shared.RespondWithError(
				w,
				r,
				http.StatusUnprocessableEntity,
				GetSafeErrorMessage(err),
			)
			return
		}
	}
	if req.Completed != nil {
		task.SetCompleted(*req.Completed)
	}

	if err := h.taskStore.Update(r.Context(), task); err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to update task"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /users/{userID}/tasks/{taskID} requests.
// A successful delete has no body; deleting the same task again is a 404.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	task, ok := h.loadOwnedTask(w, r)
	if !ok {
		return
	}

	if err := h.taskStore.Delete(r.Context(), task.ID); err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to delete task"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("task deleted", slog.String("task_id", task.ID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// loadOwnedTask resolves the {taskID} path parameter to a task owned by the
// authenticated user. A missing task is a 404; a task owned by someone else
// is a 403. On failure the response has already been written and ok is false.
func (h *TaskHandler) loadOwnedTask(
	w http.ResponseWriter,
	r *http.Request,
) (*domain.Task, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	claims, ok := getClaims(r)
	if !ok {
		log.Warn("user claims not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User not authenticated")
		return nil, false
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity,
			"Invalid task_id format - must be valid UUID")
		return nil, false
	}

	task, err := h.taskStore.GetByID(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
			return nil, false
		}
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to get task"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return nil, false
	}

	if task.UserID != claims.UserID {
		log.Debug("task access denied",
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", claims.UserID.String()))
		shared.RespondWithError(w, r, http.StatusForbidden, forbiddenMessage)
		return nil, false
	}

	return task, true
}

// getClaims extracts the verified token claims placed in the request context
// by the authentication middleware.
func getClaims(r *http.Request) (*auth.Claims, bool) {
	claims, ok := r.Context().Value(shared.UserClaimsContextKey).(*auth.Claims)
	return claims, ok && claims != nil
}
