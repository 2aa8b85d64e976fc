package api

import (
	"time"

	"github.com/dstreet/taskhub/internal/domain"
	"github.com/google/uuid"
)

// Common request/response structures

// SignupRequest defines the payload for the account creation endpoint.
type SignupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// SigninRequest defines the payload for the authentication endpoint.
// The password is deliberately unvalidated: an empty password goes through
// the verifier and fails with the same 401 as any other wrong credential.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Email is the account's email address
	Email string `json:"email"`

	// Token is the JWT used for API authorization
	Token string `json:"token"`

	// CreatedAt is the account creation timestamp
	CreatedAt time.Time `json:"created_at"`
}

// CreateTaskRequest defines the payload for creating a task.
// Title emptiness after trimming is the domain's check; the tags cover
// presence and length bounds.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required,max=500"`
	Description string `json:"description" validate:"omitempty,max=5000"`
}

// UpdateTaskRequest defines the payload for a partial task update.
// Nil fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title"       validate:"omitempty,max=500"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Completed   *bool   `json:"completed"`
}

// TaskResponse represents the response data for a task.
type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskListResponse wraps a user's task collection.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Count int            `json:"count"`
}

// taskToResponse transforms a domain task into its API representation.
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// tasksToListResponse transforms a task slice into the list payload.
func tasksToListResponse(tasks []*domain.Task) TaskListResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, taskToResponse(task))
	}
	return TaskListResponse{Tasks: responses, Count: len(responses)}
}
