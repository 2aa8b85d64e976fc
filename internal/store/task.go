package store

import (
	"context"
	"database/sql"

	"github.com/dstreet/taskhub/internal/domain"
	"github.com/google/uuid"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns ErrInvalidEntity if the owner does not exist (foreign key
	// violation) or the task fails domain validation.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID regardless of owner.
	// Ownership is the handler's decision (403 vs 404), so the store does
	// not filter by user here.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListByUserID retrieves all tasks owned by the given user, ordered by
	// creation time descending (newest first). An owner with no tasks gets
	// an empty slice, not an error.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// Update persists the task's current title, description, completion
	// flag, and update timestamp.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist; a repeated delete
	// of the same task therefore fails.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) TaskStore
}
