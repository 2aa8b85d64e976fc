package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Task validation errors
var (
	ErrEmptyTaskID        = errors.New("task ID cannot be empty")
	ErrEmptyTaskOwner     = errors.New("task owner ID cannot be empty")
	ErrEmptyTitle         = errors.New("task title cannot be empty")
	ErrTitleTooLong       = errors.New("task title must be at most 500 characters")
	ErrDescriptionTooLong = errors.New("task description must be at most 5000 characters")
)

// Task field bounds, in characters (not bytes).
const (
	MaxTitleLength       = 500
	MaxDescriptionLength = 5000
)

// Task represents a single to-do item owned by a user.
type Task struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user. The title is trimmed
// of surrounding whitespace before validation; new tasks start incomplete.
// Returns an error if validation fails.
func NewTask(userID uuid.UUID, title, description string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.UserID == uuid.Nil {
		return ErrEmptyTaskOwner
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}

	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}

	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}

	return nil
}

// SetTitle replaces the title after trimming whitespace and refreshes the
// update timestamp. Returns an error if the new title is invalid.
func (t *Task) SetTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return ErrTitleTooLong
	}

	t.Title = trimmed
	t.touch()
	return nil
}

// SetDescription replaces the description and refreshes the update timestamp.
// Returns an error if the new description is invalid.
func (t *Task) SetDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}

	t.Description = description
	t.touch()
	return nil
}

// SetCompleted sets the completion flag and refreshes the update timestamp.
// Completion only ever changes through an explicit update.
func (t *Task) SetCompleted(completed bool) {
	t.Completed = completed
	t.touch()
}

// touch refreshes UpdatedAt. The timestamp is owned by the domain and the
// store; callers can never set it directly.
func (t *Task) touch() {
	t.UpdatedAt = time.Now().UTC()
}
