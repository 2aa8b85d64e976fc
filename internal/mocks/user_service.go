package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/dstreet/taskhub/internal/domain"
	"github.com/dstreet/taskhub/internal/service"
	"github.com/dstreet/taskhub/internal/store"
)

// MockUserService implements service.UserService for testing.
type MockUserService struct {
	// User is returned by GetUser when GetUserFn is unset and the ID matches.
	User *domain.User

	// Function fields for customizable behavior
	GetUserFn       func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	DeleteAccountFn func(ctx context.Context, userID uuid.UUID) error

	// Deleted records the IDs passed to DeleteAccount.
	Deleted []uuid.UUID
}

var _ service.UserService = (*MockUserService)(nil)

// GetUser implements the UserService interface.
func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, userID)
	}
	if m.User != nil && m.User.ID == userID {
		return m.User, nil
	}
	return nil, store.ErrUserNotFound
}

// DeleteAccount implements the UserService interface.
func (m *MockUserService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if m.DeleteAccountFn != nil {
		return m.DeleteAccountFn(ctx, userID)
	}
	if m.User == nil || m.User.ID != userID {
		return store.ErrUserNotFound
	}
	m.User = nil
	m.Deleted = append(m.Deleted, userID)
	return nil
}
