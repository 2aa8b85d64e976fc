package mocks

import (
	"errors"

	"github.com/dstreet/taskhub/internal/service/auth"
)

// MockPasswordHasher implements auth.PasswordHasher for testing.
type MockPasswordHasher struct {
	// Digest is returned by Hash when HashFn is unset.
	Digest string
	Err    error

	HashFn func(password string) (string, error)
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements the PasswordHasher interface.
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	if m.Digest == "" && m.Err == nil {
		return "mock-digest-of:" + password, nil
	}
	return m.Digest, m.Err
}

// MockPasswordVerifier implements auth.PasswordVerifier for testing.
type MockPasswordVerifier struct {
	// ShouldSucceed makes Compare succeed unconditionally when true.
	ShouldSucceed bool

	CompareFn func(hashedPassword, password string) error
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// Compare implements the PasswordVerifier interface.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return errors.New("password mismatch")
}
