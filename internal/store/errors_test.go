package store_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dstreet/taskhub/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	t.Parallel()

	t.Run("entity-specific errors unwrap to generic ones", func(t *testing.T) {
		assert.ErrorIs(t, store.ErrUserNotFound, store.ErrNotFound)
		assert.ErrorIs(t, store.ErrTaskNotFound, store.ErrNotFound)
		assert.ErrorIs(t, store.ErrEmailExists, store.ErrDuplicate)
	})

	t.Run("IsNotFoundError", func(t *testing.T) {
		assert.True(t, store.IsNotFoundError(store.ErrNotFound))
		assert.True(t, store.IsNotFoundError(store.ErrUserNotFound))
		assert.True(t, store.IsNotFoundError(fmt.Errorf("lookup: %w", store.ErrTaskNotFound)))
		assert.False(t, store.IsNotFoundError(store.ErrEmailExists))
		assert.False(t, store.IsNotFoundError(errors.New("unrelated")))
	})

	t.Run("IsDuplicateError", func(t *testing.T) {
		assert.True(t, store.IsDuplicateError(store.ErrEmailExists))
		assert.True(t, store.IsDuplicateError(fmt.Errorf("insert: %w", store.ErrDuplicate)))
		assert.False(t, store.IsDuplicateError(store.ErrUserNotFound))
	})

	t.Run("timeout stays distinct", func(t *testing.T) {
		assert.False(t, store.IsNotFoundError(store.ErrTimeout))
		assert.False(t, store.IsDuplicateError(store.ErrTimeout))
	})
}
