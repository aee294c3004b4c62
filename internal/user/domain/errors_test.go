package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByKind(t *testing.T) {
	err := NewUserNotFoundError(42)

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "user with id 42 not found", err.Error())
}

func TestError_IsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", NewError(KindConflict, "duplicate"))

	assert.True(t, errors.Is(err, ErrConflict))
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
}

func TestStoreError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, StoreError("find user", nil))
	})

	t.Run("typed error passes through", func(t *testing.T) {
		in := NewUserNotFoundError(1)
		assert.Same(t, in, StoreError("find user", in))
	})

	t.Run("deadline becomes timeout", func(t *testing.T) {
		err := StoreError("find user", fmt.Errorf("query: %w", context.DeadlineExceeded))
		assert.True(t, errors.Is(err, ErrTimeout))
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})

	t.Run("cancellation becomes unavailable", func(t *testing.T) {
		err := StoreError("find user", context.Canceled)
		assert.True(t, errors.Is(err, ErrUnavailable))
		assert.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("driver failure becomes unavailable", func(t *testing.T) {
		err := StoreError("create favorite", errors.New("connection reset"))
		assert.Equal(t, KindUnavailable, KindOf(err))
		assert.Contains(t, err.Error(), "create favorite failed")
	})
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{UserID: 5, Role: RoleAdmin})
	id, ok := IdentityFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, uint(5), id.UserID)
	assert.True(t, id.IsAdmin())
}

func TestDeletePolicy_Valid(t *testing.T) {
	assert.True(t, DeletePolicyStrict.Valid())
	assert.True(t, DeletePolicyCascade.Valid())
	assert.False(t, DeletePolicy("soft").Valid())
}
