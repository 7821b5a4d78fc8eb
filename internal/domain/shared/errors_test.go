package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceError(t *testing.T) {
	t.Run("message without a cause", func(t *testing.T) {
		err := NewNotFoundError("no such booking", nil)
		assert.Equal(t, "no such booking", err.Error())
	})

	t.Run("message wraps its cause", func(t *testing.T) {
		cause := errors.New("record not found")
		err := NewNotFoundError("no such booking", cause)
		assert.Equal(t, "no such booking: record not found", err.Error())
		assert.ErrorIs(t, err, cause)
	})
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(NewValidationError("bad", nil)))
	assert.Equal(t, KindConflict, KindOf(NewConflictError("taken", nil)))
	assert.Equal(t, KindAccessDenied, KindOf(NewAccessDeniedError("denied", nil)))
	assert.Equal(t, KindConversion, KindOf(NewConversionError("mapping", nil)))

	t.Run("plain errors default to internal", func(t *testing.T) {
		assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	})

	t.Run("wrapped service errors keep their kind", func(t *testing.T) {
		wrapped := fmt.Errorf("outer: %w", NewConflictError("date collision", nil))
		assert.Equal(t, KindConflict, KindOf(wrapped))
	})
}

func TestIsKindHelpers(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("gone", nil)))
	assert.True(t, IsConflict(NewConflictError("taken", nil)))
	assert.True(t, IsValidation(NewValidationError("bad", nil)))

	assert.False(t, IsNotFound(NewConflictError("taken", nil)))
	assert.False(t, IsConflict(errors.New("boom")))
	assert.False(t, IsValidation(nil))
}
