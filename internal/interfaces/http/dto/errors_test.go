package dto

import (
	"errors"
	"net/http"
	"testing"

	"github.com/backcat/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation maps to 422", shared.NewValidationError("invalid booking", nil), http.StatusUnprocessableEntity, ErrCodeValidation},
		{"not found maps to 404", shared.NewNotFoundError("no such area", nil), http.StatusNotFound, ErrCodeNotFound},
		{"conflict maps to 409", shared.NewConflictError("date collision", nil), http.StatusConflict, ErrCodeConflict},
		{"access denied maps to 403", shared.NewAccessDeniedError("cannot update another user", nil), http.StatusForbidden, ErrCodeForbidden},
		{"conversion maps to 500", shared.NewConversionError("mapping failed", nil), http.StatusInternalServerError, ErrCodeInternal},
		{"internal maps to 500", shared.NewInternalError("db down", nil), http.StatusInternalServerError, ErrCodeInternal},
		{"plain errors map to 500", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := FromError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestFromErrorMasksInternalDetails(t *testing.T) {
	t.Run("internal causes never reach the client", func(t *testing.T) {
		err := shared.NewInternalError("dial tcp 10.0.0.5:5432 refused", errors.New("pq: terminated"))
		_, resp := FromError(err)
		assert.Equal(t, "internal server error", resp.Error.Message)
	})

	t.Run("client-fault messages are preserved", func(t *testing.T) {
		_, resp := FromError(shared.NewConflictError("date collision", nil))
		assert.Equal(t, "date collision", resp.Error.Message)
	})
}

func TestResponseShapes(t *testing.T) {
	ok := NewSuccessResponse(map[string]string{"id": "1"})
	assert.True(t, ok.Success)
	assert.Nil(t, ok.Error)

	bad := NewErrorResponse(ErrCodeBadRequest, "malformed id")
	assert.False(t, bad.Success)
	assert.Nil(t, bad.Data)
	assert.Equal(t, "malformed id", bad.Error.Message)
}
