package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/backcat/backend/internal/domain/identity"
	"github.com/backcat/backend/internal/domain/shared"
	"github.com/backcat/backend/internal/infrastructure/auth"
	"github.com/backcat/backend/internal/infrastructure/config"
	"github.com/backcat/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "backcat-test",
	})
}

// fakeUserRepository is an in-memory identity.UserRepository.
type fakeUserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*identity.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[uuid.UUID]*identity.User)}
}

func (f *fakeUserRepository) Create(_ context.Context, user *identity.User) (*identity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return nil, shared.NewConflictError("email already taken", nil)
		}
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepository) Read(_ context.Context, id uuid.UUID) (*identity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.IsDeleted() {
		return nil, nil
	}
	return u, nil
}

func (f *fakeUserRepository) ReadByEmail(_ context.Context, email string) (*identity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email && !u.IsDeleted() {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepository) Update(_ context.Context, actor uuid.UUID, id uuid.UUID, update identity.UpdateUser) (*identity.User, error) {
	if actor != id {
		return nil, shared.NewAccessDeniedError("cannot update another user", nil)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.IsDeleted() {
		return nil, shared.NewNotFoundError("no such user", nil)
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Thumbnail.Present {
		u.Thumbnail = update.Thumbnail.Value
	}
	u.Touch()
	return u, nil
}

func (f *fakeUserRepository) Delete(_ context.Context, actor uuid.UUID, id uuid.UUID) (*identity.User, error) {
	if actor != id {
		return nil, shared.NewAccessDeniedError("cannot delete another user", nil)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.IsDeleted() {
		return nil, shared.NewNotFoundError("no such user", nil)
	}
	now := time.Now().UTC()
	u.DeletedAt = &now
	return u, nil
}

var _ identity.UserRepository = (*fakeUserRepository)(nil)

func newAuthRouter(users identity.UserRepository, jwt *auth.JWTService) *gin.Engine {
	h := NewAuthHandler(users, jwt)
	router := gin.New()
	router.POST("/api/v1/auth/register", h.Register)
	router.POST("/api/v1/auth/login", h.Login)
	router.POST("/api/v1/auth/refresh", h.Refresh)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("creates an account and returns tokens", func(t *testing.T) {
		router := newAuthRouter(newFakeUserRepository(), newTestJWTService())

		rec := postJSON(t, router, "/api/v1/auth/register", RegisterRequest{
			Email:    "alice@example.com",
			Name:     "Alice",
			Password: "correct horse battery staple",
		})

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			Success bool         `json:"success"`
			Data    AuthResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "alice@example.com", resp.Data.User.Email)
		assert.NotEmpty(t, resp.Data.Tokens.AccessToken)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("a taken email is a conflict", func(t *testing.T) {
		users := newFakeUserRepository()
		router := newAuthRouter(users, newTestJWTService())

		first := postJSON(t, router, "/api/v1/auth/register", RegisterRequest{
			Email: "alice@example.com", Name: "Alice", Password: "password123",
		})
		require.Equal(t, http.StatusCreated, first.Code)

		second := postJSON(t, router, "/api/v1/auth/register", RegisterRequest{
			Email: "alice@example.com", Name: "Alice Two", Password: "password456",
		})
		assert.Equal(t, http.StatusConflict, second.Code)
	})

	t.Run("a short password is a bad request", func(t *testing.T) {
		router := newAuthRouter(newFakeUserRepository(), newTestJWTService())

		rec := postJSON(t, router, "/api/v1/auth/register", RegisterRequest{
			Email: "alice@example.com", Name: "Alice", Password: "short",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	register := func(t *testing.T, router *gin.Engine) {
		t.Helper()
		rec := postJSON(t, router, "/api/v1/auth/register", RegisterRequest{
			Email: "alice@example.com", Name: "Alice", Password: "password123",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	t.Run("valid credentials get a token pair", func(t *testing.T) {
		jwt := newTestJWTService()
		router := newAuthRouter(newFakeUserRepository(), jwt)
		register(t, router)

		rec := postJSON(t, router, "/api/v1/auth/login", LoginRequest{
			Email: "alice@example.com", Password: "password123",
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data AuthResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		_, err := jwt.ValidateAccessToken(resp.Data.Tokens.AccessToken)
		assert.NoError(t, err)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		router := newAuthRouter(newFakeUserRepository(), newTestJWTService())
		register(t, router)

		wrongPassword := postJSON(t, router, "/api/v1/auth/login", LoginRequest{
			Email: "alice@example.com", Password: "wrong password",
		})
		unknownEmail := postJSON(t, router, "/api/v1/auth/login", LoginRequest{
			Email: "nobody@example.com", Password: "password123",
		})

		assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
		assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	t.Run("a valid refresh token gets a fresh pair", func(t *testing.T) {
		jwt := newTestJWTService()
		router := newAuthRouter(newFakeUserRepository(), jwt)

		reg := postJSON(t, router, "/api/v1/auth/register", RegisterRequest{
			Email: "alice@example.com", Name: "Alice", Password: "password123",
		})
		require.Equal(t, http.StatusCreated, reg.Code)

		var created struct {
			Data AuthResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(reg.Body.Bytes(), &created))

		rec := postJSON(t, router, "/api/v1/auth/refresh", RefreshRequest{
			RefreshToken: created.Data.Tokens.RefreshToken,
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data auth.TokenPair `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		_, err := jwt.ValidateAccessToken(resp.Data.AccessToken)
		assert.NoError(t, err)
	})

	t.Run("garbage is unauthorized", func(t *testing.T) {
		router := newAuthRouter(newFakeUserRepository(), newTestJWTService())

		rec := postJSON(t, router, "/api/v1/auth/refresh", RefreshRequest{
			RefreshToken: "not.a.token",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)
	})
}
