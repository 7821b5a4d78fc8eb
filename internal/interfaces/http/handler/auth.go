package handler

import (
	"net/http"

	"github.com/backcat/backend/internal/domain/identity"
	"github.com/backcat/backend/internal/infrastructure/auth"
	"github.com/backcat/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration, login and token refresh.
type AuthHandler struct {
	BaseHandler
	users identity.UserRepository
	jwt   *auth.JWTService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(users identity.UserRepository, jwt *auth.JWTService) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

// RegisterRequest represents the registration payload
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,max=150"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// AuthResponse bundles the user with a token pair.
type AuthResponse struct {
	User   *identity.User  `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// Register creates an account and logs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err, "invalid registration payload")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := identity.NewUser(req.Email, req.Name, hash)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity,
			dto.NewErrorResponse(dto.ErrCodeValidation, err.Error()))
		return
	}

	created, err := h.users.Create(c.Request.Context(), user)
	if err != nil {
		h.Error(c, err)
		return
	}

	tokens, err := h.jwt.GenerateTokenPair(created.ID, created.Email)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, AuthResponse{User: created, Tokens: tokens})
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a token pair. A missing account
// and a wrong password produce the same response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err, "invalid login payload")
		return
	}

	user, err := h.users.ReadByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.Error(c, err)
		return
	}
	if user == nil || auth.VerifyPassword(user.PasswordHash, req.Password) != nil {
		h.Unauthorized(c, "invalid credentials")
		return
	}

	tokens, err := h.jwt.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, AuthResponse{User: user, Tokens: tokens})
}

// RefreshRequest represents the token refresh payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err, "invalid refresh payload")
		return
	}

	tokens, err := h.jwt.RefreshTokenPair(req.RefreshToken)
	if err != nil {
		h.Unauthorized(c, "invalid refresh token")
		return
	}

	h.Success(c, tokens)
}
