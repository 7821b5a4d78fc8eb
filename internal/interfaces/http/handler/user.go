package handler

import (
	"github.com/backcat/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
)

// UserHandler handles the account endpoints.
type UserHandler struct {
	BaseHandler
	users identity.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users identity.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// Me returns the authenticated user's account.
func (h *UserHandler) Me(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	user, err := h.users.Read(c.Request.Context(), actor)
	if err != nil {
		h.Error(c, err)
		return
	}
	if user == nil {
		h.NotFound(c, "no such user")
		return
	}
	h.Success(c, user)
}

// Get returns a user by id.
func (h *UserHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "invalid user id")
		return
	}

	user, err := h.users.Read(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	if user == nil {
		h.NotFound(c, "no such user")
		return
	}
	h.Success(c, user)
}

// Update applies a partial update to the authenticated user's account.
func (h *UserHandler) Update(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	var update identity.UpdateUser
	if err := c.ShouldBindJSON(&update); err != nil {
		h.BindError(c, err, "invalid update payload")
		return
	}

	user, err := h.users.Update(c.Request.Context(), actor, actor, update)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, user)
}

// Delete soft-deletes the authenticated user's account.
func (h *UserHandler) Delete(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	user, err := h.users.Delete(c.Request.Context(), actor, actor)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, user)
}
