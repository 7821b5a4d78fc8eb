// Package handler holds the gin handlers for the HTTP API.
package handler

import (
	"errors"
	"net/http"

	"github.com/backcat/backend/internal/interfaces/http/dto"
	"github.com/backcat/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getUserID extracts the authenticated user's id from JWT claims.
func getUserID(c *gin.Context) (uuid.UUID, error) {
	id, ok := middleware.GetJWTUserID(c)
	if !ok {
		return uuid.Nil, errors.New("user ID not found in context")
	}
	return id, nil
}

// parseIDParam parses the :id path parameter.
func parseIDParam(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error maps a service error to its HTTP status and sends it
func (h *BaseHandler) Error(c *gin.Context, err error) {
	status, resp := dto.FromError(err)
	c.JSON(status, resp)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, message))
}

// BindError reports a failed request binding. Field-level validation
// failures carry per-field details; anything else, such as malformed
// JSON, falls back to the plain message.
func (h *BaseHandler) BindError(c *gin.Context, err error, message string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		middleware.HandleValidationError(c, err)
		return
	}
	h.BadRequest(c, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, message))
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, message))
}
