package handler

import (
	"net/http"

	"github.com/backcat/backend/internal/domain/camping"
	"github.com/backcat/backend/internal/domain/shared/valueobject"
	"github.com/backcat/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AreaHandler handles the bookable area endpoints.
type AreaHandler struct {
	BaseHandler
	areas camping.AreaRepository
}

// NewAreaHandler creates a new AreaHandler
func NewAreaHandler(areas camping.AreaRepository) *AreaHandler {
	return &AreaHandler{areas: areas}
}

// CreateAreaRequest represents the area creation payload
type CreateAreaRequest struct {
	Polygon     valueobject.Polygon `json:"polygon" binding:"required"`
	Description *string             `json:"description"`
	Price       valueobject.Money   `json:"price" binding:"required"`
}

// Create adds an area to the camping named by the :id path parameter.
func (h *AreaHandler) Create(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}
	campingID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "invalid camping id")
		return
	}

	var req CreateAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err, "invalid area payload")
		return
	}

	entity, err := camping.NewArea(req.Polygon, req.Description, req.Price)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity,
			dto.NewErrorResponse(dto.ErrCodeValidation, err.Error()))
		return
	}

	created, err := h.areas.Create(c.Request.Context(), actor, entity, campingID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created)
}

// Get returns an area by id.
func (h *AreaHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "invalid area id")
		return
	}

	entity, err := h.areas.Read(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	if entity == nil {
		h.NotFound(c, "no such area")
		return
	}
	h.Success(c, entity)
}

// Update applies a partial update to an area inside one of the
// authenticated user's campings.
func (h *AreaHandler) Update(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "invalid area id")
		return
	}

	var update camping.UpdateArea
	if err := c.ShouldBindJSON(&update); err != nil {
		h.BindError(c, err, "invalid update payload")
		return
	}

	entity, err := h.areas.Update(c.Request.Context(), actor, id, update)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, entity)
}

// Delete soft-deletes an area inside one of the authenticated user's
// campings.
func (h *AreaHandler) Delete(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "invalid area id")
		return
	}

	entity, err := h.areas.Delete(c.Request.Context(), actor, id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, entity)
}

// List returns active areas, optionally filtered by camping.
func (h *AreaHandler) List(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	var filter camping.FilterArea
	if raw := c.Query("camping_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "invalid camping_id filter")
			return
		}
		filter.CampingID = &id
	}

	areas, err := h.areas.Filter(c.Request.Context(), actor, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, areas)
}
