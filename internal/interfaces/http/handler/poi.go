package handler

import (
	"net/http"

	"github.com/backcat/backend/internal/domain/camping"
	"github.com/backcat/backend/internal/domain/shared/valueobject"
	"github.com/backcat/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// POIHandler handles the point-of-interest endpoints.
type POIHandler struct {
	BaseHandler
	pois camping.POIRepository
}

// NewPOIHandler creates a new POIHandler
func NewPOIHandler(pois camping.POIRepository) *POIHandler {
	return &POIHandler{pois: pois}
}

// CreatePOIRequest represents the poi creation payload
type CreatePOIRequest struct {
	Kind        camping.POIKind   `json:"kind"`
	Point       valueobject.Point `json:"point" binding:"required"`
	Name        string            `json:"name" binding:"required,max=150"`
	Description *string           `json:"description"`
}

// Create adds a poi to the camping named by the :id path parameter.
func (h *POIHandler) Create(c *gin.Context) {
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

	var req CreatePOIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err, "invalid poi payload")
		return
	}

	entity, err := camping.NewPOI(req.Kind, req.Point, req.Name, req.Description)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity,
			dto.NewErrorResponse(dto.ErrCodeValidation, err.Error()))
		return
	}

	created, err := h.pois.Create(c.Request.Context(), actor, entity, campingID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created)
}

// Get returns a poi by id.
func (h *POIHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "invalid poi id")
		return
	}

	entity, err := h.pois.Read(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	if entity == nil {
		h.NotFound(c, "no such poi")
		return
	}
	h.Success(c, entity)
}

// Update applies a partial update to a poi inside one of the
// authenticated user's campings.
func (h *POIHandler) Update(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "invalid poi id")
		return
	}

	var update camping.UpdatePOI
	if err := c.ShouldBindJSON(&update); err != nil {
		h.BindError(c, err, "invalid update payload")
		return
	}

	entity, err := h.pois.Update(c.Request.Context(), actor, id, update)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, entity)
}

// Delete soft-deletes a poi inside one of the authenticated user's
// campings.
func (h *POIHandler) Delete(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "invalid poi id")
		return
	}

	entity, err := h.pois.Delete(c.Request.Context(), actor, id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, entity)
}

// List returns active pois, optionally filtered by camping.
func (h *POIHandler) List(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	var filter camping.FilterPOI
	if raw := c.Query("camping_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "invalid camping_id filter")
			return
		}
		filter.CampingID = &id
	}

	pois, err := h.pois.Filter(c.Request.Context(), actor, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, pois)
}
