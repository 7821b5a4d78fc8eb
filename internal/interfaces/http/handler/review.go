package handler

import (
	"net/http"

	"github.com/backcat/backend/internal/domain/review"
	"github.com/backcat/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReviewHandler handles the review endpoints.
type ReviewHandler struct {
	BaseHandler
	reviews review.ReviewRepository
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviews review.ReviewRepository) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// CreateReviewRequest represents the review creation payload
type CreateReviewRequest struct {
	Rating  int     `json:"rating" binding:"required,min=1,max=5"`
	Comment *string `json:"comment"`
}

// Create adds the authenticated user's review on the area named by the
// :id path parameter.
func (h *ReviewHandler) Create(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}
	areaID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "invalid area id")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err, "invalid review payload")
		return
	}

	entity, err := review.NewReview(req.Rating, req.Comment)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity,
			dto.NewErrorResponse(dto.ErrCodeValidation, err.Error()))
		return
	}

	created, err := h.reviews.Create(c.Request.Context(), actor, entity, areaID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created)
}

// Get returns a review by id.
func (h *ReviewHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "invalid review id")
		return
	}

	entity, err := h.reviews.Read(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	if entity == nil {
		h.NotFound(c, "no such review")
		return
	}
	h.Success(c, entity)
}

// Update applies a partial update to the authenticated user's review.
func (h *ReviewHandler) Update(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "invalid review id")
		return
	}

	var update review.UpdateReview
	if err := c.ShouldBindJSON(&update); err != nil {
		h.BindError(c, err, "invalid update payload")
		return
	}

	entity, err := h.reviews.Update(c.Request.Context(), actor, id, update)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, entity)
}

// Delete soft-deletes the authenticated user's review.
func (h *ReviewHandler) Delete(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "invalid review id")
		return
	}

	entity, err := h.reviews.Delete(c.Request.Context(), actor, id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, entity)
}

// List returns active reviews, optionally filtered by area.
func (h *ReviewHandler) List(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	var filter review.FilterReview
	if raw := c.Query("area_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "invalid area_id filter")
			return
		}
		filter.AreaID = &id
	}

	reviews, err := h.reviews.Filter(c.Request.Context(), actor, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, reviews)
}
