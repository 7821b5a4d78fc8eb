package handler

import (
	"net/http"
	"time"

	"github.com/backcat/backend/internal/domain/booking"
	"github.com/backcat/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BookingHandler handles the booking endpoints.
type BookingHandler struct {
	BaseHandler
	bookings booking.BookingRepository
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookings booking.BookingRepository) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// CreateBookingRequest represents the booking creation payload
type CreateBookingRequest struct {
	BookedSince time.Time `json:"booked_since" binding:"required"`
	BookedTill  time.Time `json:"booked_till" binding:"required"`
}

// Create books the area named by the :id path parameter for the
// authenticated user. Colliding date ranges come back as 409.
func (h *BookingHandler) Create(c *gin.Context) {
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

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err, "invalid booking payload")
		return
	}

	entity, err := booking.NewBooking(req.BookedSince, req.BookedTill)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity,
			dto.NewErrorResponse(dto.ErrCodeValidation, err.Error()))
		return
	}

	created, err := h.bookings.Create(c.Request.Context(), actor, entity, areaID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created)
}

// Get returns a booking by id.
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "invalid booking id")
		return
	}

	entity, err := h.bookings.Read(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	if entity == nil {
		h.NotFound(c, "no such booking")
		return
	}
	h.Success(c, entity)
}

// Update applies a partial date change to the authenticated user's
// booking, re-running the collision check.
func (h *BookingHandler) Update(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "invalid booking id")
		return
	}

	var update booking.UpdateBooking
	if err := c.ShouldBindJSON(&update); err != nil {
		h.BindError(c, err, "invalid update payload")
		return
	}

	entity, err := h.bookings.Update(c.Request.Context(), actor, id, update)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, entity)
}

// Delete soft-deletes the authenticated user's booking, freeing the
// range.
func (h *BookingHandler) Delete(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "invalid booking id")
		return
	}

	entity, err := h.bookings.Delete(c.Request.Context(), actor, id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, entity)
}

// List returns active bookings, optionally filtered by area.
func (h *BookingHandler) List(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	var filter booking.FilterBooking
	if raw := c.Query("area_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "invalid area_id filter")
			return
		}
		filter.AreaID = &id
	}

	bookings, err := h.bookings.Filter(c.Request.Context(), actor, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, bookings)
}
