package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/backcat/backend/internal/domain/camping"
	"github.com/backcat/backend/internal/domain/shared/valueobject"
	"github.com/backcat/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CampingHandler handles the camping endpoints.
type CampingHandler struct {
	BaseHandler
	campings camping.CampingRepository
}

// NewCampingHandler creates a new CampingHandler
func NewCampingHandler(campings camping.CampingRepository) *CampingHandler {
	return &CampingHandler{campings: campings}
}

// CreateCampingRequest represents the camping creation payload
type CreateCampingRequest struct {
	Polygon     valueobject.Polygon `json:"polygon" binding:"required"`
	Title       string              `json:"title" binding:"required,max=250"`
	Description *string             `json:"description"`
}

// Create adds a camping owned by the authenticated user.
func (h *CampingHandler) Create(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	var req CreateCampingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err, "invalid camping payload")
		return
	}

	entity, err := camping.NewCamping(req.Polygon, req.Title, req.Description)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity,
			dto.NewErrorResponse(dto.ErrCodeValidation, err.Error()))
		return
	}

	created, err := h.campings.Create(c.Request.Context(), actor, entity)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created)
}

// Get returns a camping by id.
func (h *CampingHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "invalid camping id")
		return
	}

	entity, err := h.campings.Read(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	if entity == nil {
		h.NotFound(c, "no such camping")
		return
	}
	h.Success(c, entity)
}

// Update applies a partial update to the authenticated user's camping.
func (h *CampingHandler) Update(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "invalid camping id")
		return
	}

	var update camping.UpdateCamping
	if err := c.ShouldBindJSON(&update); err != nil {
		h.BindError(c, err, "invalid update payload")
		return
	}

	entity, err := h.campings.Update(c.Request.Context(), actor, id, update)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, entity)
}

// Delete soft-deletes the authenticated user's camping.
func (h *CampingHandler) Delete(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "invalid camping id")
		return
	}

	entity, err := h.campings.Delete(c.Request.Context(), actor, id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, entity)
}

// List returns active campings matching the query filters.
func (h *CampingHandler) List(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	var filter camping.FilterCamping
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "invalid user_id filter")
			return
		}
		filter.UserID = &id
	}
	if raw := c.Query("booked"); raw != "" {
		booked, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "invalid booked filter")
			return
		}
		filter.Booked = &booked
	}

	campings, err := h.campings.Filter(c.Request.Context(), actor, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, campings)
}

// AddThumbnailRequest represents the thumbnail append payload
type AddThumbnailRequest struct {
	URL string `json:"url" binding:"required,max=255"`
}

// AddThumbnail appends a thumbnail URL to the camping.
func (h *CampingHandler) AddThumbnail(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "invalid camping id")
		return
	}

	var req AddThumbnailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err, "invalid thumbnail payload")
		return
	}

	entity, err := h.campings.AddThumbnail(c.Request.Context(), actor, id, req.URL)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, entity)
}

// RemoveThumbnail drops the thumbnail at the :index path parameter.
func (h *CampingHandler) RemoveThumbnail(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "invalid camping id")
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		h.BadRequest(c, "invalid thumbnail index")
		return
	}

	entity, err := h.campings.RemoveThumbnail(c.Request.Context(), actor, id, index)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, entity)
}

// UploadThumbnail accepts a multipart file upload, stores the bytes and
// appends the resulting URL.
func (h *CampingHandler) UploadThumbnail(c *gin.Context) {
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "invalid camping id")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "missing file upload")
		return
	}
	src, err := file.Open()
	if err != nil {
		h.BadRequest(c, "unreadable file upload")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		h.BadRequest(c, "unreadable file upload")
		return
	}

	entity, err := h.campings.UploadThumbnail(c.Request.Context(), actor, id, data)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, entity)
}
