package camping

import (
	"context"
	"errors"
	"fmt"

	"github.com/backcat/backend/internal/domain/shared"
	"github.com/backcat/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

const (
	MaxTitleLen       = 250
	MaxDescriptionLen = 5000
)

// Camping is a campground: a closed boundary polygon with metadata and
// up to five thumbnails, owned by a user.
type Camping struct {
	shared.BaseEntity
	Polygon     valueobject.Polygon `gorm:"type:jsonb;not null" json:"polygon"`
	Title       string              `gorm:"size:250;not null" json:"title"`
	Description *string             `gorm:"size:5000" json:"description,omitempty"`
	Thumbnails  valueobject.URLList `gorm:"type:jsonb;not null" json:"thumbnails"`
	UserID      uuid.UUID           `gorm:"type:uuid;not null;index" json:"user_id"`
}

// TableName returns the table name for GORM.
func (Camping) TableName() string { return "campings" }

// NewCamping creates a validated camping. The owner is bound by the
// repository at create time.
func NewCamping(polygon valueobject.Polygon, title string, description *string) (*Camping, error) {
	c := &Camping{
		BaseEntity:  shared.NewBaseEntity(),
		Polygon:     polygon,
		Title:       title,
		Description: description,
		Thumbnails:  valueobject.URLList{},
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the camping invariants.
func (c *Camping) Validate() error {
	if err := c.BaseEntity.Validate(); err != nil {
		return err
	}
	if err := c.Polygon.Validate(); err != nil {
		return err
	}
	if c.Title == "" || len(c.Title) > MaxTitleLen {
		return fmt.Errorf("title must be 1..%d characters", MaxTitleLen)
	}
	if c.Description != nil && len(*c.Description) > MaxDescriptionLen {
		return errors.New("description too long")
	}
	return c.Thumbnails.Validate()
}

// UpdateCamping carries a partial update. Nil pointer fields are left
// untouched; Description set to null clears the value.
type UpdateCamping struct {
	Polygon     *valueobject.Polygon    `json:"polygon,omitempty"`
	Title       *string                 `json:"title,omitempty"`
	Description shared.Optional[string] `json:"description"`
	Thumbnails  *valueobject.URLList    `json:"thumbnails,omitempty"`
}

// FilterCamping selects campings. Booked is three-way: nil returns all
// active campings, true only those with an active booking by the actor
// (or UserID when set), false only those without one.
type FilterCamping struct {
	UserID *uuid.UUID `json:"user_id,omitempty"`
	Booked *bool      `json:"booked,omitempty"`
}

// CampingRepository persists campings. Read returns (nil, nil) when no
// active camping matches. All mutations are scoped to the owning user.
type CampingRepository interface {
	Create(ctx context.Context, actor uuid.UUID, c *Camping) (*Camping, error)
	Read(ctx context.Context, id uuid.UUID) (*Camping, error)
	Update(ctx context.Context, actor uuid.UUID, id uuid.UUID, update UpdateCamping) (*Camping, error)
	Delete(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*Camping, error)
	Filter(ctx context.Context, actor uuid.UUID, filter FilterCamping) ([]Camping, error)

	// AddThumbnail appends a URL under the camping row lock, enforcing
	// the five-thumbnail cap.
	AddThumbnail(ctx context.Context, actor uuid.UUID, id uuid.UUID, url string) (*Camping, error)
	// RemoveThumbnail drops the thumbnail at index (0-based).
	RemoveThumbnail(ctx context.Context, actor uuid.UUID, id uuid.UUID, index int) (*Camping, error)
	// UploadThumbnail streams the bytes to blob storage and appends the
	// resulting URL.
	UploadThumbnail(ctx context.Context, actor uuid.UUID, id uuid.UUID, data []byte) (*Camping, error)
}
