package camping

import (
	"context"
	"errors"

	"github.com/backcat/backend/internal/domain/shared"
	"github.com/backcat/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Area is a bookable polygon inside a camping, priced per night.
type Area struct {
	shared.BaseEntity
	Polygon     valueobject.Polygon `gorm:"type:jsonb;not null" json:"polygon"`
	Description *string             `gorm:"size:5000" json:"description,omitempty"`
	Price       valueobject.Money   `gorm:"embedded;embeddedPrefix:price_" json:"price"`
	CampingID   uuid.UUID           `gorm:"type:uuid;not null;index" json:"camping_id"`
}

// TableName returns the table name for GORM.
func (Area) TableName() string { return "areas" }

// NewArea creates a validated area. The owning camping is bound by the
// repository at create time.
func NewArea(polygon valueobject.Polygon, description *string, price valueobject.Money) (*Area, error) {
	a := &Area{
		BaseEntity:  shared.NewBaseEntity(),
		Polygon:     polygon,
		Description: description,
		Price:       price,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the area invariants.
func (a *Area) Validate() error {
	if err := a.BaseEntity.Validate(); err != nil {
		return err
	}
	if err := a.Polygon.Validate(); err != nil {
		return err
	}
	if a.Description != nil && len(*a.Description) > MaxDescriptionLen {
		return errors.New("description too long")
	}
	return a.Price.Validate()
}

// UpdateArea carries a partial update. Description set to null clears
// the value; price fields are updated together or not at all.
type UpdateArea struct {
	Polygon     *valueobject.Polygon    `json:"polygon,omitempty"`
	Description shared.Optional[string] `json:"description"`
	Price       *valueobject.Money      `json:"price,omitempty"`
}

// FilterArea selects areas, optionally by owning camping.
type FilterArea struct {
	CampingID *uuid.UUID `json:"camping_id,omitempty"`
}

// AreaRepository persists areas. Mutations are scoped transitively
// through the owning camping's user.
type AreaRepository interface {
	Create(ctx context.Context, actor uuid.UUID, area *Area, campingID uuid.UUID) (*Area, error)
	Read(ctx context.Context, id uuid.UUID) (*Area, error)
	Update(ctx context.Context, actor uuid.UUID, id uuid.UUID, update UpdateArea) (*Area, error)
	Delete(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*Area, error)
	Filter(ctx context.Context, actor uuid.UUID, filter FilterArea) ([]Area, error)
}
