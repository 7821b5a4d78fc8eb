package camping

import (
	"context"
	"errors"
	"fmt"

	"github.com/backcat/backend/internal/domain/shared"
	"github.com/backcat/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// POIKind categorizes a point of interest.
type POIKind string

const (
	POIKindGeneral POIKind = "general"

	// natural features
	POIKindBeach     POIKind = "beach"
	POIKindLake      POIKind = "lake"
	POIKindRiver     POIKind = "river"
	POIKindWaterfall POIKind = "waterfall"
	POIKindViewpoint POIKind = "viewpoint"
	POIKindCanyon    POIKind = "canyon"
	POIKindCave      POIKind = "cave"

	// facilities
	POIKindCampfire POIKind = "campfire"
	POIKindPicnic   POIKind = "picnic"
	POIKindRestroom POIKind = "restroom"
	POIKindWater    POIKind = "water"
	POIKindFood     POIKind = "food"
	POIKindTrash    POIKind = "trash"
	POIKindPier     POIKind = "pier"
	POIKindDock     POIKind = "dock"
	POIKindParking  POIKind = "parking"
	POIKindInfo     POIKind = "info"

	// activities
	POIKindSwim       POIKind = "swim"
	POIKindFish       POIKind = "fish"
	POIKindBoat       POIKind = "boat"
	POIKindClimbing   POIKind = "climbing"
	POIKindPlayground POIKind = "playground"
)

var poiKinds = map[POIKind]struct{}{
	POIKindGeneral: {}, POIKindBeach: {}, POIKindLake: {}, POIKindRiver: {},
	POIKindWaterfall: {}, POIKindViewpoint: {}, POIKindCanyon: {}, POIKindCave: {},
	POIKindCampfire: {}, POIKindPicnic: {}, POIKindRestroom: {}, POIKindWater: {},
	POIKindFood: {}, POIKindTrash: {}, POIKindPier: {}, POIKindDock: {},
	POIKindParking: {}, POIKindInfo: {}, POIKindSwim: {}, POIKindFish: {},
	POIKindBoat: {}, POIKindClimbing: {}, POIKindPlayground: {},
}

// Validate checks that the kind is one of the known categories.
func (k POIKind) Validate() error {
	if _, ok := poiKinds[k]; !ok {
		return fmt.Errorf("unknown poi kind %q", string(k))
	}
	return nil
}

const MaxPOINameLen = 150

// POI is a point of interest inside a camping.
type POI struct {
	shared.BaseEntity
	Kind        POIKind           `gorm:"size:32;not null;default:general" json:"kind"`
	Point       valueobject.Point `gorm:"embedded" json:"point"`
	Name        string            `gorm:"size:150;not null" json:"name"`
	Description *string           `gorm:"size:5000" json:"description,omitempty"`
	CampingID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"camping_id"`
}

// TableName returns the table name for GORM.
func (POI) TableName() string { return "pois" }

// NewPOI creates a validated point of interest.
func NewPOI(kind POIKind, point valueobject.Point, name string, description *string) (*POI, error) {
	if kind == "" {
		kind = POIKindGeneral
	}
	p := &POI{
		BaseEntity:  shared.NewBaseEntity(),
		Kind:        kind,
		Point:       point,
		Name:        name,
		Description: description,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the poi invariants.
func (p *POI) Validate() error {
	if err := p.BaseEntity.Validate(); err != nil {
		return err
	}
	if err := p.Kind.Validate(); err != nil {
		return err
	}
	if err := p.Point.Validate(); err != nil {
		return err
	}
	if p.Name == "" || len(p.Name) > MaxPOINameLen {
		return fmt.Errorf("name must be 1..%d characters", MaxPOINameLen)
	}
	if p.Description != nil && len(*p.Description) > MaxDescriptionLen {
		return errors.New("description too long")
	}
	return nil
}

// UpdatePOI carries a partial update.
type UpdatePOI struct {
	Kind        *POIKind                `json:"kind,omitempty"`
	Point       *valueobject.Point      `json:"point,omitempty"`
	Name        *string                 `json:"name,omitempty"`
	Description shared.Optional[string] `json:"description"`
}

// FilterPOI selects pois, optionally by owning camping.
type FilterPOI struct {
	CampingID *uuid.UUID `json:"camping_id,omitempty"`
}

// POIRepository persists points of interest. Mutations are scoped
// transitively through the owning camping's user.
type POIRepository interface {
	Create(ctx context.Context, actor uuid.UUID, poi *POI, campingID uuid.UUID) (*POI, error)
	Read(ctx context.Context, id uuid.UUID) (*POI, error)
	Update(ctx context.Context, actor uuid.UUID, id uuid.UUID, update UpdatePOI) (*POI, error)
	Delete(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*POI, error)
	Filter(ctx context.Context, actor uuid.UUID, filter FilterPOI) ([]POI, error)
}
