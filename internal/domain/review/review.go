package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/backcat/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	MinRating     = 1
	MaxRating     = 5
	MaxCommentLen = 5000
)

// Review is a rating with an optional comment left by a user on an area.
type Review struct {
	shared.BaseEntity
	Rating  int       `gorm:"type:smallint;not null" json:"rating"`
	Comment *string   `gorm:"size:5000" json:"comment,omitempty"`
	AreaID  uuid.UUID `gorm:"type:uuid;not null;index" json:"area_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
}

// TableName returns the table name for GORM.
func (Review) TableName() string { return "reviews" }

// NewReview creates a validated review. Area and user are bound by the
// repository at create time.
func NewReview(rating int, comment *string) (*Review, error) {
	r := &Review{
		BaseEntity: shared.NewBaseEntity(),
		Rating:     rating,
		Comment:    comment,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the review invariants.
func (r *Review) Validate() error {
	if err := r.BaseEntity.Validate(); err != nil {
		return err
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		return fmt.Errorf("rating must be in [%d, %d]", MinRating, MaxRating)
	}
	if r.Comment != nil && len(*r.Comment) > MaxCommentLen {
		return errors.New("comment too long")
	}
	return nil
}

// UpdateReview carries a partial update; Comment set to null clears it.
type UpdateReview struct {
	Rating  *int                    `json:"rating,omitempty"`
	Comment shared.Optional[string] `json:"comment"`
}

// FilterReview selects reviews, optionally by area.
type FilterReview struct {
	AreaID *uuid.UUID `json:"area_id,omitempty"`
}

// ReviewRepository persists reviews. Read returns (nil, nil) when no
// active review matches; mutations are scoped to the authoring user.
type ReviewRepository interface {
	Create(ctx context.Context, actor uuid.UUID, r *Review, areaID uuid.UUID) (*Review, error)
	Read(ctx context.Context, id uuid.UUID) (*Review, error)
	Update(ctx context.Context, actor uuid.UUID, id uuid.UUID, update UpdateReview) (*Review, error)
	Delete(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*Review, error)
	Filter(ctx context.Context, actor uuid.UUID, filter FilterReview) ([]Review, error)
}
