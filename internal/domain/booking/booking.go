package booking

import (
	"context"
	"time"

	"github.com/backcat/backend/internal/domain/shared"
	"github.com/backcat/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Booking reserves a date range on an area. For any area, no two active
// bookings may overlap; ranges that merely touch at an endpoint count as
// overlapping. The repository enforces this under an area row lock.
type Booking struct {
	shared.BaseEntity
	BookedSince time.Time `gorm:"not null;index:idx_bookings_area_range,priority:2" json:"booked_since"`
	BookedTill  time.Time `gorm:"not null;index:idx_bookings_area_range,priority:3" json:"booked_till"`
	AreaID      uuid.UUID `gorm:"type:uuid;not null;index:idx_bookings_area_range,priority:1" json:"area_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
}

// TableName returns the table name for GORM.
func (Booking) TableName() string { return "bookings" }

// NewBooking creates a validated booking. Area and user are bound by the
// repository at create time.
func NewBooking(since, till time.Time) (*Booking, error) {
	b := &Booking{
		BaseEntity:  shared.NewBaseEntity(),
		BookedSince: since,
		BookedTill:  till,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the booking invariants.
func (b *Booking) Validate() error {
	if err := b.BaseEntity.Validate(); err != nil {
		return err
	}
	_, err := valueobject.NewDateRange(b.BookedSince, b.BookedTill)
	return err
}

// Range returns the booked interval.
func (b *Booking) Range() valueobject.DateRange {
	return valueobject.DateRange{Since: b.BookedSince, Till: b.BookedTill}
}

// UpdateBooking carries a partial date change; omitted endpoints keep
// their stored value.
type UpdateBooking struct {
	BookedSince *time.Time `json:"booked_since,omitempty"`
	BookedTill  *time.Time `json:"booked_till,omitempty"`
}

// FilterBooking selects bookings, optionally by area.
type FilterBooking struct {
	AreaID *uuid.UUID `json:"area_id,omitempty"`
}

// BookingRepository persists bookings. Create and Update serialize
// concurrent attempts on the same area through a row lock and reject
// colliding date ranges with a conflict error. Read returns (nil, nil)
// when no active booking matches.
type BookingRepository interface {
	Create(ctx context.Context, actor uuid.UUID, b *Booking, areaID uuid.UUID) (*Booking, error)
	Read(ctx context.Context, id uuid.UUID) (*Booking, error)
	Update(ctx context.Context, actor uuid.UUID, id uuid.UUID, update UpdateBooking) (*Booking, error)
	Delete(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*Booking, error)
	Filter(ctx context.Context, actor uuid.UUID, filter FilterBooking) ([]Booking, error)
}
