package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/backcat/backend/internal/domain/booking"
	"github.com/backcat/backend/internal/domain/camping"
	"github.com/backcat/backend/internal/domain/shared"
	"github.com/backcat/backend/internal/domain/shared/valueobject"
	"github.com/backcat/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// overlapClause is the inclusive overlap test: ranges that merely touch
// at an endpoint collide. A deliberate product decision, not half-open
// interval semantics.
const overlapClause = "area_id = ? AND deleted_at IS NULL AND booked_since <= ? AND booked_till >= ?"

// GormBookingRepository implements booking.BookingRepository using GORM.
//
// Create and Update take a FOR UPDATE lock on the target area row before
// running the collision check. The lock is held until commit, so two
// concurrent attempts on the same area are strictly serialized: the
// second blocks on the lock and re-evaluates the check against the
// first's committed state. Attempts on different areas proceed
// independently.
type GormBookingRepository struct {
	db    *gorm.DB
	cache cache.Cache
	ks    cache.Keyspace
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB, c cache.Cache) *GormBookingRepository {
	return &GormBookingRepository{db: db, cache: c, ks: cache.Keyspace("booking")}
}

// Create inserts a booking for actor on the given area, rejecting date
// collisions with a conflict error.
func (r *GormBookingRepository) Create(ctx context.Context, actor uuid.UUID, b *booking.Booking, areaID uuid.UUID) (*booking.Booking, error) {
	if b == nil {
		return nil, shared.NewValidationError("invalid booking", nil)
	}
	b.AreaID = areaID
	b.UserID = actor
	if err := b.Validate(); err != nil {
		return nil, shared.NewValidationError("invalid booking", err)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockArea(tx, areaID); err != nil {
			return err
		}

		var colliding int64
		if err := tx.Model(&booking.Booking{}).
			Where(overlapClause, areaID, b.BookedTill, b.BookedSince).
			Count(&colliding).Error; err != nil {
			return shared.NewInternalError("failed to check date collision", err)
		}
		if colliding > 0 {
			return shared.NewConflictError("date collision", nil)
		}

		return tx.Create(b).Error
	})
	if err != nil {
		return nil, translateDBError(err, "failed to insert booking")
	}

	r.cache.Set(ctx, r.ks.Key(b.ID.String()), b, cache.HotTTL)
	return b, nil
}

// Read returns the active booking with the given id, or (nil, nil) when
// none matches. Cache-aside: a hit skips the store entirely.
func (r *GormBookingRepository) Read(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var cached booking.Booking
	if r.cache.Get(ctx, r.ks.Key(id.String()), &cached) {
		return &cached, nil
	}

	var b booking.Booking
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateDBError(err, "failed to read booking")
	}

	r.cache.Set(ctx, r.ks.Key(id.String()), &b, cache.HotTTL)
	return &b, nil
}

// Update applies a partial date change for actor's booking, re-running
// the collision check (excluding the booking itself) under the area row
// lock. The area is taken from the locked booking row, never from the
// caller.
func (r *GormBookingRepository) Update(ctx context.Context, actor uuid.UUID, id uuid.UUID, update booking.UpdateBooking) (*booking.Booking, error) {
	r.cache.Invalidate(ctx, r.ks.Key(id.String()))

	var updated booking.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b booking.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND deleted_at IS NULL AND user_id = ?", id, actor).
			First(&b).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.NewNotFoundError("no such booking", err)
			}
			return shared.NewInternalError("failed to lock booking", err)
		}

		if err := lockArea(tx, b.AreaID); err != nil {
			return err
		}

		since, till := b.BookedSince, b.BookedTill
		if update.BookedSince != nil {
			since = *update.BookedSince
		}
		if update.BookedTill != nil {
			till = *update.BookedTill
		}
		if _, err := valueobject.NewDateRange(since, till); err != nil {
			return shared.NewValidationError("invalid booking range", err)
		}

		var colliding int64
		if err := tx.Model(&booking.Booking{}).
			Where("id <> ?", b.ID).
			Where(overlapClause, b.AreaID, till, since).
			Count(&colliding).Error; err != nil {
			return shared.NewInternalError("failed to check date collision", err)
		}
		if colliding > 0 {
			return shared.NewConflictError("date collision", nil)
		}

		now := time.Now().UTC()
		result := tx.Model(&booking.Booking{}).
			Where("id = ? AND deleted_at IS NULL AND user_id = ?", id, actor).
			Updates(map[string]any{
				"booked_since": since,
				"booked_till":  till,
				"updated_at":   now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError("no such booking", nil)
		}

		b.BookedSince = since
		b.BookedTill = till
		b.UpdatedAt = now
		updated = b
		return nil
	})
	if err != nil {
		return nil, translateDBError(err, "failed to update booking")
	}

	r.cache.Set(ctx, r.ks.Key(id.String()), &updated, cache.HotTTL)
	return &updated, nil
}

// Delete soft-deletes actor's booking. Freeing a range cannot create a
// collision, so no overlap check runs.
func (r *GormBookingRepository) Delete(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*booking.Booking, error) {
	r.cache.Invalidate(ctx, r.ks.Key(id.String()))

	var deleted booking.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b booking.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND deleted_at IS NULL AND user_id = ?", id, actor).
			First(&b).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.NewNotFoundError("no such booking", err)
			}
			return shared.NewInternalError("failed to lock booking", err)
		}

		now := time.Now().UTC()
		result := tx.Model(&booking.Booking{}).
			Where("id = ? AND deleted_at IS NULL AND user_id = ?", id, actor).
			Updates(map[string]any{"deleted_at": now, "updated_at": now})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError("no such booking", nil)
		}

		b.DeletedAt = &now
		b.UpdatedAt = now
		deleted = b
		return nil
	})
	if err != nil {
		return nil, translateDBError(err, "failed to delete booking")
	}
	return &deleted, nil
}

// Filter returns all active bookings, optionally restricted to an area.
func (r *GormBookingRepository) Filter(ctx context.Context, _ uuid.UUID, filter booking.FilterBooking) ([]booking.Booking, error) {
	query := r.db.WithContext(ctx).
		Model(&booking.Booking{}).
		Where("deleted_at IS NULL")
	if filter.AreaID != nil {
		query = query.Where("area_id = ?", *filter.AreaID)
	}

	var bookings []booking.Booking
	if err := query.Order("booked_since ASC").Find(&bookings).Error; err != nil {
		return nil, translateDBError(err, "failed to read bookings")
	}
	return bookings, nil
}

// lockArea takes the FOR UPDATE lock that serializes concurrent booking
// attempts on one area. The lock is mandatory even when no collision is
// found; area existence is a side effect of the attempt.
func lockArea(tx *gorm.DB, areaID uuid.UUID) error {
	var area camping.Area
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND deleted_at IS NULL", areaID).
		First(&area).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.NewNotFoundError("no such area", err)
		}
		return shared.NewInternalError("failed to lock area", err)
	}
	return nil
}

// Ensure GormBookingRepository implements booking.BookingRepository.
var _ booking.BookingRepository = (*GormBookingRepository)(nil)
