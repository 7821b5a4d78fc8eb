package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/backcat/backend/internal/domain/camping"
	"github.com/backcat/backend/internal/domain/shared"
	"github.com/backcat/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAreaRepository implements camping.AreaRepository using GORM.
// Areas carry no owner column; mutations are scoped through the owning
// camping's user.
type GormAreaRepository struct {
	db    *gorm.DB
	cache cache.Cache
	ks    cache.Keyspace
}

// NewGormAreaRepository creates a new GormAreaRepository.
func NewGormAreaRepository(db *gorm.DB, c cache.Cache) *GormAreaRepository {
	return &GormAreaRepository{db: db, cache: c, ks: cache.Keyspace("area")}
}

// ownedCampings selects the ids of actor's active campings, for use as
// a scoping subquery.
func (r *GormAreaRepository) ownedCampings(ctx context.Context, actor uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Session(&gorm.Session{NewDB: true}).
		Model(&camping.Camping{}).
		Select("id").
		Where("user_id = ? AND deleted_at IS NULL", actor)
}

// Create inserts an area into one of actor's campings.
func (r *GormAreaRepository) Create(ctx context.Context, actor uuid.UUID, area *camping.Area, campingID uuid.UUID) (*camping.Area, error) {
	if area == nil {
		return nil, shared.NewValidationError("invalid area", nil)
	}
	area.CampingID = campingID
	if err := area.Validate(); err != nil {
		return nil, shared.NewValidationError("invalid area", err)
	}

	var owned int64
	err := r.db.WithContext(ctx).
		Model(&camping.Camping{}).
		Where("id = ? AND deleted_at IS NULL AND user_id = ?", campingID, actor).
		Count(&owned).Error
	if err != nil {
		return nil, translateDBError(err, "failed to read camping")
	}
	if owned == 0 {
		return nil, shared.NewNotFoundError("no such camping", nil)
	}

	if err := r.db.WithContext(ctx).Create(area).Error; err != nil {
		return nil, translateDBError(err, "failed to insert area")
	}

	r.cache.Set(ctx, r.ks.Key(area.ID.String()), area, cache.HotTTL)
	return area, nil
}

// Read returns the active area with the given id, or (nil, nil) when
// none matches.
func (r *GormAreaRepository) Read(ctx context.Context, id uuid.UUID) (*camping.Area, error) {
	var cached camping.Area
	if r.cache.Get(ctx, r.ks.Key(id.String()), &cached) {
		return &cached, nil
	}

	var area camping.Area
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&area).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateDBError(err, "failed to read area")
	}

	r.cache.Set(ctx, r.ks.Key(id.String()), &area, cache.HotTTL)
	return &area, nil
}

// Update applies a partial update to an area inside one of actor's
// campings.
func (r *GormAreaRepository) Update(ctx context.Context, actor uuid.UUID, id uuid.UUID, update camping.UpdateArea) (*camping.Area, error) {
	values := map[string]any{}
	if update.Polygon != nil {
		if err := update.Polygon.Validate(); err != nil {
			return nil, shared.NewValidationError("invalid polygon", err)
		}
		values["polygon"] = *update.Polygon
	}
	if update.Description.Present {
		if update.Description.IsNull() {
			values["description"] = nil
		} else {
			if len(*update.Description.Value) > camping.MaxDescriptionLen {
				return nil, shared.NewValidationError("description too long", nil)
			}
			values["description"] = *update.Description.Value
		}
	}
	if update.Price != nil {
		if err := update.Price.Validate(); err != nil {
			return nil, shared.NewValidationError("invalid price", err)
		}
		values["price_amount"] = update.Price.Amount
		values["price_currency"] = update.Price.Currency
	}
	if len(values) == 0 {
		return r.readScoped(ctx, actor, id)
	}
	values["updated_at"] = time.Now().UTC()

	r.cache.Invalidate(ctx, r.ks.Key(id.String()))

	result := r.db.WithContext(ctx).
		Model(&camping.Area{}).
		Where("id = ? AND deleted_at IS NULL AND camping_id IN (?)", id, r.ownedCampings(ctx, actor)).
		Updates(values)
	if result.Error != nil {
		return nil, translateDBError(result.Error, "failed to update area")
	}
	if result.RowsAffected == 0 {
		return nil, shared.NewNotFoundError("no such area", nil)
	}

	return r.readScoped(ctx, actor, id)
}

// Delete soft-deletes an area inside one of actor's campings.
func (r *GormAreaRepository) Delete(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*camping.Area, error) {
	r.cache.Invalidate(ctx, r.ks.Key(id.String()))

	area, err := r.fetchScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&camping.Area{}).
		Where("id = ? AND deleted_at IS NULL AND camping_id IN (?)", id, r.ownedCampings(ctx, actor)).
		Updates(map[string]any{"deleted_at": now, "updated_at": now})
	if result.Error != nil {
		return nil, translateDBError(result.Error, "failed to delete area")
	}
	if result.RowsAffected == 0 {
		return nil, shared.NewNotFoundError("no such area", nil)
	}

	area.DeletedAt = &now
	area.UpdatedAt = now
	return area, nil
}

// Filter returns active areas, optionally restricted to a camping.
func (r *GormAreaRepository) Filter(ctx context.Context, _ uuid.UUID, filter camping.FilterArea) ([]camping.Area, error) {
	cacheKey := r.ks.FilterKey(filter)

	var cached []camping.Area
	if r.cache.Get(ctx, cacheKey, &cached) {
		return cached, nil
	}

	query := r.db.WithContext(ctx).
		Model(&camping.Area{}).
		Where("deleted_at IS NULL")
	if filter.CampingID != nil {
		query = query.Where("camping_id = ?", *filter.CampingID)
	}

	var areas []camping.Area
	if err := query.Order("created_at ASC").Find(&areas).Error; err != nil {
		return nil, translateDBError(err, "failed to read areas")
	}

	r.cache.Set(ctx, cacheKey, areas, cache.LiveTTL)
	return areas, nil
}

func (r *GormAreaRepository) fetchScoped(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*camping.Area, error) {
	var area camping.Area
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL AND camping_id IN (?)", id, r.ownedCampings(ctx, actor)).
		First(&area).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("no such area", err)
		}
		return nil, translateDBError(err, "failed to read area")
	}
	return &area, nil
}

func (r *GormAreaRepository) readScoped(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*camping.Area, error) {
	area, err := r.fetchScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, r.ks.Key(id.String()), area, cache.HotTTL)
	return area, nil
}

// Ensure GormAreaRepository implements camping.AreaRepository.
var _ camping.AreaRepository = (*GormAreaRepository)(nil)
