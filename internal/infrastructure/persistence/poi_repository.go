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

// GormPOIRepository implements camping.POIRepository using GORM. Like
// areas, pois are scoped through the owning camping's user.
type GormPOIRepository struct {
	db    *gorm.DB
	cache cache.Cache
	ks    cache.Keyspace
}

// NewGormPOIRepository creates a new GormPOIRepository.
func NewGormPOIRepository(db *gorm.DB, c cache.Cache) *GormPOIRepository {
	return &GormPOIRepository{db: db, cache: c, ks: cache.Keyspace("poi")}
}

func (r *GormPOIRepository) ownedCampings(ctx context.Context, actor uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Session(&gorm.Session{NewDB: true}).
		Model(&camping.Camping{}).
		Select("id").
		Where("user_id = ? AND deleted_at IS NULL", actor)
}

// Create inserts a poi into one of actor's campings.
func (r *GormPOIRepository) Create(ctx context.Context, actor uuid.UUID, poi *camping.POI, campingID uuid.UUID) (*camping.POI, error) {
	if poi == nil {
		return nil, shared.NewValidationError("invalid poi", nil)
	}
	poi.CampingID = campingID
	if err := poi.Validate(); err != nil {
		return nil, shared.NewValidationError("invalid poi", err)
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

	if err := r.db.WithContext(ctx).Create(poi).Error; err != nil {
		return nil, translateDBError(err, "failed to insert poi")
	}

	r.cache.Set(ctx, r.ks.Key(poi.ID.String()), poi, cache.HotTTL)
	return poi, nil
}

// Read returns the active poi with the given id, or (nil, nil) when none
// matches.
func (r *GormPOIRepository) Read(ctx context.Context, id uuid.UUID) (*camping.POI, error) {
	var cached camping.POI
	if r.cache.Get(ctx, r.ks.Key(id.String()), &cached) {
		return &cached, nil
	}

	var poi camping.POI
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&poi).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateDBError(err, "failed to read poi")
	}

	r.cache.Set(ctx, r.ks.Key(id.String()), &poi, cache.HotTTL)
	return &poi, nil
}

// Update applies a partial update to a poi inside one of actor's
// campings.
func (r *GormPOIRepository) Update(ctx context.Context, actor uuid.UUID, id uuid.UUID, update camping.UpdatePOI) (*camping.POI, error) {
	values := map[string]any{}
	if update.Kind != nil {
		if err := update.Kind.Validate(); err != nil {
			return nil, shared.NewValidationError("invalid poi kind", err)
		}
		values["kind"] = *update.Kind
	}
	if update.Point != nil {
		if err := update.Point.Validate(); err != nil {
			return nil, shared.NewValidationError("invalid point", err)
		}
		values["lat"] = update.Point.Lat
		values["lon"] = update.Point.Lon
	}
	if update.Name != nil {
		if *update.Name == "" || len(*update.Name) > camping.MaxPOINameLen {
			return nil, shared.NewValidationError("invalid name", nil)
		}
		values["name"] = *update.Name
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
	if len(values) == 0 {
		return r.readScoped(ctx, actor, id)
	}
	values["updated_at"] = time.Now().UTC()

	r.cache.Invalidate(ctx, r.ks.Key(id.String()))

	result := r.db.WithContext(ctx).
		Model(&camping.POI{}).
		Where("id = ? AND deleted_at IS NULL AND camping_id IN (?)", id, r.ownedCampings(ctx, actor)).
		Updates(values)
	if result.Error != nil {
		return nil, translateDBError(result.Error, "failed to update poi")
	}
	if result.RowsAffected == 0 {
		return nil, shared.NewNotFoundError("no such poi", nil)
	}

	return r.readScoped(ctx, actor, id)
}

// Delete soft-deletes a poi inside one of actor's campings.
func (r *GormPOIRepository) Delete(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*camping.POI, error) {
	r.cache.Invalidate(ctx, r.ks.Key(id.String()))

	poi, err := r.fetchScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&camping.POI{}).
		Where("id = ? AND deleted_at IS NULL AND camping_id IN (?)", id, r.ownedCampings(ctx, actor)).
		Updates(map[string]any{"deleted_at": now, "updated_at": now})
	if result.Error != nil {
		return nil, translateDBError(result.Error, "failed to delete poi")
	}
	if result.RowsAffected == 0 {
		return nil, shared.NewNotFoundError("no such poi", nil)
	}

	poi.DeletedAt = &now
	poi.UpdatedAt = now
	return poi, nil
}

// Filter returns active pois, optionally restricted to a camping.
func (r *GormPOIRepository) Filter(ctx context.Context, _ uuid.UUID, filter camping.FilterPOI) ([]camping.POI, error) {
	cacheKey := r.ks.FilterKey(filter)

	var cached []camping.POI
	if r.cache.Get(ctx, cacheKey, &cached) {
		return cached, nil
	}

	query := r.db.WithContext(ctx).
		Model(&camping.POI{}).
		Where("deleted_at IS NULL")
	if filter.CampingID != nil {
		query = query.Where("camping_id = ?", *filter.CampingID)
	}

	var pois []camping.POI
	if err := query.Order("created_at ASC").Find(&pois).Error; err != nil {
		return nil, translateDBError(err, "failed to read pois")
	}

	r.cache.Set(ctx, cacheKey, pois, cache.LiveTTL)
	return pois, nil
}

func (r *GormPOIRepository) fetchScoped(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*camping.POI, error) {
	var poi camping.POI
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL AND camping_id IN (?)", id, r.ownedCampings(ctx, actor)).
		First(&poi).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("no such poi", err)
		}
		return nil, translateDBError(err, "failed to read poi")
	}
	return &poi, nil
}

func (r *GormPOIRepository) readScoped(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*camping.POI, error) {
	poi, err := r.fetchScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, r.ks.Key(id.String()), poi, cache.HotTTL)
	return poi, nil
}

// Ensure GormPOIRepository implements camping.POIRepository.
var _ camping.POIRepository = (*GormPOIRepository)(nil)
