package persistence

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/backcat/backend/internal/domain/booking"
	"github.com/backcat/backend/internal/domain/camping"
	"github.com/backcat/backend/internal/domain/shared"
	"github.com/backcat/backend/internal/domain/shared/valueobject"
	"github.com/backcat/backend/internal/infrastructure/cache"
	"github.com/backcat/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCampingRepository implements camping.CampingRepository using GORM.
// Thumbnail mutations run under a FOR UPDATE lock on the camping row so
// concurrent appends cannot overshoot the cap.
type GormCampingRepository struct {
	db      *gorm.DB
	cache   cache.Cache
	storage storage.FileStorage
	ks      cache.Keyspace
}

// NewGormCampingRepository creates a new GormCampingRepository.
func NewGormCampingRepository(db *gorm.DB, c cache.Cache, fs storage.FileStorage) *GormCampingRepository {
	return &GormCampingRepository{db: db, cache: c, storage: fs, ks: cache.Keyspace("camping")}
}

// Create inserts a camping owned by actor.
func (r *GormCampingRepository) Create(ctx context.Context, actor uuid.UUID, c *camping.Camping) (*camping.Camping, error) {
	if c == nil {
		return nil, shared.NewValidationError("invalid camping", nil)
	}
	c.UserID = actor
	if err := c.Validate(); err != nil {
		return nil, shared.NewValidationError("invalid camping", err)
	}

	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, translateDBError(err, "failed to insert camping")
	}

	r.cache.Set(ctx, r.ks.Key(c.ID.String()), c, cache.HotTTL)
	return c, nil
}

// Read returns the active camping with the given id, or (nil, nil) when
// none matches.
func (r *GormCampingRepository) Read(ctx context.Context, id uuid.UUID) (*camping.Camping, error) {
	var cached camping.Camping
	if r.cache.Get(ctx, r.ks.Key(id.String()), &cached) {
		return &cached, nil
	}

	var c camping.Camping
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateDBError(err, "failed to read camping")
	}

	r.cache.Set(ctx, r.ks.Key(id.String()), &c, cache.HotTTL)
	return &c, nil
}

// Update applies a partial update to actor's camping. A camping owned by
// someone else is indistinguishable from a missing one.
func (r *GormCampingRepository) Update(ctx context.Context, actor uuid.UUID, id uuid.UUID, update camping.UpdateCamping) (*camping.Camping, error) {
	values := map[string]any{}
	if update.Polygon != nil {
		if err := update.Polygon.Validate(); err != nil {
			return nil, shared.NewValidationError("invalid polygon", err)
		}
		values["polygon"] = *update.Polygon
	}
	if update.Title != nil {
		if *update.Title == "" || len(*update.Title) > camping.MaxTitleLen {
			return nil, shared.NewValidationError("invalid title", nil)
		}
		values["title"] = *update.Title
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
	if update.Thumbnails != nil {
		if err := update.Thumbnails.Validate(); err != nil {
			return nil, shared.NewValidationError("invalid thumbnails", err)
		}
		values["thumbnails"] = *update.Thumbnails
	}
	if len(values) == 0 {
		return r.readOwned(ctx, actor, id)
	}
	values["updated_at"] = time.Now().UTC()

	r.cache.Invalidate(ctx, r.ks.Key(id.String()))

	result := r.db.WithContext(ctx).
		Model(&camping.Camping{}).
		Where("id = ? AND deleted_at IS NULL AND user_id = ?", id, actor).
		Updates(values)
	if result.Error != nil {
		return nil, translateDBError(result.Error, "failed to update camping")
	}
	if result.RowsAffected == 0 {
		return nil, shared.NewNotFoundError("no such camping", nil)
	}

	return r.readOwned(ctx, actor, id)
}

// Delete soft-deletes actor's camping.
func (r *GormCampingRepository) Delete(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*camping.Camping, error) {
	r.cache.Invalidate(ctx, r.ks.Key(id.String()))

	c, err := r.fetchOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&camping.Camping{}).
		Where("id = ? AND deleted_at IS NULL AND user_id = ?", id, actor).
		Updates(map[string]any{"deleted_at": now, "updated_at": now})
	if result.Error != nil {
		return nil, translateDBError(result.Error, "failed to delete camping")
	}
	if result.RowsAffected == 0 {
		return nil, shared.NewNotFoundError("no such camping", nil)
	}

	c.DeletedAt = &now
	c.UpdatedAt = now
	return c, nil
}

// Filter returns active campings matching the criteria. Booked is
// evaluated against the actor's own active bookings. Result sets are
// cached briefly; precise invalidation is not attempted for filters.
func (r *GormCampingRepository) Filter(ctx context.Context, actor uuid.UUID, filter camping.FilterCamping) ([]camping.Camping, error) {
	cacheKey := r.ks.FilterKey(struct {
		Actor  uuid.UUID
		Filter camping.FilterCamping
	}{actor, filter})

	var cached []camping.Camping
	if r.cache.Get(ctx, cacheKey, &cached) {
		return cached, nil
	}

	query := r.db.WithContext(ctx).
		Model(&camping.Camping{}).
		Where("campings.deleted_at IS NULL")
	if filter.UserID != nil {
		query = query.Where("campings.user_id = ?", *filter.UserID)
	}
	if filter.Booked != nil {
		sub := r.db.WithContext(ctx).Session(&gorm.Session{NewDB: true}).
			Model(&booking.Booking{}).
			Select("1").
			Joins("JOIN areas ON areas.id = bookings.area_id AND areas.deleted_at IS NULL").
			Where("areas.camping_id = campings.id").
			Where("bookings.deleted_at IS NULL AND bookings.user_id = ?", actor)
		if *filter.Booked {
			query = query.Where("EXISTS (?)", sub)
		} else {
			query = query.Where("NOT EXISTS (?)", sub)
		}
	}

	var campings []camping.Camping
	if err := query.Order("campings.created_at ASC").Find(&campings).Error; err != nil {
		return nil, translateDBError(err, "failed to read campings")
	}

	r.cache.Set(ctx, cacheKey, campings, cache.LiveTTL)
	return campings, nil
}

// AddThumbnail appends a URL to actor's camping under the row lock,
// enforcing the cap.
func (r *GormCampingRepository) AddThumbnail(ctx context.Context, actor uuid.UUID, id uuid.UUID, url string) (*camping.Camping, error) {
	if url == "" || len(url) > valueobject.MaxThumbnailURLLen {
		return nil, shared.NewValidationError("invalid thumbnail url", nil)
	}

	r.cache.Invalidate(ctx, r.ks.Key(id.String()))

	var updated camping.Camping
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := lockOwnedCamping(tx, actor, id)
		if err != nil {
			return err
		}

		if len(c.Thumbnails) >= valueobject.MaxThumbnails {
			return shared.NewConflictError(
				fmt.Sprintf("at most %d thumbnails allowed", valueobject.MaxThumbnails), nil)
		}
		c.Thumbnails = append(c.Thumbnails, url)

		return persistThumbnails(tx, c, &updated)
	})
	if err != nil {
		return nil, translateDBError(err, "failed to add thumbnail")
	}

	r.cache.Set(ctx, r.ks.Key(id.String()), &updated, cache.HotTTL)
	return &updated, nil
}

// RemoveThumbnail drops the thumbnail at index (0-based) from actor's
// camping.
func (r *GormCampingRepository) RemoveThumbnail(ctx context.Context, actor uuid.UUID, id uuid.UUID, index int) (*camping.Camping, error) {
	r.cache.Invalidate(ctx, r.ks.Key(id.String()))

	var updated camping.Camping
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := lockOwnedCamping(tx, actor, id)
		if err != nil {
			return err
		}

		if index < 0 || index >= len(c.Thumbnails) {
			return shared.NewValidationError(
				fmt.Sprintf("thumbnail index %d out of range", index), nil)
		}
		c.Thumbnails = append(c.Thumbnails[:index], c.Thumbnails[index+1:]...)

		return persistThumbnails(tx, c, &updated)
	})
	if err != nil {
		return nil, translateDBError(err, "failed to remove thumbnail")
	}

	r.cache.Set(ctx, r.ks.Key(id.String()), &updated, cache.HotTTL)
	return &updated, nil
}

// UploadThumbnail stores the bytes in blob storage and appends the
// resulting URL. The blob is removed again if the append fails, so a
// full camping does not leak orphaned objects.
func (r *GormCampingRepository) UploadThumbnail(ctx context.Context, actor uuid.UUID, id uuid.UUID, data []byte) (*camping.Camping, error) {
	if len(data) == 0 {
		return nil, shared.NewValidationError("empty thumbnail payload", nil)
	}

	contentType := http.DetectContentType(data)
	key := fmt.Sprintf("campings/%s/%s", id, uuid.New())

	url, err := r.storage.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, shared.NewInternalError("failed to store thumbnail", err)
	}

	c, err := r.AddThumbnail(ctx, actor, id, url)
	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			return nil, shared.NewInternalError("failed to clean up thumbnail", delErr)
		}
		return nil, err
	}
	return c, nil
}

func (r *GormCampingRepository) fetchOwned(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*camping.Camping, error) {
	var c camping.Camping
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL AND user_id = ?", id, actor).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("no such camping", err)
		}
		return nil, translateDBError(err, "failed to read camping")
	}
	return &c, nil
}

func (r *GormCampingRepository) readOwned(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*camping.Camping, error) {
	c, err := r.fetchOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, r.ks.Key(id.String()), c, cache.HotTTL)
	return c, nil
}

// lockOwnedCamping takes the FOR UPDATE lock that serializes thumbnail
// mutations on one camping.
func lockOwnedCamping(tx *gorm.DB, actor uuid.UUID, id uuid.UUID) (*camping.Camping, error) {
	var c camping.Camping
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND deleted_at IS NULL AND user_id = ?", id, actor).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("no such camping", err)
		}
		return nil, shared.NewInternalError("failed to lock camping", err)
	}
	return &c, nil
}

func persistThumbnails(tx *gorm.DB, c *camping.Camping, out *camping.Camping) error {
	now := time.Now().UTC()
	result := tx.Model(&camping.Camping{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{"thumbnails": c.Thumbnails, "updated_at": now})
	if result.Error != nil {
		return result.Error
	}

	c.UpdatedAt = now
	*out = *c
	return nil
}

// Ensure GormCampingRepository implements camping.CampingRepository.
var _ camping.CampingRepository = (*GormCampingRepository)(nil)
