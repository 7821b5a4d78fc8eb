package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/backcat/backend/internal/domain/camping"
	"github.com/backcat/backend/internal/domain/review"
	"github.com/backcat/backend/internal/domain/shared"
	"github.com/backcat/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReviewRepository implements review.ReviewRepository using GORM.
type GormReviewRepository struct {
	db    *gorm.DB
	cache cache.Cache
	ks    cache.Keyspace
}

// NewGormReviewRepository creates a new GormReviewRepository.
func NewGormReviewRepository(db *gorm.DB, c cache.Cache) *GormReviewRepository {
	return &GormReviewRepository{db: db, cache: c, ks: cache.Keyspace("review")}
}

// Create inserts actor's review on the given area.
func (r *GormReviewRepository) Create(ctx context.Context, actor uuid.UUID, rv *review.Review, areaID uuid.UUID) (*review.Review, error) {
	if rv == nil {
		return nil, shared.NewValidationError("invalid review", nil)
	}
	rv.AreaID = areaID
	rv.UserID = actor
	if err := rv.Validate(); err != nil {
		return nil, shared.NewValidationError("invalid review", err)
	}

	var active int64
	err := r.db.WithContext(ctx).
		Model(&camping.Area{}).
		Where("id = ? AND deleted_at IS NULL", areaID).
		Count(&active).Error
	if err != nil {
		return nil, translateDBError(err, "failed to read area")
	}
	if active == 0 {
		return nil, shared.NewNotFoundError("no such area", nil)
	}

	if err := r.db.WithContext(ctx).Create(rv).Error; err != nil {
		return nil, translateDBError(err, "failed to insert review")
	}

	r.cache.Set(ctx, r.ks.Key(rv.ID.String()), rv, cache.HotTTL)
	return rv, nil
}

// Read returns the active review with the given id, or (nil, nil) when
// none matches.
func (r *GormReviewRepository) Read(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	var cached review.Review
	if r.cache.Get(ctx, r.ks.Key(id.String()), &cached) {
		return &cached, nil
	}

	var rv review.Review
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&rv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateDBError(err, "failed to read review")
	}

	r.cache.Set(ctx, r.ks.Key(id.String()), &rv, cache.HotTTL)
	return &rv, nil
}

// Update applies a partial update to actor's review.
func (r *GormReviewRepository) Update(ctx context.Context, actor uuid.UUID, id uuid.UUID, update review.UpdateReview) (*review.Review, error) {
	values := map[string]any{}
	if update.Rating != nil {
		if *update.Rating < review.MinRating || *update.Rating > review.MaxRating {
			return nil, shared.NewValidationError("invalid rating", nil)
		}
		values["rating"] = *update.Rating
	}
	if update.Comment.Present {
		if update.Comment.IsNull() {
			values["comment"] = nil
		} else {
			if len(*update.Comment.Value) > review.MaxCommentLen {
				return nil, shared.NewValidationError("comment too long", nil)
			}
			values["comment"] = *update.Comment.Value
		}
	}
	if len(values) == 0 {
		return r.readOwned(ctx, actor, id)
	}
	values["updated_at"] = time.Now().UTC()

	r.cache.Invalidate(ctx, r.ks.Key(id.String()))

	result := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Where("id = ? AND deleted_at IS NULL AND user_id = ?", id, actor).
		Updates(values)
	if result.Error != nil {
		return nil, translateDBError(result.Error, "failed to update review")
	}
	if result.RowsAffected == 0 {
		return nil, shared.NewNotFoundError("no such review", nil)
	}

	return r.readOwned(ctx, actor, id)
}

// Delete soft-deletes actor's review.
func (r *GormReviewRepository) Delete(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*review.Review, error) {
	r.cache.Invalidate(ctx, r.ks.Key(id.String()))

	rv, err := r.fetchOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Where("id = ? AND deleted_at IS NULL AND user_id = ?", id, actor).
		Updates(map[string]any{"deleted_at": now, "updated_at": now})
	if result.Error != nil {
		return nil, translateDBError(result.Error, "failed to delete review")
	}
	if result.RowsAffected == 0 {
		return nil, shared.NewNotFoundError("no such review", nil)
	}

	rv.DeletedAt = &now
	rv.UpdatedAt = now
	return rv, nil
}

// Filter returns active reviews, optionally restricted to an area.
func (r *GormReviewRepository) Filter(ctx context.Context, _ uuid.UUID, filter review.FilterReview) ([]review.Review, error) {
	cacheKey := r.ks.FilterKey(filter)

	var cached []review.Review
	if r.cache.Get(ctx, cacheKey, &cached) {
		return cached, nil
	}

	query := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Where("deleted_at IS NULL")
	if filter.AreaID != nil {
		query = query.Where("area_id = ?", *filter.AreaID)
	}

	var reviews []review.Review
	if err := query.Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, translateDBError(err, "failed to read reviews")
	}

	r.cache.Set(ctx, cacheKey, reviews, cache.LiveTTL)
	return reviews, nil
}

func (r *GormReviewRepository) fetchOwned(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*review.Review, error) {
	var rv review.Review
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL AND user_id = ?", id, actor).
		First(&rv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("no such review", err)
		}
		return nil, translateDBError(err, "failed to read review")
	}
	return &rv, nil
}

func (r *GormReviewRepository) readOwned(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*review.Review, error) {
	rv, err := r.fetchOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, r.ks.Key(id.String()), rv, cache.HotTTL)
	return rv, nil
}

// Ensure GormReviewRepository implements review.ReviewRepository.
var _ review.ReviewRepository = (*GormReviewRepository)(nil)
