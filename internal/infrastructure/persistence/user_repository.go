package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/backcat/backend/internal/domain/identity"
	"github.com/backcat/backend/internal/domain/shared"
	"github.com/backcat/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM.
type GormUserRepository struct {
	db    *gorm.DB
	cache cache.Cache
	ks    cache.Keyspace
}

// NewGormUserRepository creates a new GormUserRepository.
func NewGormUserRepository(db *gorm.DB, c cache.Cache) *GormUserRepository {
	return &GormUserRepository{db: db, cache: c, ks: cache.Keyspace("user")}
}

// Create inserts a user. A taken email surfaces as a conflict error via
// the unique index.
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) (*identity.User, error) {
	if user == nil {
		return nil, shared.NewValidationError("invalid user", nil)
	}
	if err := user.Validate(); err != nil {
		return nil, shared.NewValidationError("invalid user", err)
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, translateDBError(err, "failed to insert user")
	}

	r.cache.Set(ctx, r.ks.Key(user.ID.String()), user, cache.HotTTL)
	return user, nil
}

// Read returns the active user with the given id, or (nil, nil) when
// none matches.
func (r *GormUserRepository) Read(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var cached identity.User
	if r.cache.Get(ctx, r.ks.Key(id.String()), &cached) {
		return &cached, nil
	}

	var user identity.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateDBError(err, "failed to read user")
	}

	r.cache.Set(ctx, r.ks.Key(id.String()), &user, cache.HotTTL)
	return &user, nil
}

// ReadByEmail returns the active user with the given email, or
// (nil, nil) when none matches. Login needs the current password hash,
// so this path never touches the cache.
func (r *GormUserRepository) ReadByEmail(ctx context.Context, email string) (*identity.User, error) {
	var user identity.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND deleted_at IS NULL", email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateDBError(err, "failed to read user")
	}
	return &user, nil
}

// Update applies a partial update to the actor's own account.
func (r *GormUserRepository) Update(ctx context.Context, actor uuid.UUID, id uuid.UUID, update identity.UpdateUser) (*identity.User, error) {
	if actor != id {
		return nil, shared.NewAccessDeniedError("cannot update another user", nil)
	}

	values := map[string]any{}
	if update.Name != nil {
		if *update.Name == "" || len(*update.Name) > identity.MaxNameLen {
			return nil, shared.NewValidationError("invalid name", nil)
		}
		values["name"] = *update.Name
	}
	if update.Thumbnail.Present {
		if update.Thumbnail.IsNull() {
			values["thumbnail"] = nil
		} else {
			if len(*update.Thumbnail.Value) > identity.MaxThumbnailLen {
				return nil, shared.NewValidationError("thumbnail url too long", nil)
			}
			values["thumbnail"] = *update.Thumbnail.Value
		}
	}
	if len(values) == 0 {
		return r.readOwned(ctx, id)
	}
	values["updated_at"] = time.Now().UTC()

	r.cache.Invalidate(ctx, r.ks.Key(id.String()))

	result := r.db.WithContext(ctx).
		Model(&identity.User{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(values)
	if result.Error != nil {
		return nil, translateDBError(result.Error, "failed to update user")
	}
	if result.RowsAffected == 0 {
		return nil, shared.NewNotFoundError("no such user", nil)
	}

	return r.readOwned(ctx, id)
}

// Delete soft-deletes the actor's own account.
func (r *GormUserRepository) Delete(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*identity.User, error) {
	if actor != id {
		return nil, shared.NewAccessDeniedError("cannot delete another user", nil)
	}

	r.cache.Invalidate(ctx, r.ks.Key(id.String()))

	var user identity.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("no such user", err)
		}
		return nil, translateDBError(err, "failed to read user")
	}

	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&identity.User{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{"deleted_at": now, "updated_at": now})
	if result.Error != nil {
		return nil, translateDBError(result.Error, "failed to delete user")
	}
	if result.RowsAffected == 0 {
		return nil, shared.NewNotFoundError("no such user", nil)
	}

	user.DeletedAt = &now
	user.UpdatedAt = now
	return &user, nil
}

// readOwned fetches a fresh row after a mutation and repopulates the
// cache.
func (r *GormUserRepository) readOwned(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var user identity.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("no such user", err)
		}
		return nil, translateDBError(err, "failed to read user")
	}

	r.cache.Set(ctx, r.ks.Key(id.String()), &user, cache.HotTTL)
	return &user, nil
}

// Ensure GormUserRepository implements identity.UserRepository.
var _ identity.UserRepository = (*GormUserRepository)(nil)
