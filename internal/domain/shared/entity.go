package shared

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// BaseEntity provides the common envelope shared by every entity: an
// immutable id, tz-aware creation/mutation timestamps and the soft-delete
// marker. A nil DeletedAt means the entity is active; soft-deleted rows
// are excluded from every read and filter.
type BaseEntity struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// NewBaseEntity creates an entity envelope with a generated id and UTC
// timestamps.
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the envelope invariants.
func (e *BaseEntity) Validate() error {
	if e.ID == uuid.Nil {
		return errors.New("id must be set")
	}
	if e.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	if e.UpdatedAt.IsZero() {
		return errors.New("updated_at must be set")
	}
	if e.UpdatedAt.Before(e.CreatedAt) {
		return errors.New("updated_at cannot be before created_at")
	}
	if e.DeletedAt != nil && e.DeletedAt.Before(e.CreatedAt) {
		return errors.New("deleted_at cannot be before created_at")
	}
	return nil
}

// Touch bumps the mutation timestamp.
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now().UTC()
}

// IsDeleted reports whether the entity is soft-deleted.
func (e *BaseEntity) IsDeleted() bool {
	return e.DeletedAt != nil
}
