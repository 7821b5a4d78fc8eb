package identity

import (
	"context"
	"errors"
	"net/mail"

	"github.com/backcat/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	MaxNameLen      = 150
	MaxEmailLen     = 255
	MaxThumbnailLen = 255
)

// User is a registered account. PasswordHash carries the salted bcrypt
// hash; the plaintext never reaches a repository.
type User struct {
	shared.BaseEntity
	Email        string  `gorm:"size:255;not null;uniqueIndex:idx_users_email" json:"email"`
	Name         string  `gorm:"size:150;not null" json:"name"`
	PasswordHash string  `gorm:"column:password;size:512;not null" json:"-"`
	Thumbnail    *string `gorm:"size:255" json:"thumbnail,omitempty"`
}

// TableName returns the table name for GORM.
func (User) TableName() string { return "users" }

// NewUser creates a validated user from a pre-hashed password.
func NewUser(email, name, passwordHash string) (*User, error) {
	u := &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks the user invariants.
func (u *User) Validate() error {
	if err := u.BaseEntity.Validate(); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return errors.New("email is not a valid address")
	}
	if len(u.Email) > MaxEmailLen {
		return errors.New("email too long")
	}
	if u.Name == "" || len(u.Name) > MaxNameLen {
		return errors.New("name must be 1..150 characters")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash must be set")
	}
	if u.Thumbnail != nil && len(*u.Thumbnail) > MaxThumbnailLen {
		return errors.New("thumbnail url too long")
	}
	return nil
}

// UpdateUser carries a partial update. Nil pointer fields are left
// untouched; Thumbnail set to null clears the value.
type UpdateUser struct {
	Name      *string                 `json:"name,omitempty"`
	Thumbnail shared.Optional[string] `json:"thumbnail"`
}

// UserRepository persists users. Read and ReadByEmail return (nil, nil)
// when no active user matches.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	Read(ctx context.Context, id uuid.UUID) (*User, error)
	ReadByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, actor uuid.UUID, id uuid.UUID, update UpdateUser) (*User, error)
	Delete(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*User, error)
}
