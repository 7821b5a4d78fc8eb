package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/backcat/backend/internal/domain/identity"
	"github.com/backcat/backend/internal/domain/shared"
	"github.com/backcat/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMockUserRepository(t *testing.T) (*GormUserRepository, *cache.MemoryCache, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	gormDB, mock, mockDB := newMockGormDB(t)
	mem := cache.NewMemoryCache()
	return NewGormUserRepository(gormDB, mem), mem, mock, mockDB
}

func userColumns() []string {
	return []string{"id", "created_at", "updated_at", "deleted_at", "email", "name", "password", "thumbnail"}
}

func userRow(id uuid.UUID, email string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(userColumns()).
		AddRow(id, now, now, nil, email, "Alice", "$2a$12$hash", nil)
}

func TestGormUserRepository_Create(t *testing.T) {
	t.Run("inserts a valid user and caches it", func(t *testing.T) {
		repo, mem, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		user, err := identity.NewUser("alice@example.com", "Alice", "$2a$12$hash")
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "users"`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		created, err := repo.Create(context.Background(), user)
		require.NoError(t, err)
		require.NotNil(t, created)

		var cached identity.User
		assert.True(t, mem.Get(context.Background(), "user:"+created.ID.String(), &cached))
		assert.Equal(t, "alice@example.com", cached.Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports a taken email as a conflict", func(t *testing.T) {
		repo, _, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		user, err := identity.NewUser("alice@example.com", "Alice", "$2a$12$hash")
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "users"`).
			WillReturnError(gorm.ErrDuplicatedKey)

		created, err := repo.Create(context.Background(), user)
		assert.Nil(t, created)
		assert.True(t, shared.IsConflict(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects an invalid email without touching the store", func(t *testing.T) {
		repo, _, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		user := &identity.User{
			BaseEntity:   shared.NewBaseEntity(),
			Email:        "not-an-address",
			Name:         "Alice",
			PasswordHash: "$2a$12$hash",
		}

		created, err := repo.Create(context.Background(), user)
		assert.Nil(t, created)
		assert.True(t, shared.IsValidation(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormUserRepository_Read(t *testing.T) {
	userID := uuid.New()

	t.Run("cache hit skips the store", func(t *testing.T) {
		repo, mem, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		want := identity.User{
			BaseEntity: shared.BaseEntity{ID: userID, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()},
			Email:      "alice@example.com",
			Name:       "Alice",
		}
		mem.Set(context.Background(), "user:"+userID.String(), &want, cache.HotTTL)

		got, err := repo.Read(context.Background(), userID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, want.Email, got.Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil for a missing user", func(t *testing.T) {
		repo, _, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 AND deleted_at IS NULL ORDER BY "users"\."id" LIMIT \$2`).
			WithArgs(userID, 1).
			WillReturnRows(sqlmock.NewRows(userColumns()))

		got, err := repo.Read(context.Background(), userID)
		assert.NoError(t, err)
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormUserRepository_ReadByEmail(t *testing.T) {
	userID := uuid.New()

	t.Run("always reads the store", func(t *testing.T) {
		repo, mem, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		// A cached copy must not satisfy a login lookup.
		mem.Set(context.Background(), "user:"+userID.String(), &identity.User{}, cache.HotTTL)

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1 AND deleted_at IS NULL ORDER BY "users"\."id" LIMIT \$2`).
			WithArgs("alice@example.com", 1).
			WillReturnRows(userRow(userID, "alice@example.com"))

		got, err := repo.ReadByEmail(context.Background(), "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, userID, got.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil for an unknown email", func(t *testing.T) {
		repo, _, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1 AND deleted_at IS NULL ORDER BY "users"\."id" LIMIT \$2`).
			WithArgs("nobody@example.com", 1).
			WillReturnRows(sqlmock.NewRows(userColumns()))

		got, err := repo.ReadByEmail(context.Background(), "nobody@example.com")
		assert.NoError(t, err)
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormUserRepository_Update(t *testing.T) {
	userID := uuid.New()

	t.Run("denies updating another user's account", func(t *testing.T) {
		repo, _, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		name := "Mallory"
		got, err := repo.Update(context.Background(), uuid.New(), userID, identity.UpdateUser{Name: &name})
		assert.Nil(t, got)
		assert.True(t, shared.IsKind(err, shared.KindAccessDenied))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("renames the account and refreshes the cache", func(t *testing.T) {
		repo, mem, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "users" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 AND deleted_at IS NULL ORDER BY "users"\."id" LIMIT \$2`).
			WithArgs(userID, 1).
			WillReturnRows(userRow(userID, "alice@example.com"))

		name := "Alice B"
		got, err := repo.Update(context.Background(), userID, userID, identity.UpdateUser{Name: &name})
		require.NoError(t, err)
		require.NotNil(t, got)

		var cached identity.User
		assert.True(t, mem.Get(context.Background(), "user:"+userID.String(), &cached))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("clears the thumbnail when set to null", func(t *testing.T) {
		repo, _, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "users" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 AND deleted_at IS NULL ORDER BY "users"\."id" LIMIT \$2`).
			WithArgs(userID, 1).
			WillReturnRows(userRow(userID, "alice@example.com"))

		got, err := repo.Update(context.Background(), userID, userID, identity.UpdateUser{Thumbnail: shared.Null[string]()})
		require.NoError(t, err)
		assert.Nil(t, got.Thumbnail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty update reads back the current row", func(t *testing.T) {
		repo, _, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 AND deleted_at IS NULL ORDER BY "users"\."id" LIMIT \$2`).
			WithArgs(userID, 1).
			WillReturnRows(userRow(userID, "alice@example.com"))

		got, err := repo.Update(context.Background(), userID, userID, identity.UpdateUser{})
		require.NoError(t, err)
		assert.Equal(t, userID, got.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		repo, _, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		name := ""
		got, err := repo.Update(context.Background(), userID, userID, identity.UpdateUser{Name: &name})
		assert.Nil(t, got)
		assert.True(t, shared.IsValidation(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormUserRepository_Delete(t *testing.T) {
	userID := uuid.New()

	t.Run("denies deleting another user's account", func(t *testing.T) {
		repo, _, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		got, err := repo.Delete(context.Background(), uuid.New(), userID)
		assert.Nil(t, got)
		assert.True(t, shared.IsKind(err, shared.KindAccessDenied))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("soft deletes the caller's own account", func(t *testing.T) {
		repo, mem, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		mem.Set(context.Background(), "user:"+userID.String(), &identity.User{}, cache.HotTTL)

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 AND deleted_at IS NULL ORDER BY "users"\."id" LIMIT \$2`).
			WithArgs(userID, 1).
			WillReturnRows(userRow(userID, "alice@example.com"))
		mock.ExpectExec(`UPDATE "users" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		got, err := repo.Delete(context.Background(), userID, userID)
		require.NoError(t, err)
		require.NotNil(t, got.DeletedAt)

		var cached identity.User
		assert.False(t, mem.Get(context.Background(), "user:"+userID.String(), &cached))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for an already deleted account", func(t *testing.T) {
		repo, _, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 AND deleted_at IS NULL ORDER BY "users"\."id" LIMIT \$2`).
			WithArgs(userID, 1).
			WillReturnRows(sqlmock.NewRows(userColumns()))

		got, err := repo.Delete(context.Background(), userID, userID)
		assert.Nil(t, got)
		assert.True(t, shared.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
