package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/backcat/backend/internal/domain/camping"
	"github.com/backcat/backend/internal/domain/shared"
	"github.com/backcat/backend/internal/domain/shared/valueobject"
	"github.com/backcat/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockAreaRepository(t *testing.T) (*GormAreaRepository, *cache.MemoryCache, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	gormDB, mock, mockDB := newMockGormDB(t)
	mem := cache.NewMemoryCache()
	return NewGormAreaRepository(gormDB, mem), mem, mock, mockDB
}

func testMoney(t *testing.T) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoney(decimal.NewFromInt(50), valueobject.EUR)
	require.NoError(t, err)
	return m
}

func TestGormAreaRepository_Create(t *testing.T) {
	actor := uuid.New()
	campingID := uuid.New()

	t.Run("inserts into the actor's camping", func(t *testing.T) {
		repo, mem, mock, mockDB := newMockAreaRepository(t)
		defer mockDB.Close()

		area, err := camping.NewArea(testPolygon(), nil, testMoney(t))
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "campings" WHERE id = \$1 AND deleted_at IS NULL AND user_id = \$2`).
			WithArgs(campingID, actor).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectExec(`INSERT INTO "areas"`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		created, err := repo.Create(context.Background(), actor, area, campingID)
		require.NoError(t, err)
		assert.Equal(t, campingID, created.CampingID)

		var cached camping.Area
		assert.True(t, mem.Get(context.Background(), "area:"+created.ID.String(), &cached))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("someone else's camping is not found", func(t *testing.T) {
		repo, _, mock, mockDB := newMockAreaRepository(t)
		defer mockDB.Close()

		area, err := camping.NewArea(testPolygon(), nil, testMoney(t))
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "campings" WHERE id = \$1 AND deleted_at IS NULL AND user_id = \$2`).
			WithArgs(campingID, actor).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		created, err := repo.Create(context.Background(), actor, area, campingID)
		assert.Nil(t, created)
		assert.True(t, shared.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a negative price", func(t *testing.T) {
		repo, _, mock, mockDB := newMockAreaRepository(t)
		defer mockDB.Close()

		area := &camping.Area{
			BaseEntity: shared.NewBaseEntity(),
			Polygon:    testPolygon(),
			Price:      valueobject.Money{Amount: decimal.NewFromInt(-1), Currency: valueobject.EUR},
		}

		created, err := repo.Create(context.Background(), actor, area, campingID)
		assert.Nil(t, created)
		assert.True(t, shared.IsValidation(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAreaRepository_Update(t *testing.T) {
	actor := uuid.New()
	areaID := uuid.New()

	t.Run("reprices an area in the actor's camping", func(t *testing.T) {
		repo, _, mock, mockDB := newMockAreaRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "areas" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT \* FROM "areas" WHERE id = \$1 AND deleted_at IS NULL AND camping_id IN \(SELECT id FROM "campings" WHERE user_id = \$2 AND deleted_at IS NULL\) ORDER BY "areas"\."id" LIMIT \$3`).
			WithArgs(areaID, actor, 1).
			WillReturnRows(areaRow(areaID))

		price := testMoney(t)
		got, err := repo.Update(context.Background(), actor, areaID, camping.UpdateArea{Price: &price})
		require.NoError(t, err)
		assert.Equal(t, areaID, got.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("an area outside the actor's campings is not found", func(t *testing.T) {
		repo, _, mock, mockDB := newMockAreaRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "areas" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		price := testMoney(t)
		got, err := repo.Update(context.Background(), actor, areaID, camping.UpdateArea{Price: &price})
		assert.Nil(t, got)
		assert.True(t, shared.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAreaRepository_Delete(t *testing.T) {
	actor := uuid.New()
	areaID := uuid.New()

	t.Run("soft deletes an area in the actor's camping", func(t *testing.T) {
		repo, _, mock, mockDB := newMockAreaRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "areas" WHERE id = \$1 AND deleted_at IS NULL AND camping_id IN \(SELECT id FROM "campings" WHERE user_id = \$2 AND deleted_at IS NULL\) ORDER BY "areas"\."id" LIMIT \$3`).
			WithArgs(areaID, actor, 1).
			WillReturnRows(areaRow(areaID))
		mock.ExpectExec(`UPDATE "areas" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		got, err := repo.Delete(context.Background(), actor, areaID)
		require.NoError(t, err)
		require.NotNil(t, got.DeletedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("an area outside the actor's campings is not found", func(t *testing.T) {
		repo, _, mock, mockDB := newMockAreaRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "areas" WHERE id = \$1 AND deleted_at IS NULL AND camping_id IN \(SELECT id FROM "campings" WHERE user_id = \$2 AND deleted_at IS NULL\) ORDER BY "areas"\."id" LIMIT \$3`).
			WithArgs(areaID, actor, 1).
			WillReturnRows(sqlmock.NewRows(areaColumns()))

		got, err := repo.Delete(context.Background(), actor, areaID)
		assert.Nil(t, got)
		assert.True(t, shared.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAreaRepository_Filter(t *testing.T) {
	actor := uuid.New()
	campingID := uuid.New()

	t.Run("filters by owning camping and caches the result", func(t *testing.T) {
		repo, _, mock, mockDB := newMockAreaRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "areas" WHERE deleted_at IS NULL AND camping_id = \$1 ORDER BY created_at ASC`).
			WithArgs(campingID).
			WillReturnRows(areaRow(uuid.New()))

		first, err := repo.Filter(context.Background(), actor, camping.FilterArea{CampingID: &campingID})
		require.NoError(t, err)
		require.Len(t, first, 1)

		second, err := repo.Filter(context.Background(), actor, camping.FilterArea{CampingID: &campingID})
		require.NoError(t, err)
		assert.Equal(t, first[0].ID, second[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
