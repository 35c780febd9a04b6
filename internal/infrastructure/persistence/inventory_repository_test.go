package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/essentials/backend/internal/domain/inventory"
	"github.com/essentials/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockInventoryItemRepository creates a GormInventoryItemRepository with a mocked SQL connection
func newMockInventoryItemRepository(t *testing.T) (*GormInventoryItemRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormInventoryItemRepository(gormDB), mock, mockDB
}

func inventoryRows(recordID, organizationID, storageLocationID, itemID uuid.UUID, quantity int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "organization_id", "storage_location_id", "item_id", "quantity", "version"}).
		AddRow(recordID, organizationID, storageLocationID, itemID, quantity, 1)
}

func TestGormInventoryItemRepository_FindByLocationAndItem(t *testing.T) {
	t.Run("finds existing record", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		recordID := uuid.New()
		organizationID := uuid.New()
		storageLocationID := uuid.New()
		itemID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "inventory_items" WHERE organization_id = \$1 AND storage_location_id = \$2 AND item_id = \$3 ORDER BY .* LIMIT .*`).
			WithArgs(organizationID, storageLocationID, itemID, 1).
			WillReturnRows(inventoryRows(recordID, organizationID, storageLocationID, itemID, 25))

		record, err := repo.FindByLocationAndItem(context.Background(), organizationID, storageLocationID, itemID)

		assert.NoError(t, err)
		assert.NotNil(t, record)
		assert.Equal(t, int64(25), record.Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error when no record exists", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "inventory_items" WHERE organization_id = \$1 AND storage_location_id = \$2 AND item_id = \$3 ORDER BY .* LIMIT .*`).
			WillReturnError(gorm.ErrRecordNotFound)

		record, err := repo.FindByLocationAndItem(context.Background(), uuid.New(), uuid.New(), uuid.New())

		assert.Error(t, err)
		assert.Nil(t, record)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryItemRepository_GetOrCreate(t *testing.T) {
	t.Run("returns existing record without insert", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		recordID := uuid.New()
		organizationID := uuid.New()
		storageLocationID := uuid.New()
		itemID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "inventory_items" WHERE organization_id = \$1 AND storage_location_id = \$2 AND item_id = \$3 ORDER BY .* LIMIT .*`).
			WithArgs(organizationID, storageLocationID, itemID, 1).
			WillReturnRows(inventoryRows(recordID, organizationID, storageLocationID, itemID, 12))

		record, err := repo.GetOrCreate(context.Background(), organizationID, storageLocationID, itemID)

		assert.NoError(t, err)
		assert.NotNil(t, record)
		assert.Equal(t, recordID, record.ID)
		assert.Equal(t, int64(12), record.Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inserts empty record when none exists", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		organizationID := uuid.New()
		storageLocationID := uuid.New()
		itemID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "inventory_items"`).
			WillReturnError(gorm.ErrRecordNotFound)
		mock.ExpectExec(`INSERT INTO "inventory_items" .* ON CONFLICT \("storage_location_id","item_id"\) DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT \* FROM "inventory_items"`).
			WillReturnRows(inventoryRows(uuid.New(), organizationID, storageLocationID, itemID, 0))

		record, err := repo.GetOrCreate(context.Background(), organizationID, storageLocationID, itemID)

		assert.NoError(t, err)
		assert.NotNil(t, record)
		assert.Equal(t, int64(0), record.Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryItemRepository_Save(t *testing.T) {
	t.Run("saves record", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		record, err := inventory.NewInventoryItem(uuid.New(), uuid.New(), uuid.New())
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "inventory_items" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Save(context.Background(), record)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryItemRepository_Delete(t *testing.T) {
	t.Run("deletes existing record", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		recordID := uuid.New()

		mock.ExpectExec(`DELETE FROM "inventory_items" WHERE id = \$1`).
			WithArgs(recordID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), recordID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent record", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		recordID := uuid.New()

		mock.ExpectExec(`DELETE FROM "inventory_items" WHERE id = \$1`).
			WithArgs(recordID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), recordID)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryItemRepository_SumQuantityByItem(t *testing.T) {
	t.Run("sums quantity across locations", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		organizationID := uuid.New()
		itemID := uuid.New()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity\), 0\) FROM "inventory_items" WHERE organization_id = \$1 AND item_id = \$2`).
			WithArgs(organizationID, itemID).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(42))

		total, err := repo.SumQuantityByItem(context.Background(), organizationID, itemID)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns zero when no records exist", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity\), 0\) FROM "inventory_items"`).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

		total, err := repo.SumQuantityByItem(context.Background(), uuid.New(), uuid.New())

		assert.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryItemRepository_CountByLocation(t *testing.T) {
	t.Run("counts records at a location", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		organizationID := uuid.New()
		storageLocationID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "inventory_items" WHERE organization_id = \$1 AND storage_location_id = \$2`).
			WithArgs(organizationID, storageLocationID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

		count, err := repo.CountByLocation(context.Background(), organizationID, storageLocationID)

		assert.NoError(t, err)
		assert.Equal(t, int64(5), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryItemRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements InventoryItemRepository interface", func(t *testing.T) {
		repo, _, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		var _ inventory.InventoryItemRepository = repo
	})
}
