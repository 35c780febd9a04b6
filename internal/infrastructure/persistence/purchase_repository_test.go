package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/essentials/backend/internal/domain/purchase"
	"github.com/essentials/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockPurchaseRepository creates a GormPurchaseRepository with a mocked SQL connection
func newMockPurchaseRepository(t *testing.T) (*GormPurchaseRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormPurchaseRepository(gormDB), mock, mockDB
}

func purchaseRows(purchaseID, organizationID, storageLocationID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "organization_id", "storage_location_id", "amount_spent_cents", "issued_at", "version"}).
		AddRow(purchaseID, organizationID, storageLocationID, int64(450), time.Now(), 1)
}

func TestGormPurchaseRepository_FindByID(t *testing.T) {
	t.Run("finds existing purchase with line items", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		purchaseID := uuid.New()
		organizationID := uuid.New()
		storageLocationID := uuid.New()
		itemID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "purchases" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(purchaseID, 1).
			WillReturnRows(purchaseRows(purchaseID, organizationID, storageLocationID))

		lineItemRows := sqlmock.NewRows([]string{"id", "purchase_id", "item_id", "quantity"}).
			AddRow(uuid.New(), purchaseID, itemID, int64(3))
		mock.ExpectQuery(`SELECT \* FROM "purchase_line_items" WHERE "purchase_line_items"\."purchase_id" = \$1`).
			WithArgs(purchaseID).
			WillReturnRows(lineItemRows)

		p, err := repo.FindByID(context.Background(), purchaseID)

		assert.NoError(t, err)
		assert.NotNil(t, p)
		assert.Equal(t, purchaseID, p.ID)
		require.Len(t, p.LineItems, 1)
		assert.Equal(t, itemID, p.LineItems[0].ItemID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent purchase", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		purchaseID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "purchases" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(purchaseID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		p, err := repo.FindByID(context.Background(), purchaseID)

		assert.Error(t, err)
		assert.Nil(t, p)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPurchaseRepository_FindByIDForOrg(t *testing.T) {
	t.Run("finds purchase within organization", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		purchaseID := uuid.New()
		organizationID := uuid.New()
		storageLocationID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "purchases" WHERE organization_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(organizationID, purchaseID, 1).
			WillReturnRows(purchaseRows(purchaseID, organizationID, storageLocationID))

		mock.ExpectQuery(`SELECT \* FROM "purchase_line_items"`).
			WithArgs(purchaseID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "purchase_id", "item_id", "quantity"}))

		p, err := repo.FindByIDForOrg(context.Background(), organizationID, purchaseID)

		assert.NoError(t, err)
		assert.NotNil(t, p)
		assert.Equal(t, organizationID, p.OrganizationID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("does not see another organization's purchase", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		purchaseID := uuid.New()
		organizationID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "purchases" WHERE organization_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(organizationID, purchaseID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		p, err := repo.FindByIDForOrg(context.Background(), organizationID, purchaseID)

		assert.Error(t, err)
		assert.Nil(t, p)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPurchaseRepository_FindByIssuedRange(t *testing.T) {
	t.Run("both bounds are inclusive", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		organizationID := uuid.New()
		from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT \* FROM "purchases" WHERE organization_id = \$1 AND issued_at >= \$2 AND issued_at <= \$3`).
			WithArgs(organizationID, from, to).
			WillReturnRows(purchaseRows(uuid.New(), organizationID, uuid.New()))

		mock.ExpectQuery(`SELECT \* FROM "purchase_line_items"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "purchase_id", "item_id", "quantity"}))

		purchases, err := repo.FindByIssuedRange(context.Background(), organizationID, from, to, shared.Filter{})

		assert.NoError(t, err)
		assert.Len(t, purchases, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPurchaseRepository_Save(t *testing.T) {
	t.Run("replaces stored line items", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		p, err := purchase.NewPurchase(uuid.New(), uuid.New())
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "purchases" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "purchase_line_items" WHERE purchase_id = \$1`).
			WithArgs(p.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err = repo.Save(context.Background(), p)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPurchaseRepository_SaveWithLock(t *testing.T) {
	t.Run("rejects stale version", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		p, err := purchase.NewPurchase(uuid.New(), uuid.New())
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "purchases" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = repo.SaveWithLock(context.Background(), p)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("bumps version and rewrites line items", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		p, err := purchase.NewPurchase(uuid.New(), uuid.New())
		require.NoError(t, err)
		require.Equal(t, 1, p.Version)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "purchases" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "purchase_line_items" WHERE purchase_id = \$1`).
			WithArgs(p.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err = repo.SaveWithLock(context.Background(), p)

		assert.NoError(t, err)
		assert.Equal(t, 2, p.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("compares against the version the aggregate was loaded with", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		p, err := purchase.NewPurchase(uuid.New(), uuid.New())
		require.NoError(t, err)
		p.Version = 3 // as read from the stored row

		// Several mutations within one load-save cycle must not move the
		// version the update is matched against
		amount := int64(450)
		require.NoError(t, p.SetAmounts(&amount, 450, 0, 0))
		p.SetComment("restock")
		require.NoError(t, p.ReplaceLineItems(nil))
		require.Equal(t, 3, p.Version)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "purchases" SET`).
			WithArgs(
				sqlmock.AnyArg(), // adult_incontinence_cents
				sqlmock.AnyArg(), // amount_spent_cents
				sqlmock.AnyArg(), // comment
				sqlmock.AnyArg(), // diapers_cents
				sqlmock.AnyArg(), // issued_at
				sqlmock.AnyArg(), // other_cents
				sqlmock.AnyArg(), // purchased_from
				sqlmock.AnyArg(), // updated_at
				sqlmock.AnyArg(), // vendor_id
				4,                // version written
				p.ID,
				3, // version matched
			).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "purchase_line_items" WHERE purchase_id = \$1`).
			WithArgs(p.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err = repo.SaveWithLock(context.Background(), p)

		assert.NoError(t, err)
		assert.Equal(t, 4, p.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPurchaseRepository_Delete(t *testing.T) {
	t.Run("deletes purchase and its line items", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		purchaseID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "purchase_line_items" WHERE purchase_id = \$1`).
			WithArgs(purchaseID).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM "purchases" WHERE id = \$1`).
			WithArgs(purchaseID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Delete(context.Background(), purchaseID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent purchase", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		purchaseID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "purchase_line_items" WHERE purchase_id = \$1`).
			WithArgs(purchaseID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM "purchases" WHERE id = \$1`).
			WithArgs(purchaseID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), purchaseID)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPurchaseRepository_CountForOrg(t *testing.T) {
	t.Run("counts purchases for organization", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		organizationID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "purchases" WHERE organization_id = \$1`).
			WithArgs(organizationID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))

		count, err := repo.CountForOrg(context.Background(), organizationID, shared.Filter{})

		assert.NoError(t, err)
		assert.Equal(t, int64(9), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies vendor filter", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		organizationID := uuid.New()
		vendorID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "purchases" WHERE organization_id = \$1 AND vendor_id = \$2`).
			WithArgs(organizationID, vendorID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		filter := shared.Filter{Filters: map[string]interface{}{"vendor_id": vendorID}}
		count, err := repo.CountForOrg(context.Background(), organizationID, filter)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPurchaseRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements PurchaseRepository interface", func(t *testing.T) {
		repo, _, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		var _ purchase.PurchaseRepository = repo
	})
}
