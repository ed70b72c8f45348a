package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bizsuite/backend/internal/domain/crm"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDealRepository creates a GormDealRepository with a mocked SQL connection
func newMockDealRepository(t *testing.T) (*GormDealRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormDealRepository(gormDB), mock, mockDB
}

func TestNewGormDealRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockDealRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormDealRepository_FindByID(t *testing.T) {
	t.Run("finds existing deal", func(t *testing.T) {
		repo, mock, mockDB := newMockDealRepository(t)
		defer mockDB.Close()

		dealID := uuid.New()
		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "code", "title", "customer_name", "amount", "stage", "probability"}).
			AddRow(dealID, tenantID, "deal-001", "Annual license", "Acme Corp", decimal.NewFromInt(5000), "lead", 10)

		mock.ExpectQuery(`SELECT \* FROM "deals" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, dealID, 1).
			WillReturnRows(rows)

		deal, err := repo.FindByID(context.Background(), tenantID, dealID)

		assert.NoError(t, err)
		assert.NotNil(t, deal)
		assert.Equal(t, dealID, deal.ID)
		assert.Equal(t, tenantID, deal.TenantID)
		assert.Equal(t, "deal-001", deal.Code)
		assert.Equal(t, crm.DealStageLead, deal.Stage)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent deal", func(t *testing.T) {
		repo, mock, mockDB := newMockDealRepository(t)
		defer mockDB.Close()

		dealID := uuid.New()
		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "deals" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, dealID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		deal, err := repo.FindByID(context.Background(), tenantID, dealID)

		assert.Error(t, err)
		assert.Nil(t, deal)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDealRepository_FindByCode(t *testing.T) {
	t.Run("matches code case-insensitively", func(t *testing.T) {
		repo, mock, mockDB := newMockDealRepository(t)
		defer mockDB.Close()

		dealID := uuid.New()
		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "code", "title", "customer_name", "amount", "stage", "probability"}).
			AddRow(dealID, tenantID, "deal-001", "Annual license", "Acme Corp", decimal.NewFromInt(5000), "proposal", 40)

		mock.ExpectQuery(`SELECT \* FROM "deals" WHERE tenant_id = \$1 AND LOWER\(code\) = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, "deal-001", 1).
			WillReturnRows(rows)

		deal, err := repo.FindByCode(context.Background(), tenantID, "DEAL-001")

		assert.NoError(t, err)
		assert.NotNil(t, deal)
		assert.Equal(t, "deal-001", deal.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDealRepository_ExistsByCode(t *testing.T) {
	t.Run("returns true when code exists", func(t *testing.T) {
		repo, mock, mockDB := newMockDealRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "deals" WHERE tenant_id = \$1 AND LOWER\(code\) = \$2`).
			WithArgs(tenantID, "deal-001").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByCode(context.Background(), tenantID, "DEAL-001")

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns false when code does not exist", func(t *testing.T) {
		repo, mock, mockDB := newMockDealRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "deals" WHERE tenant_id = \$1 AND LOWER\(code\) = \$2`).
			WithArgs(tenantID, "deal-999").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsByCode(context.Background(), tenantID, "deal-999")

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDealRepository_Delete(t *testing.T) {
	t.Run("returns not found when no rows affected", func(t *testing.T) {
		repo, mock, mockDB := newMockDealRepository(t)
		defer mockDB.Close()

		dealID := uuid.New()
		tenantID := uuid.New()

		mock.ExpectExec(`DELETE FROM "deals" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, dealID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), tenantID, dealID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDealRepository_SummarizeByStage(t *testing.T) {
	t.Run("maps aggregation rows to stage summaries", func(t *testing.T) {
		repo, mock, mockDB := newMockDealRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"stage", "count", "total_amount"}).
			AddRow("lead", 3, decimal.NewFromInt(1500)).
			AddRow("proposal", 1, decimal.NewFromInt(8000))

		mock.ExpectQuery(`SELECT stage, COUNT\(\*\) as count, COALESCE\(SUM\(amount\), 0\) as total_amount FROM "deals" WHERE tenant_id = \$1 GROUP BY .*`).
			WithArgs(tenantID).
			WillReturnRows(rows)

		summaries, err := repo.SummarizeByStage(context.Background(), tenantID)

		assert.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, crm.DealStageLead, summaries[0].Stage)
		assert.Equal(t, int64(3), summaries[0].Count)
		assert.True(t, summaries[0].TotalAmount.Equal(decimal.NewFromInt(1500)))
		assert.Equal(t, crm.DealStageProposal, summaries[1].Stage)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
