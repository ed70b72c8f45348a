package persistence

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// paginationClauses builds the statement in dry-run mode and returns the
// limit clause applyPagination produced
func paginationClauses(t *testing.T, filter shared.Filter) clause.Limit {
	t.Helper()

	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	var rows []map[string]interface{}
	stmt := applyPagination(db.Session(&gorm.Session{DryRun: true}).Table("deals"), filter).
		Find(&rows).Statement

	limitClause, ok := stmt.Clauses["LIMIT"].Expression.(clause.Limit)
	require.True(t, ok, "expected a LIMIT clause on the statement")
	return limitClause
}

func TestApplyPagination_Defaults(t *testing.T) {
	limitClause := paginationClauses(t, shared.Filter{})

	require.NotNil(t, limitClause.Limit)
	assert.Equal(t, 20, *limitClause.Limit)
	assert.Equal(t, 0, limitClause.Offset)
}

func TestApplyPagination_SecondPage(t *testing.T) {
	limitClause := paginationClauses(t, shared.Filter{Page: 3, PageSize: 25})

	require.NotNil(t, limitClause.Limit)
	assert.Equal(t, 25, *limitClause.Limit)
	assert.Equal(t, 50, limitClause.Offset)
}

func TestApplyPagination_OversizedPageSizeKeepsPagesContiguous(t *testing.T) {
	// page 2 with an oversized page_size must start where the capped
	// page 1 ended, not at the raw requested offset
	limitClause := paginationClauses(t, shared.Filter{Page: 2, PageSize: 1000})

	require.NotNil(t, limitClause.Limit)
	assert.Equal(t, 100, *limitClause.Limit)
	assert.Equal(t, 100, limitClause.Offset)
}

func TestApplyPagination_NegativePageClampsToFirst(t *testing.T) {
	limitClause := paginationClauses(t, shared.Filter{Page: -4, PageSize: 10})

	require.NotNil(t, limitClause.Limit)
	assert.Equal(t, 10, *limitClause.Limit)
	assert.Equal(t, 0, limitClause.Offset)
}
