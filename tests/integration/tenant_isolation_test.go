package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizsuite/backend/internal/domain/crm"
	"github.com/bizsuite/backend/internal/domain/hr"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/valueobject"
	"github.com/bizsuite/backend/internal/infrastructure/persistence"
)

// TestDealTenantIsolation verifies that deals saved under one tenant are
// invisible to repository lookups scoped to another tenant.
func TestDealTenantIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	ctx := context.Background()

	tenantA := uuid.New()
	tenantB := uuid.New()
	tdb.CreateTestTenantWithUUID(tenantA)
	tdb.CreateTestTenantWithUUID(tenantB)

	repo := persistence.NewGormDealRepository(tdb.DB)

	deal, err := crm.NewDeal(tenantA, "DEAL-ISO-001", "Isolation Test Deal", "Acme Corp", valueobject.NewMoneyUSDFromFloat(25000))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, deal))

	t.Run("owning tenant can read the deal", func(t *testing.T) {
		found, err := repo.FindByID(ctx, tenantA, deal.ID)
		require.NoError(t, err)
		assert.Equal(t, deal.Code, found.Code)
		assert.Equal(t, deal.Title, found.Title)
	})

	t.Run("other tenant cannot read the deal by ID", func(t *testing.T) {
		_, err := repo.FindByID(ctx, tenantB, deal.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("other tenant cannot read the deal by code", func(t *testing.T) {
		_, err := repo.FindByCode(ctx, tenantB, deal.Code)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("code uniqueness is scoped per tenant", func(t *testing.T) {
		other, err := crm.NewDeal(tenantB, "DEAL-ISO-001", "Same Code Other Tenant", "Globex", valueobject.NewMoneyUSDFromFloat(500))
		require.NoError(t, err)
		assert.NoError(t, repo.Save(ctx, other))
	})

	t.Run("listing only returns the tenant's own deals", func(t *testing.T) {
		deals, err := repo.FindAll(ctx, tenantA, shared.Filter{Page: 1, PageSize: 50})
		require.NoError(t, err)
		for _, d := range deals {
			assert.Equal(t, tenantA, d.TenantID)
		}
	})
}

// TestEmployeeTenantIsolation verifies tenant scoping for HR employee records.
func TestEmployeeTenantIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	ctx := context.Background()

	tenantA := uuid.New()
	tenantB := uuid.New()
	tdb.CreateTestTenantWithUUID(tenantA)
	tdb.CreateTestTenantWithUUID(tenantB)

	repo := persistence.NewGormEmployeeRepository(tdb.DB)

	hireDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	employee, err := hr.NewEmployee(tenantA, "EMP-001", "Dana Reyes", hireDate, valueobject.NewMoneyUSDFromFloat(6500))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, employee))

	t.Run("owning tenant can read the employee", func(t *testing.T) {
		found, err := repo.FindByID(ctx, tenantA, employee.ID)
		require.NoError(t, err)
		assert.Equal(t, employee.Number, found.Number)
	})

	t.Run("other tenant cannot read the employee by ID", func(t *testing.T) {
		_, err := repo.FindByID(ctx, tenantB, employee.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("other tenant cannot read the employee by number", func(t *testing.T) {
		_, err := repo.FindByNumber(ctx, tenantB, employee.Number)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

// TestDealPersistenceRoundTrip exercises save, update, and delete against a
// real PostgreSQL instance.
func TestDealPersistenceRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	ctx := context.Background()

	tenantID := uuid.New()
	tdb.CreateTestTenantWithUUID(tenantID)

	repo := persistence.NewGormDealRepository(tdb.DB)

	deal, err := crm.NewDeal(tenantID, "DEAL-RT-001", "Round Trip", "Initech", valueobject.NewMoneyUSDFromFloat(12000))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, deal))

	// Update persists stage changes
	loaded, err := repo.FindByID(ctx, tenantID, deal.ID)
	require.NoError(t, err)
	require.NoError(t, loaded.Advance(crm.DealStageQualified))
	require.NoError(t, repo.Save(ctx, loaded))

	reloaded, err := repo.FindByID(ctx, tenantID, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, loaded.Stage, reloaded.Stage)

	// Delete removes the row and subsequent lookups fail
	require.NoError(t, repo.Delete(ctx, tenantID, deal.ID))
	_, err = repo.FindByID(ctx, tenantID, deal.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
