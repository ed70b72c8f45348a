package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryReportCache_SetAndGet(t *testing.T) {
	cache := NewInMemoryReportCache()
	defer cache.Close()

	ctx := context.Background()
	tenantID := uuid.New()

	err := cache.Set(ctx, tenantID, "dashboard", []byte(`{"deals":5}`), time.Minute)
	require.NoError(t, err)

	payload, err := cache.Get(ctx, tenantID, "dashboard")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"deals":5}`), payload)
}

func TestInMemoryReportCache_MissReturnsNil(t *testing.T) {
	cache := NewInMemoryReportCache()
	defer cache.Close()

	payload, err := cache.Get(context.Background(), uuid.New(), "dashboard")

	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestInMemoryReportCache_Expiration(t *testing.T) {
	cache := NewInMemoryReportCache()
	defer cache.Close()

	ctx := context.Background()
	tenantID := uuid.New()

	require.NoError(t, cache.Set(ctx, tenantID, "dashboard", []byte("stale"), 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	payload, err := cache.Get(ctx, tenantID, "dashboard")
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestInMemoryReportCache_Invalidate(t *testing.T) {
	cache := NewInMemoryReportCache()
	defer cache.Close()

	ctx := context.Background()
	tenantID := uuid.New()

	require.NoError(t, cache.Set(ctx, tenantID, "dashboard", []byte("data"), time.Minute))
	require.NoError(t, cache.Invalidate(ctx, tenantID, "dashboard"))

	payload, err := cache.Get(ctx, tenantID, "dashboard")
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestInMemoryReportCache_InvalidateTenant(t *testing.T) {
	cache := NewInMemoryReportCache()
	defer cache.Close()

	ctx := context.Background()
	tenantA := uuid.New()
	tenantB := uuid.New()

	require.NoError(t, cache.Set(ctx, tenantA, "dashboard", []byte("a1"), time.Minute))
	require.NoError(t, cache.Set(ctx, tenantA, "pipeline", []byte("a2"), time.Minute))
	require.NoError(t, cache.Set(ctx, tenantB, "dashboard", []byte("b1"), time.Minute))

	require.NoError(t, cache.InvalidateTenant(ctx, tenantA))

	payload, err := cache.Get(ctx, tenantA, "dashboard")
	require.NoError(t, err)
	assert.Nil(t, payload)

	payload, err = cache.Get(ctx, tenantA, "pipeline")
	require.NoError(t, err)
	assert.Nil(t, payload)

	// Other tenants are untouched
	payload, err = cache.Get(ctx, tenantB, "dashboard")
	require.NoError(t, err)
	assert.Equal(t, []byte("b1"), payload)
}

func TestInMemoryReportCache_GetReturnsCopy(t *testing.T) {
	cache := NewInMemoryReportCache()
	defer cache.Close()

	ctx := context.Background()
	tenantID := uuid.New()

	require.NoError(t, cache.Set(ctx, tenantID, "dashboard", []byte("original"), time.Minute))

	payload, err := cache.Get(ctx, tenantID, "dashboard")
	require.NoError(t, err)
	payload[0] = 'X'

	fresh, err := cache.Get(ctx, tenantID, "dashboard")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), fresh)
}
