// Package cache provides caching for computed dashboard and report
// payloads. Reports are expensive tenant-wide aggregations, so results
// are cached per tenant and invalidated when underlying data changes.
package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultReportTTL is how long a cached report stays fresh
const DefaultReportTTL = 5 * time.Minute

// ReportCache caches serialized report payloads per tenant.
// Get returns (nil, nil) on a cache miss.
type ReportCache interface {
	// Get retrieves a cached payload, nil on miss
	Get(ctx context.Context, tenantID uuid.UUID, key string) ([]byte, error)

	// Set stores a payload with the given TTL
	Set(ctx context.Context, tenantID uuid.UUID, key string, payload []byte, ttl time.Duration) error

	// Invalidate removes a single cached payload
	Invalidate(ctx context.Context, tenantID uuid.UUID, key string) error

	// InvalidateTenant removes every cached payload for a tenant
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error

	// Close releases resources held by the cache
	Close() error
}
