package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// janitorInterval is how often expired entries are swept
const janitorInterval = time.Minute

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// InMemoryReportCache implements ReportCache with a process-local map.
// Suitable for single-instance deployments and tests; entries are not
// shared across processes.
type InMemoryReportCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	stop    chan struct{}
	once    sync.Once
}

// NewInMemoryReportCache creates a new in-memory report cache
func NewInMemoryReportCache() *InMemoryReportCache {
	c := &InMemoryReportCache{
		entries: make(map[string]memoryEntry),
		stop:    make(chan struct{}),
	}
	go c.janitor()
	return c
}

func (c *InMemoryReportCache) cacheKey(tenantID uuid.UUID, key string) string {
	return tenantID.String() + ":" + key
}

// Get retrieves a cached payload, nil on miss
func (c *InMemoryReportCache) Get(_ context.Context, tenantID uuid.UUID, key string) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.entries[c.cacheKey(tenantID, key)]
	c.mu.RUnlock()

	if !ok || entry.expired(time.Now()) {
		return nil, nil
	}

	payload := make([]byte, len(entry.payload))
	copy(payload, entry.payload)
	return payload, nil
}

// Set stores a payload with the given TTL
func (c *InMemoryReportCache) Set(_ context.Context, tenantID uuid.UUID, key string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}

	stored := make([]byte, len(payload))
	copy(stored, payload)

	c.mu.Lock()
	c.entries[c.cacheKey(tenantID, key)] = memoryEntry{
		payload:   stored,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
	return nil
}

// Invalidate removes a single cached payload
func (c *InMemoryReportCache) Invalidate(_ context.Context, tenantID uuid.UUID, key string) error {
	c.mu.Lock()
	delete(c.entries, c.cacheKey(tenantID, key))
	c.mu.Unlock()
	return nil
}

// InvalidateTenant removes every cached payload for a tenant
func (c *InMemoryReportCache) InvalidateTenant(_ context.Context, tenantID uuid.UUID) error {
	prefix := tenantID.String() + ":"

	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
	return nil
}

// Close stops the background janitor
func (c *InMemoryReportCache) Close() error {
	c.once.Do(func() {
		close(c.stop)
	})
	return nil
}

// janitor periodically sweeps expired entries
func (c *InMemoryReportCache) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, entry := range c.entries {
				if entry.expired(now) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// Ensure InMemoryReportCache implements ReportCache
var _ ReportCache = (*InMemoryReportCache)(nil)
