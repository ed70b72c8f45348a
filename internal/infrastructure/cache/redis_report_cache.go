package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// scanBatchSize bounds each SCAN iteration during tenant invalidation
const scanBatchSize = 100

// RedisConfig holds connection settings for the Redis cache
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisReportCache implements ReportCache using Redis
type RedisReportCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	logger     *zap.Logger
}

// RedisReportCacheOption is a functional option for configuring the cache
type RedisReportCacheOption func(*RedisReportCache)

// WithReportCacheLogger sets the logger for the cache
func WithReportCacheLogger(logger *zap.Logger) RedisReportCacheOption {
	return func(c *RedisReportCache) {
		c.logger = logger
	}
}

// NewRedisReportCache creates a new Redis-based report cache
func NewRedisReportCache(cfg RedisConfig, opts ...RedisReportCacheOption) (*RedisReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisReportCache{
		client:     client,
		ownsClient: true,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisReportCacheWithClient creates a cache with an existing Redis client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisReportCacheWithClient(client *redis.Client, opts ...RedisReportCacheOption) *RedisReportCache {
	cache := &RedisReportCache{
		client:     client,
		ownsClient: false,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// cacheKey namespaces payloads per tenant
func (c *RedisReportCache) cacheKey(tenantID uuid.UUID, key string) string {
	return fmt.Sprintf("report:%s:%s", tenantID.String(), key)
}

// tenantPattern matches every cached payload for a tenant
func (c *RedisReportCache) tenantPattern(tenantID uuid.UUID) string {
	return fmt.Sprintf("report:%s:*", tenantID.String())
}

// Get retrieves a cached payload, nil on miss
func (c *RedisReportCache) Get(ctx context.Context, tenantID uuid.UUID, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, c.cacheKey(tenantID, key)).Bytes()
	if err == redis.Nil {
		c.logger.Debug("report cache miss",
			zap.String("tenant_id", tenantID.String()),
			zap.String("key", key),
		)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report from cache: %w", err)
	}
	return data, nil
}

// Set stores a payload with the given TTL
func (c *RedisReportCache) Set(ctx context.Context, tenantID uuid.UUID, key string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	if err := c.client.Set(ctx, c.cacheKey(tenantID, key), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}

// Invalidate removes a single cached payload
func (c *RedisReportCache) Invalidate(ctx context.Context, tenantID uuid.UUID, key string) error {
	if err := c.client.Del(ctx, c.cacheKey(tenantID, key)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate report: %w", err)
	}
	return nil
}

// InvalidateTenant removes every cached payload for a tenant.
// Uses SCAN instead of KEYS so large keyspaces do not block Redis.
func (c *RedisReportCache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	var cursor uint64
	pattern := c.tenantPattern(tenantID)

	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan report keys: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete report keys: %w", err)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.logger.Debug("invalidated tenant report cache",
		zap.String("tenant_id", tenantID.String()),
	)
	return nil
}

// Close closes the Redis client if this cache owns it
func (c *RedisReportCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// Ensure RedisReportCache implements ReportCache
var _ ReportCache = (*RedisReportCache)(nil)
