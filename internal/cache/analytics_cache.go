package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/retailpulse/pos-insights/internal/config"
	"github.com/retailpulse/pos-insights/internal/domain"
)

const (
	analyticsKeyPrefix = "analytics"
	scanBatchSize      = 100
)

// AnalyticsCache stores serialized report payloads for a short TTL. A cache
// failure is never fatal to a request; callers log and fall through to the
// repository.
type AnalyticsCache interface {
	GetJSON(ctx context.Context, report string, filter domain.SalesFilter, out interface{}) (bool, error)
	SetJSON(ctx context.Context, report string, filter domain.SalesFilter, value interface{}) error
	InvalidateAll(ctx context.Context) error
}

type redisAnalyticsCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopAnalyticsCache struct{}

// NewAnalyticsCache connects to redis when caching is enabled and falls
// back to a noop implementation otherwise.
func NewAnalyticsCache(cfg config.CacheConfig) (AnalyticsCache, error) {
	if !cfg.Enabled {
		return &noopAnalyticsCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisAnalyticsCache{client: client, ttl: ttl}, nil
}

// NewNoopAnalyticsCache returns the do-nothing cache.
func NewNoopAnalyticsCache() AnalyticsCache {
	return &noopAnalyticsCache{}
}

// NewRedisAnalyticsCache wraps an existing client; used by tests.
func NewRedisAnalyticsCache(client *redis.Client, ttl time.Duration) AnalyticsCache {
	if ttl <= 0 {
		ttl = defaultReportTTL
	}
	return &redisAnalyticsCache{client: client, ttl: ttl}
}

func (c *redisAnalyticsCache) GetJSON(ctx context.Context, report string, filter domain.SalesFilter, out interface{}) (bool, error) {
	payload, err := c.client.Get(ctx, buildKey(report, filter)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return false, fmt.Errorf("decode %s cache: %w", report, err)
	}
	return true, nil
}

func (c *redisAnalyticsCache) SetJSON(ctx context.Context, report string, filter domain.SalesFilter, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s cache: %w", report, err)
	}

	if err := c.client.Set(ctx, buildKey(report, filter), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisAnalyticsCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, analyticsKeyPrefix+":", scanBatchSize)
}

func (n *noopAnalyticsCache) GetJSON(ctx context.Context, report string, filter domain.SalesFilter, out interface{}) (bool, error) {
	return false, nil
}

func (n *noopAnalyticsCache) SetJSON(ctx context.Context, report string, filter domain.SalesFilter, value interface{}) error {
	return nil
}

func (n *noopAnalyticsCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildKey(report string, filter domain.SalesFilter) string {
	return fmt.Sprintf("%s:%s:%s", analyticsKeyPrefix, report, filterHash(filter))
}

func filterHash(filter domain.SalesFilter) string {
	parts := []string{}

	if len(filter.Symbols) > 0 {
		symbols := append([]string(nil), filter.Symbols...)
		sort.Strings(symbols)
		parts = append(parts, "symbols="+strings.Join(symbols, ","))
	}
	if !filter.From.IsZero() {
		parts = append(parts, "from="+filter.From.Format(time.RFC3339))
	}
	if !filter.To.IsZero() {
		parts = append(parts, "to="+filter.To.Format(time.RFC3339))
	}
	if filter.Source != "" {
		parts = append(parts, "source="+strings.ToLower(filter.Source))
	}

	if len(parts) == 0 {
		return "all"
	}

	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
