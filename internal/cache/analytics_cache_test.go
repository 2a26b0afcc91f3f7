package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpulse/pos-insights/internal/domain"
)

func newTestCache(t *testing.T) AnalyticsCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisAnalyticsCache(client, time.Minute)
}

func TestAnalyticsCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	filter := domain.SalesFilter{Symbols: []string{"SKU-1"}}

	summary := domain.SalesSummary{
		Granularity: "day",
		Buckets:     []domain.TimeBucket{{Key: "2024-01-01", TotalNet: 150, TotalQuantity: 3}},
	}
	require.NoError(t, c.SetJSON(ctx, "sales_summary", filter, summary))

	var got domain.SalesSummary
	hit, err := c.GetJSON(ctx, "sales_summary", filter, &got)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, summary, got)
}

func TestAnalyticsCacheMissOnDifferentFilter(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "sales_summary", domain.SalesFilter{Symbols: []string{"A"}}, domain.SalesSummary{}))

	var got domain.SalesSummary
	hit, err := c.GetJSON(ctx, "sales_summary", domain.SalesFilter{Symbols: []string{"B"}}, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestAnalyticsCacheSymbolOrderInsensitive(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "rotation", domain.SalesFilter{Symbols: []string{"B", "A"}}, domain.RotationReport{TotalProducts: 2}))

	var got domain.RotationReport
	hit, err := c.GetJSON(ctx, "rotation", domain.SalesFilter{Symbols: []string{"A", "B"}}, &got)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, 2, got.TotalProducts)
}

func TestAnalyticsCacheInvalidateAll(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "sales_summary", domain.SalesFilter{}, domain.SalesSummary{Granularity: "day"}))
	require.NoError(t, c.InvalidateAll(ctx))

	var got domain.SalesSummary
	hit, err := c.GetJSON(ctx, "sales_summary", domain.SalesFilter{}, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestNoopAnalyticsCache(t *testing.T) {
	c := NewNoopAnalyticsCache()
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "sales_summary", domain.SalesFilter{}, domain.SalesSummary{}))

	var got domain.SalesSummary
	hit, err := c.GetJSON(ctx, "sales_summary", domain.SalesFilter{}, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
