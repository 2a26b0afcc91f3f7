package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpulse/pos-insights/internal/domain"
)

func saleOn(day string, net, gross, qty float64) domain.SaleRecord {
	date, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return domain.SaleRecord{
		Symbol:     "SKU-1",
		SoldAt:     date,
		NetValue:   net,
		GrossValue: gross,
		Quantity:   qty,
		Source:     domain.SourceTransaction,
	}
}

func TestAggregateDailyScenario(t *testing.T) {
	records := []domain.SaleRecord{
		saleOn("2024-01-01", 100, 123, 2),
		saleOn("2024-01-01", 50, 61.5, 1),
	}

	buckets, excluded := Aggregate(records, GranularityDay)
	require.Len(t, buckets, 1)
	assert.Zero(t, excluded)
	assert.Equal(t, "2024-01-01", buckets[0].Key)
	assert.Equal(t, 150.0, buckets[0].TotalNet)
	assert.Equal(t, 184.5, buckets[0].TotalGross)
	assert.Equal(t, 3.0, buckets[0].TotalQuantity)
}

func TestAggregateExcludesRecordsWithoutDate(t *testing.T) {
	records := []domain.SaleRecord{
		saleOn("2024-03-05", 10, 12.3, 1),
		{Symbol: "SKU-2", NetValue: 99, Quantity: 4}, // no SoldAt, no UpdatedAt
	}

	buckets, excluded := Aggregate(records, GranularityDay)
	assert.Len(t, buckets, 1)
	assert.Equal(t, 1, excluded)
	assert.Equal(t, 1.0, buckets[0].TotalQuantity)
}

func TestAggregateFallsBackToUpdatedAt(t *testing.T) {
	record := domain.SaleRecord{
		Symbol:    "SKU-3",
		UpdatedAt: time.Date(2024, 6, 10, 15, 4, 0, 0, time.UTC),
		Quantity:  5,
		Source:    domain.SourceSnapshot,
	}

	buckets, excluded := Aggregate([]domain.SaleRecord{record}, GranularityDay)
	require.Len(t, buckets, 1)
	assert.Zero(t, excluded)
	assert.Equal(t, "2024-06-10", buckets[0].Key)
}

func TestAggregatePartitionProperty(t *testing.T) {
	// Every record lands in exactly one bucket per granularity, so the
	// grand totals must match across all of them.
	records := []domain.SaleRecord{
		saleOn("2023-12-31", 10, 12.3, 1),
		saleOn("2024-01-01", 20, 24.6, 2),
		saleOn("2024-01-15", 30, 36.9, 3),
		saleOn("2024-02-29", 40, 49.2, 4),
		saleOn("2024-12-30", 50, 61.5, 5),
		saleOn("2025-01-01", 60, 73.8, 6),
	}

	var wantQty, wantNet, wantGross float64
	for _, r := range records {
		wantQty += r.Quantity
		wantNet += r.NetValue
		wantGross += r.GrossValue
	}

	for _, g := range []Granularity{GranularityDay, GranularityWeek, GranularityMonth, GranularityYear} {
		buckets, excluded := Aggregate(records, g)
		require.Zero(t, excluded)

		var qty, net, gross float64
		for _, b := range buckets {
			qty += b.TotalQuantity
			net += b.TotalNet
			gross += b.TotalGross
		}
		assert.InDelta(t, wantQty, qty, 1e-9, "granularity %s", g)
		assert.InDelta(t, wantNet, net, 1e-9, "granularity %s", g)
		assert.InDelta(t, wantGross, gross, 1e-9, "granularity %s", g)
	}
}

func TestAggregateWeekKeysUseISOYear(t *testing.T) {
	// 2024-12-30 and 2025-01-01 share ISO week 2025-W01 and must collapse
	// into a single bucket.
	records := []domain.SaleRecord{
		saleOn("2024-12-30", 10, 12, 1),
		saleOn("2025-01-01", 10, 12, 1),
	}

	buckets, _ := Aggregate(records, GranularityWeek)
	require.Len(t, buckets, 1)
	assert.Equal(t, "2025-W01", buckets[0].Key)
	assert.Equal(t, 2.0, buckets[0].TotalQuantity)
}

func TestAggregateSortedAndIdempotent(t *testing.T) {
	records := []domain.SaleRecord{
		saleOn("2024-03-05", 1, 1, 1),
		saleOn("2024-01-02", 1, 1, 1),
		saleOn("2024-02-11", 1, 1, 1),
	}

	first, _ := Aggregate(records, GranularityDay)
	second, _ := Aggregate(records, GranularityDay)
	assert.Equal(t, first, second)

	for i := 1; i < len(first); i++ {
		assert.Less(t, first[i-1].Key, first[i].Key)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	buckets, excluded := Aggregate(nil, GranularityMonth)
	assert.Empty(t, buckets)
	assert.Zero(t, excluded)
}

func TestParseGranularity(t *testing.T) {
	g, ok := ParseGranularity("")
	assert.True(t, ok)
	assert.Equal(t, GranularityDay, g)

	g, ok = ParseGranularity("month")
	assert.True(t, ok)
	assert.Equal(t, GranularityMonth, g)

	_, ok = ParseGranularity("decade")
	assert.False(t, ok)
}

func TestWeeklySalesBySymbol(t *testing.T) {
	records := []domain.SaleRecord{
		saleOn("2024-01-01", 1, 1, 2),
		saleOn("2024-01-03", 1, 1, 3),
		{Symbol: "SKU-9", SoldAt: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), Quantity: 7},
		{Symbol: "SKU-9", Quantity: 1}, // unresolvable date
	}

	bySymbol, excluded := WeeklySalesBySymbol(records)
	assert.Equal(t, 1, excluded)
	require.Contains(t, bySymbol, "SKU-1")
	require.Contains(t, bySymbol, "SKU-9")
	assert.Equal(t, 5.0, bySymbol["SKU-1"][YearWeek{Year: 2024, Week: 1}])
	assert.Equal(t, 7.0, bySymbol["SKU-9"][YearWeek{Year: 2024, Week: 2}])
}
