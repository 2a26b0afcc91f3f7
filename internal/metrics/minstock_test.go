package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/retailpulse/pos-insights/internal/domain"
)

func TestRecommendMinStockScenario(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	year, week := ISOYearWeek(now)

	profile := domain.SeasonalityProfile{
		Symbol:        "SKU-1",
		AnnualAverage: 10,
		HasData:       true,
		Weekly: []domain.WeeklyIndex{
			{ISOYear: year, ISOWeek: week, Index: 2.0},
		},
	}

	rec := RecommendMinStock(profile, 15, MinStockPolicy{StockWeeks: 1, DeliveryWeeks: 1}, now)
	assert.Equal(t, 2, rec.HorizonWeeks)
	assert.Equal(t, 2.0, rec.MaxIndex)
	assert.Equal(t, 40, rec.RecommendedMinimum)
	assert.Equal(t, 25, rec.ToOrder)
}

func TestRecommendMinStockTakesWorstWeekInHorizon(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	year, week := ISOYearWeek(now)
	nextYear, nextWeek := NextISOWeek(year, week)

	profile := domain.SeasonalityProfile{
		Symbol:        "SKU-1",
		AnnualAverage: 10,
		Weekly: []domain.WeeklyIndex{
			{ISOYear: year, ISOWeek: week, Index: 0.5},
			{ISOYear: nextYear, ISOWeek: nextWeek, Index: 3.0},
		},
	}

	rec := RecommendMinStock(profile, 0, MinStockPolicy{StockWeeks: 1, DeliveryWeeks: 1}, now)
	assert.Equal(t, 3.0, rec.MaxIndex)
	assert.Equal(t, 60, rec.RecommendedMinimum)
	assert.Equal(t, 60, rec.ToOrder)
}

func TestRecommendMinStockReadsPriorYearSpike(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	year, week := ISOYearWeek(now)
	_, nextWeek := NextISOWeek(year, week)

	// A year of flat weekly demand, except a spike recorded last year in
	// the ISO week that now falls inside the coverage horizon. History
	// holds no future weeks, so the scan must read last year's entry.
	var records []domain.SaleRecord
	for w := 1; w <= 52; w++ {
		soldAt := now.AddDate(0, 0, -7*w)
		qty := 10.0
		if _, isoW := ISOYearWeek(soldAt); isoW == nextWeek {
			qty = 50
		}
		records = append(records, domain.SaleRecord{Symbol: "SKU-1", SoldAt: soldAt, Quantity: qty})
	}

	profiles := BuildProfiles(records, now, DefaultSeasonalityConfig())
	rec := RecommendMinStock(profiles["SKU-1"], 0, MinStockPolicy{StockWeeks: 1, DeliveryWeeks: 1}, now)

	assert.Greater(t, rec.MaxIndex, 3.0, "last year's spike inside the horizon drives the maximum")
	assert.Greater(t, rec.RecommendedMinimum, 80)
}

func TestRecommendMinStockDefaultsIndexWithoutData(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	profile := domain.SeasonalityProfile{Symbol: "SKU-1", AnnualAverage: 8}
	rec := RecommendMinStock(profile, 100, MinStockPolicy{StockWeeks: 2, DeliveryWeeks: 2}, now)

	assert.Equal(t, 1.0, rec.MaxIndex)
	assert.Equal(t, 32, rec.RecommendedMinimum)
	assert.Zero(t, rec.ToOrder, "stock above recommendation orders nothing")
}

func TestRecommendMinStockZeroAverage(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	profile := domain.SeasonalityProfile{Symbol: "SKU-DEAD"}
	rec := RecommendMinStock(profile, 5, DefaultMinStockPolicy(), now)

	assert.Zero(t, rec.RecommendedMinimum)
	assert.Zero(t, rec.ToOrder)
}

func TestMinStockPolicyHorizonClamp(t *testing.T) {
	assert.Equal(t, 1, MinStockPolicy{}.Horizon())
	assert.Equal(t, 4, DefaultMinStockPolicy().Horizon())
}
