package metrics

import (
	"math"
	"time"

	"github.com/retailpulse/pos-insights/internal/domain"
)

// MinStockPolicy holds the global replenishment knobs. Both horizons are
// whole ISO weeks; they are call-level policy, not per-product settings.
type MinStockPolicy struct {
	StockWeeks    int // safety stock horizon
	DeliveryWeeks int // supplier lead time
}

// DefaultMinStockPolicy covers two weeks of safety stock on a two-week lead
// time.
func DefaultMinStockPolicy() MinStockPolicy {
	return MinStockPolicy{StockWeeks: 2, DeliveryWeeks: 2}
}

// Horizon is the number of ISO weeks a recommendation must cover.
func (p MinStockPolicy) Horizon() int {
	h := p.StockWeeks + p.DeliveryWeeks
	if h < 1 {
		h = 1
	}
	return h
}

// RecommendMinStock sizes the reorder point for the worst week inside the
// coverage horizon rather than the average week, so a seasonal spike that
// falls inside the lead time does not cause a stockout. The scan starts at
// the ISO week containing now and covers the next Horizon weeks. History
// never contains future weeks, so each horizon week reads the same ISO week
// of the most recent year that recorded it; when no year did, the index
// defaults to 1.
func RecommendMinStock(profile domain.SeasonalityProfile, currentStock float64, policy MinStockPolicy, now time.Time) domain.MinStockRecommendation {
	horizon := policy.Horizon()

	indexByWeek := make(map[YearWeek]float64, len(profile.Weekly))
	for _, w := range profile.Weekly {
		indexByWeek[YearWeek{Year: w.ISOYear, Week: w.ISOWeek}] = w.Index
	}

	maxIndex := 0.0
	found := false
	year, week := ISOYearWeek(now)
	for i := 0; i < horizon; i++ {
		if idx, ok := latestIndexForWeek(indexByWeek, year, week); ok {
			found = true
			if idx > maxIndex {
				maxIndex = idx
			}
		}
		year, week = NextISOWeek(year, week)
	}
	if !found {
		maxIndex = 1
	}

	recommended := int(math.Ceil(profile.AnnualAverage * maxIndex * float64(horizon)))

	toOrder := 0
	if diff := float64(recommended) - currentStock; diff > 0 {
		toOrder = int(math.Ceil(diff))
	}

	return domain.MinStockRecommendation{
		Symbol:             profile.Symbol,
		AnnualAverage:      profile.AnnualAverage,
		MaxIndex:           maxIndex,
		HorizonWeeks:       horizon,
		RecommendedMinimum: recommended,
		CurrentStock:       currentStock,
		ToOrder:            toOrder,
	}
}

// latestIndexForWeek resolves an ISO week number against the most recent
// year that recorded it, walking back through the profile window. Week 53
// simply has no entry in years without one.
func latestIndexForWeek(indexByWeek map[YearWeek]float64, year, week int) (float64, bool) {
	for y := year; y > year-4; y-- {
		if idx, ok := indexByWeek[YearWeek{Year: y, Week: week}]; ok {
			return idx, true
		}
	}
	return 0, false
}
