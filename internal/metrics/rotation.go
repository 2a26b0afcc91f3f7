package metrics

import (
	"sort"
	"time"

	"github.com/retailpulse/pos-insights/internal/domain"
)

// RotationPolicy names every threshold of the classifier. The day
// boundaries and the dead-stock trigger are business policy, so none of
// them is hardcoded at the call sites.
type RotationPolicy struct {
	// DeadAfterDays: a product with zero consumption and no movement for at
	// least this many days is dead stock.
	DeadAfterDays int
	// NewProductAgeDays: products first stocked within this many days are
	// classified through the NEW_* branch.
	NewProductAgeDays int
	// NewGraceDays: a new product without sales is plain NEW until this
	// age, NEW_NO_SALES afterwards.
	NewGraceDays int
	// Days-of-stock upper bounds for the consumption-based buckets.
	// daysOfStock < VeryFastMaxDays => VERY_FAST, and so on; at or above
	// SlowMaxDays the product is VERY_SLOW.
	VeryFastMaxDays int
	FastMaxDays     int
	NormalMaxDays   int
	SlowMaxDays     int
	// TopFrozenCount limits the per-category drill-down list.
	TopFrozenCount int
}

// DefaultRotationPolicy mirrors the thresholds the dashboard ships with:
// 90-day dead-stock trigger, 30-day new-product window with a 14-day grace
// period, and 30/60/120/240 day rotation boundaries.
func DefaultRotationPolicy() RotationPolicy {
	return RotationPolicy{
		DeadAfterDays:     90,
		NewProductAgeDays: 30,
		NewGraceDays:      14,
		VeryFastMaxDays:   30,
		FastMaxDays:       60,
		NormalMaxDays:     120,
		SlowMaxDays:       240,
		TopFrozenCount:    10,
	}
}

// RotationInput is the per-product data the classifier needs.
type RotationInput struct {
	Symbol           string
	Name             string
	CurrentStock     float64
	StockValue       float64
	DaysNoMovement   int
	DaysSinceStocked int
	DailyConsumption float64
	HasEverSold      bool
}

// unknownStockAge stands in for a missing intake date. It is far above any
// plausible new-product window, so products of unknown age never classify
// through the NEW branch.
const unknownStockAge = 1 << 20

// RotationInputFromSnapshot derives classifier input from a stock snapshot,
// with daily consumption taken from the trailing 90-day sales. A snapshot
// without a first-stocked date is treated as established stock, not new.
func RotationInputFromSnapshot(s domain.StockSnapshot, now time.Time) RotationInput {
	input := RotationInput{
		Symbol:           s.Symbol,
		Name:             s.Name,
		CurrentStock:     s.CurrentStock,
		StockValue:       s.StockValue,
		DailyConsumption: s.Sales90Days / 90,
		HasEverSold:      s.LifetimeSales > 0,
		DaysSinceStocked: unknownStockAge,
	}
	if !s.LastMovementAt.IsZero() {
		input.DaysNoMovement = daysBetween(s.LastMovementAt, now)
	}
	if !s.FirstStockedAt.IsZero() {
		input.DaysSinceStocked = daysBetween(s.FirstStockedAt, now)
	}
	return input
}

func daysBetween(from, to time.Time) int {
	d := int(to.Sub(from).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// DaysOfStock estimates the runway before stockout. Zero consumption means
// no finite runway; callers treat that through the dead/very-slow branch
// instead of dividing by zero.
func (in RotationInput) DaysOfStock() float64 {
	if in.DailyConsumption <= 0 {
		return 0
	}
	return in.CurrentStock / in.DailyConsumption
}

// Classify assigns a product to exactly one rotation category.
func Classify(in RotationInput, p RotationPolicy) domain.RotationCategory {
	if in.DaysSinceStocked <= p.NewProductAgeDays {
		switch {
		case !in.HasEverSold && in.DaysSinceStocked <= p.NewGraceDays:
			return domain.RotationNew
		case !in.HasEverSold:
			return domain.RotationNewNoSales
		case in.DailyConsumption > 0 && in.DaysOfStock() < float64(p.NormalMaxDays):
			return domain.RotationNewSelling
		default:
			return domain.RotationNewSlow
		}
	}

	if in.DailyConsumption <= 0 {
		if in.DaysNoMovement >= p.DeadAfterDays {
			return domain.RotationDead
		}
		return domain.RotationVerySlow
	}

	days := in.DaysOfStock()
	switch {
	case days < float64(p.VeryFastMaxDays):
		return domain.RotationVeryFast
	case days < float64(p.FastMaxDays):
		return domain.RotationFast
	case days < float64(p.NormalMaxDays):
		return domain.RotationNormal
	case days < float64(p.SlowMaxDays):
		return domain.RotationSlow
	default:
		return domain.RotationVerySlow
	}
}

// BuildRotationReport classifies every product and aggregates frozen
// capital per category. Categories always partition the input set, so the
// category value totals sum to the warehouse total.
func BuildRotationReport(inputs []RotationInput, p RotationPolicy) domain.RotationReport {
	type bucket struct {
		summary  domain.RotationSummary
		products []domain.RotationProduct
		daysMove int
		daysStk  float64
	}

	buckets := make(map[domain.RotationCategory]*bucket, len(domain.RotationCategories))
	for _, cat := range domain.RotationCategories {
		buckets[cat] = &bucket{summary: domain.RotationSummary{Category: cat, Label: cat.Label()}}
	}

	report := domain.RotationReport{TotalProducts: len(inputs)}

	for _, in := range inputs {
		cat := Classify(in, p)
		b := buckets[cat]

		product := domain.RotationProduct{
			Symbol:           in.Symbol,
			Name:             in.Name,
			Category:         cat,
			CurrentStock:     in.CurrentStock,
			StockValue:       in.StockValue,
			DaysNoMovement:   in.DaysNoMovement,
			DaysOfStock:      in.DaysOfStock(),
			DailyConsumption: in.DailyConsumption,
		}

		b.products = append(b.products, product)
		b.summary.ProductCount++
		b.summary.TotalQuantity += in.CurrentStock
		b.summary.TotalValue += in.StockValue
		b.daysMove += in.DaysNoMovement
		b.daysStk += product.DaysOfStock

		report.TotalValue += in.StockValue
	}

	for _, cat := range domain.RotationCategories {
		b := buckets[cat]
		if b.summary.ProductCount > 0 {
			n := float64(b.summary.ProductCount)
			b.summary.AvgDaysNoMove = float64(b.daysMove) / n
			b.summary.AvgDaysOfStock = b.daysStk / n
		}

		sort.Slice(b.products, func(i, j int) bool {
			return b.products[i].StockValue > b.products[j].StockValue
		})
		top := p.TopFrozenCount
		if top <= 0 || top > len(b.products) {
			top = len(b.products)
		}
		b.summary.TopFrozenCapital = b.products[:top]

		report.Categories = append(report.Categories, b.summary)
	}

	return report
}
