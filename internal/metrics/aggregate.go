package metrics

import (
	"fmt"
	"sort"
	"time"

	"github.com/retailpulse/pos-insights/internal/domain"
)

// Granularity selects the time bucket size for sales aggregation.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// ParseGranularity returns the granularity for a query-param value,
// defaulting to day.
func ParseGranularity(s string) (Granularity, bool) {
	switch Granularity(s) {
	case GranularityDay, GranularityWeek, GranularityMonth, GranularityYear:
		return Granularity(s), true
	case "":
		return GranularityDay, true
	}
	return GranularityDay, false
}

// ResolveDate picks the date a record is bucketed by: the explicit sale date
// when present, otherwise the last-updated timestamp. A record with neither
// is excluded from every aggregation.
func ResolveDate(r domain.SaleRecord) (time.Time, bool) {
	if !r.SoldAt.IsZero() {
		return r.SoldAt, true
	}
	if !r.UpdatedAt.IsZero() {
		return r.UpdatedAt, true
	}
	return time.Time{}, false
}

// BucketKey renders the canonical zero-padded key for a date at the given
// granularity. Week keys use the ISO year, not the calendar year.
func BucketKey(t time.Time, g Granularity) string {
	switch g {
	case GranularityWeek:
		year, week := ISOYearWeek(t)
		return fmt.Sprintf("%04d-W%02d", year, week)
	case GranularityMonth:
		return t.Format("2006-01")
	case GranularityYear:
		return t.Format("2006")
	default:
		return t.Format("2006-01-02")
	}
}

// Aggregate groups sale records into time buckets in a single pass. Buckets
// are created lazily on first contribution; records without a resolvable
// date are skipped and counted. The returned buckets are sorted ascending
// by key, which is chronological because keys are zero-padded.
func Aggregate(records []domain.SaleRecord, g Granularity) ([]domain.TimeBucket, int) {
	buckets := make(map[string]*domain.TimeBucket)
	excluded := 0

	for _, r := range records {
		date, ok := ResolveDate(r)
		if !ok {
			excluded++
			continue
		}

		key := BucketKey(date, g)
		b, ok := buckets[key]
		if !ok {
			b = &domain.TimeBucket{Key: key}
			buckets[key] = b
		}
		b.TotalNet += r.NetValue
		b.TotalGross += r.GrossValue
		b.TotalQuantity += r.Quantity
	}

	result := make([]domain.TimeBucket, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })

	return result, excluded
}

// Summarize wraps Aggregate into the API response shape.
func Summarize(records []domain.SaleRecord, g Granularity) domain.SalesSummary {
	buckets, excluded := Aggregate(records, g)
	return domain.SalesSummary{
		Granularity:   string(g),
		Buckets:       buckets,
		ExcludedCount: excluded,
	}
}

// YearWeek keys per-product weekly sales maps.
type YearWeek struct {
	Year int
	Week int
}

// Before reports whether w is strictly earlier than other.
func (w YearWeek) Before(other YearWeek) bool {
	if w.Year != other.Year {
		return w.Year < other.Year
	}
	return w.Week < other.Week
}

// WeeklySalesBySymbol partitions records per product and buckets quantities
// by (isoYear, isoWeek). The excluded count covers all products together.
func WeeklySalesBySymbol(records []domain.SaleRecord) (map[string]map[YearWeek]float64, int) {
	out := make(map[string]map[YearWeek]float64)
	excluded := 0

	for _, r := range records {
		date, ok := ResolveDate(r)
		if !ok {
			excluded++
			continue
		}

		year, week := ISOYearWeek(date)
		weeks, ok := out[r.Symbol]
		if !ok {
			weeks = make(map[YearWeek]float64)
			out[r.Symbol] = weeks
		}
		weeks[YearWeek{Year: year, Week: week}] += r.Quantity
	}

	return out, excluded
}
