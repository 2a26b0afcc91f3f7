package metrics

import (
	"sort"
	"time"

	"github.com/retailpulse/pos-insights/internal/domain"
)

// Trend direction labels for year-over-year comparison.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
	TrendNoData = "no_data"
)

// SeasonalityConfig carries the policy knobs of the index calculator.
type SeasonalityConfig struct {
	// WindowWeeks is the trailing window the annual average is taken over.
	WindowWeeks int
	// TrendStabilityPct: a year-over-year change inside ±this percentage
	// is reported as stable.
	TrendStabilityPct float64
}

// DefaultSeasonalityConfig returns the standard 52-week window with a ±5%
// stability band.
func DefaultSeasonalityConfig() SeasonalityConfig {
	return SeasonalityConfig{WindowWeeks: 52, TrendStabilityPct: 5}
}

// PrevISOWeek steps an (isoYear, isoWeek) pair back by one week.
func PrevISOWeek(year, week int) (int, int) {
	if week <= 1 {
		return year - 1, WeeksInISOYear(year - 1)
	}
	return year, week - 1
}

// trailingWeeks lists the WindowWeeks ISO weeks ending at (and including)
// the week containing now, most recent first.
func trailingWeeks(now time.Time, window int) []YearWeek {
	year, week := ISOYearWeek(now)
	out := make([]YearWeek, 0, window)
	for i := 0; i < window; i++ {
		out = append(out, YearWeek{Year: year, Week: week})
		year, week = PrevISOWeek(year, week)
	}
	return out
}

// BuildProfile computes the seasonality profile for one product from its
// weekly sales map. Products with no sales inside the window get a zero
// average and all-zero indices rather than a division by zero.
func BuildProfile(symbol string, weeks map[YearWeek]float64, now time.Time, cfg SeasonalityConfig) domain.SeasonalityProfile {
	if cfg.WindowWeeks <= 0 {
		cfg.WindowWeeks = 52
	}
	if cfg.TrendStabilityPct <= 0 {
		cfg.TrendStabilityPct = 5
	}

	var windowSum float64
	for _, yw := range trailingWeeks(now, cfg.WindowWeeks) {
		windowSum += weeks[yw]
	}
	annualAverage := windowSum / float64(cfg.WindowWeeks)

	profile := domain.SeasonalityProfile{
		Symbol:        symbol,
		AnnualAverage: annualAverage,
		HasData:       annualAverage > 0,
	}

	keys := make([]YearWeek, 0, len(weeks))
	for yw := range weeks {
		keys = append(keys, yw)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	nowYear, _ := ISOYearWeek(now)
	var peakCurrent, peakAny domain.WeeklyIndex
	peakCurrentIdx, peakAnyIdx := -1.0, -1.0

	for _, yw := range keys {
		qty := weeks[yw]

		entry := domain.WeeklyIndex{
			ISOYear:       yw.Year,
			ISOWeek:       yw.Week,
			SalesQuantity: qty,
		}
		if annualAverage > 0 {
			entry.Index = qty / annualAverage
		}

		entry.YoYChangePct, entry.Trend = yearOverYear(weeks, yw, cfg.TrendStabilityPct)
		profile.Weekly = append(profile.Weekly, entry)

		if entry.Index > peakAnyIdx {
			peakAnyIdx = entry.Index
			peakAny = entry
		}
		if yw.Year == nowYear && entry.Index > peakCurrentIdx {
			peakCurrentIdx = entry.Index
			peakCurrent = entry
		}
	}

	// Peak week is taken over the current ISO year; older years only matter
	// when the current year has no data at all.
	peak := peakCurrent
	if peakCurrentIdx < 0 {
		peak = peakAny
	}
	profile.PeakISOYear = peak.ISOYear
	profile.PeakISOWeek = peak.ISOWeek

	return profile
}

// yearOverYear compares a week against the same ISO week of the previous
// year. When the prior year is missing there is nothing to compare.
func yearOverYear(weeks map[YearWeek]float64, yw YearWeek, stabilityPct float64) (float64, string) {
	prev, ok := weeks[YearWeek{Year: yw.Year - 1, Week: yw.Week}]
	if !ok {
		return 0, TrendNoData
	}

	cur := weeks[yw]
	if prev == 0 {
		if cur > 0 {
			return 0, TrendUp
		}
		return 0, TrendStable
	}

	change := (cur - prev) / prev * 100
	switch {
	case change > stabilityPct:
		return change, TrendUp
	case change < -stabilityPct:
		return change, TrendDown
	default:
		return change, TrendStable
	}
}

// BuildProfiles runs the calculator for every product present in records.
func BuildProfiles(records []domain.SaleRecord, now time.Time, cfg SeasonalityConfig) map[string]domain.SeasonalityProfile {
	bySymbol, _ := WeeklySalesBySymbol(records)

	profiles := make(map[string]domain.SeasonalityProfile, len(bySymbol))
	for symbol, weeks := range bySymbol {
		profiles[symbol] = BuildProfile(symbol, weeks, now, cfg)
	}
	return profiles
}
