package metrics

import (
	"fmt"
	"time"
)

// ISO-8601 week rules: weeks start on Monday and week 1 is the week that
// contains the year's first Thursday. Late-December dates can fall into
// week 1 of the next year and early-January dates into week 52/53 of the
// previous one, so aggregation must always key by (isoYear, isoWeek).

// isoWeekday maps time.Weekday to ISO numbering (Monday=1 .. Sunday=7).
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// ISOYearWeek returns the ISO year and week number for a date. The year can
// differ from the calendar year at year boundaries.
func ISOYearWeek(t time.Time) (year, week int) {
	// Shift to the Thursday of the same ISO week; its calendar year is the
	// ISO year, and the week number follows from its ordinal day.
	thursday := t.AddDate(0, 0, 4-isoWeekday(t))
	year = thursday.Year()
	week = (thursday.YearDay() + 6) / 7
	return year, week
}

// ISOWeekNumber returns the ISO week number (1..53) for a date.
func ISOWeekNumber(t time.Time) int {
	_, week := ISOYearWeek(t)
	return week
}

// MondayOfISOWeek returns the Monday starting the given ISO week. Jan 4 is
// always inside week 1, which anchors the calculation.
func MondayOfISOWeek(year, week int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	week1Monday := jan4.AddDate(0, 0, 1-isoWeekday(jan4))
	return week1Monday.AddDate(0, 0, (week-1)*7)
}

// WeekDateRange formats the Monday..Sunday span of an ISO week as
// "DD.MM-DD.MM".
func WeekDateRange(week, year int) string {
	monday := MondayOfISOWeek(year, week, time.UTC)
	sunday := monday.AddDate(0, 0, 6)
	return fmt.Sprintf("%02d.%02d-%02d.%02d",
		monday.Day(), int(monday.Month()), sunday.Day(), int(sunday.Month()))
}

// WeeksInISOYear reports how many ISO weeks a year has (52 or 53).
func WeeksInISOYear(year int) int {
	// Dec 28 is always in the last ISO week of its year.
	_, week := ISOYearWeek(time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC))
	return week
}

// NextISOWeek advances an (isoYear, isoWeek) pair by one week.
func NextISOWeek(year, week int) (int, int) {
	if week >= WeeksInISOYear(year) {
		return year + 1, 1
	}
	return year, week + 1
}
