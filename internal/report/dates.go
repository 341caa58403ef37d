// Package report turns ledger collections into the figures shown on the
// dashboard and budget screens.
package report

import (
	"time"

	"amlyspay/internal/core"
)

// WindowStart returns the earliest instant still inside a granularity's window
// ending at now. Month and year windows use calendar arithmetic, so March 31
// minus one month normalizes the way time.AddDate does. An unknown granularity
// yields now itself.
func WindowStart(g core.Granularity, now time.Time) time.Time {
	switch g {
	case core.Day:
		return now.AddDate(0, 0, -1)
	case core.Week:
		return now.AddDate(0, 0, -7)
	case core.Month:
		return now.AddDate(0, -1, 0)
	case core.Year:
		return now.AddDate(-1, 0, 0)
	default:
		return now
	}
}

// FilterByRecency keeps the dates at or after WindowStart(g, now), in input order.
func FilterByRecency(dates []time.Time, g core.Granularity, now time.Time) []time.Time {
	start := WindowStart(g, now)
	kept := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if !d.Before(start) {
			kept = append(kept, d)
		}
	}
	return kept
}

// PeriodKey buckets t for grouping. Weeks are keyed by the date of the Sunday
// that starts them. Unknown granularities bucket by day.
func PeriodKey(t time.Time, g core.Granularity) string {
	switch g {
	case core.Week:
		return t.AddDate(0, 0, -int(t.Weekday())).Format(time.DateOnly)
	case core.Month:
		return t.Format("2006-01")
	case core.Year:
		return t.Format("2006")
	default:
		return t.Format(time.DateOnly)
	}
}

// GroupByPeriod counts dates per PeriodKey, each date keyed in its own location.
func GroupByPeriod(dates []time.Time, g core.Granularity) map[string]int {
	return GroupByPeriodIn(dates, g, nil)
}

// GroupByPeriodIn counts dates per PeriodKey after converting them to loc.
// A nil loc keeps each date's own location.
func GroupByPeriodIn(dates []time.Time, g core.Granularity, loc *time.Location) map[string]int {
	grouped := make(map[string]int)
	for _, d := range dates {
		if loc != nil {
			d = d.In(loc)
		}
		grouped[PeriodKey(d, g)]++
	}
	return grouped
}
