// Package services provides the ledgers and the period accounting they share.
//
// This file implements the Strategy Pattern for period keys. Each recurrence
// (one-time, weekly, monthly, yearly) has its own keyer that turns an instant
// into the string bucket a budget's spend accumulates in.

package services

import (
	"fmt"
	"time"

	"amlyspay/internal/clock"
	"amlyspay/internal/core"
)

// PeriodKeyer is the strategy interface for computing a period key.
type PeriodKeyer interface {
	// Key returns the period bucket that now falls in.
	Key(now time.Time) string
}

// OneTimeKeyer buckets by calendar day. One-time budgets never roll over, the
// key only records when they were created.
type OneTimeKeyer struct{}

// Key returns YYYY-MM-DD.
func (OneTimeKeyer) Key(now time.Time) string {
	return now.Format("2006-01-02")
}

// WeeklyKeyer buckets by the app's own week numbering.
type WeeklyKeyer struct{}

// Key returns YYYY-Wnn with nn = ceil((daysSinceJan1 + weekdayOfJan1 + 1) / 7),
// weekdays counted from Sunday = 0. This is not an ISO-8601 week number; the two
// disagree around the turn of the year.
func (WeeklyKeyer) Key(now time.Time) string {
	jan1 := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	days := now.YearDay() - 1
	week := (days + int(jan1.Weekday()) + 1 + 6) / 7
	return fmt.Sprintf("%d-W%02d", now.Year(), week)
}

// MonthlyKeyer buckets by calendar month.
type MonthlyKeyer struct{}

// Key returns YYYY-MM.
func (MonthlyKeyer) Key(now time.Time) string {
	return now.Format("2006-01")
}

// YearlyKeyer buckets by calendar year.
type YearlyKeyer struct{}

// Key returns YYYY.
func (YearlyKeyer) Key(now time.Time) string {
	return now.Format("2006")
}

// periodStrategies maps recurrences to their keyers. Anything missing falls
// back to OneTimeKeyer.
var periodStrategies = map[core.Recurrence]PeriodKeyer{
	core.Weekly:  WeeklyKeyer{},
	core.Monthly: MonthlyKeyer{},
	core.Yearly:  YearlyKeyer{},
}

// GetPeriodKeyer returns the keyer for a recurrence. Unknown or empty
// recurrences get the one-time keyer rather than an error.
func GetPeriodKeyer(r core.Recurrence) PeriodKeyer {
	if keyer, ok := periodStrategies[r]; ok {
		return keyer
	}
	return OneTimeKeyer{}
}

// PeriodCalculator derives period keys from an injected clock.
type PeriodCalculator struct {
	clock clock.Clock
}

// NewPeriodCalculator creates a calculator reading time from c. A nil clock
// uses the system clock.
func NewPeriodCalculator(c clock.Clock) *PeriodCalculator {
	if c == nil {
		c = clock.System{}
	}
	return &PeriodCalculator{clock: c}
}

// Now returns the calculator's current instant.
func (p *PeriodCalculator) Now() time.Time {
	return p.clock.Now()
}

// Current returns the period key for r at the present instant.
func (p *PeriodCalculator) Current(r core.Recurrence) string {
	return GetPeriodKeyer(r).Key(p.clock.Now())
}

// RolledOver reports whether stored is no longer the current period for r.
// Entries without a recurrence never roll over.
func (p *PeriodCalculator) RolledOver(stored string, r core.Recurrence) (string, bool) {
	if r == "" {
		return stored, false
	}
	current := p.Current(r)
	return current, current != stored
}
