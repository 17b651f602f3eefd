// Package core provides the vesting domain types.
//
// This file contains the monthly schedule generator and the helpers used
// to project a schedule against wall-clock time.
package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidScheduleRange  = errors.New("invalid schedule range")
	ErrInvalidScheduleAmount = errors.New("invalid schedule amount")
)

type (
	// ScheduleEntry is a single monthly disbursement. Date is always the
	// first day of a month at 00:00 UTC.
	ScheduleEntry struct {
		Date   time.Time
		Amount decimal.Decimal
	}

	// Schedule is ordered by Date, strictly increasing, one entry per month.
	Schedule []ScheduleEntry
)

// GenerateMonthly builds a flat monthly schedule.
//
// Months are zero-based (0 = January, 11 = December) and both bounds are
// inclusive. Every entry carries monthlyAmount unchanged.
//
// Examples:
//   GenerateMonthly(2026, 7, 2034, 10, 40M) -> 100 entries, 2026-08-01 .. 2034-11-01
//   GenerateMonthly(2026, 0, 2026, 0, 1)    -> 1 entry, 2026-01-01
func GenerateMonthly(startYear, startMonth, endYear, endMonth int, monthlyAmount decimal.Decimal) (Schedule, error) {
	if startMonth < 0 || startMonth > 11 || endMonth < 0 || endMonth > 11 {
		return nil, ErrInvalidScheduleRange
	}
	start := startYear*12 + startMonth
	end := endYear*12 + endMonth
	if start > end {
		return nil, ErrInvalidScheduleRange
	}
	if !monthlyAmount.IsPositive() {
		return nil, ErrInvalidScheduleAmount
	}

	schedule := make(Schedule, 0, end-start+1)
	year, month := startYear, startMonth
	for year*12+month <= end {
		schedule = append(schedule, ScheduleEntry{
			Date:   time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC),
			Amount: monthlyAmount,
		})
		month++
		if month > 11 {
			month = 0
			year++
		}
	}
	return schedule, nil
}

// MustGenerateMonthly is GenerateMonthly for hardcoded calendar bounds.
// It panics on invalid input.
func MustGenerateMonthly(startYear, startMonth, endYear, endMonth int, monthlyAmount decimal.Decimal) Schedule {
	s, err := GenerateMonthly(startYear, startMonth, endYear, endMonth, monthlyAmount)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of monthly entries.
func (s Schedule) Len() int {
	return len(s)
}

// First returns the earliest entry.
func (s Schedule) First() (ScheduleEntry, bool) {
	if len(s) == 0 {
		return ScheduleEntry{}, false
	}
	return s[0], true
}

// Last returns the final entry.
func (s Schedule) Last() (ScheduleEntry, bool) {
	if len(s) == 0 {
		return ScheduleEntry{}, false
	}
	return s[len(s)-1], true
}

// Total sums every entry amount.
func (s Schedule) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s {
		total = total.Add(e.Amount)
	}
	return total
}

// Next returns the first entry strictly after now. The second result is
// false when now is at or past the final entry (fully vested).
func (s Schedule) Next(now time.Time) (ScheduleEntry, bool) {
	for _, e := range s {
		if e.Date.After(now) {
			return e, true
		}
	}
	return ScheduleEntry{}, false
}

// Clone returns a copy that callers may modify freely.
func (s Schedule) Clone() Schedule {
	if s == nil {
		return nil
	}
	out := make(Schedule, len(s))
	copy(out, s)
	return out
}
