/*
Package generic provides the domain-agnostic primitives of the award engine.

PURPOSE:
  This package holds the building blocks that every pay rule is written in:
  exact decimal quantities, hour conversion, wall-clock windows, progressive
  bracket tables and advisory warnings. It knows nothing about awards,
  shifts or pay periods; those live in the award, shift and pay packages.

KEY CONCEPTS IN THIS FILE (types.go):
  - Hours: conversion from time.Duration into decimal hours
  - Decimal helpers: parsing, optional values with fallback
  - Warning: an advisory record returned next to a successful result

DESIGN PRINCIPLES:
  1. Precision: quantities are decimal.Decimal, never float64
  2. Purity: nothing here performs I/O or holds state
  3. Advisory vs fatal: warnings never abort a calculation, errors always do

USAGE:
  worked := generic.Hours(end.Sub(start))          // 7.5
  rate := generic.Or(policy.SaturdayRate, generic.Or(policy.WeekendRate, def))

SEE ALSO:
  - bracket.go: Progressive tax and single-bracket repayment tables
  - time.go: Time-of-day windows that may wrap midnight
  - errors.go: Sentinel and structured errors
*/
package generic

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// HOURS - Durations expressed as exact decimal hours
// =============================================================================

var secondsPerHour = decimal.NewFromInt(3600)

// Hours converts a duration into decimal hours at second resolution.
func Hours(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d / time.Second)).Div(secondsPerHour)
}

// Duration converts decimal hours back into a duration, truncated to seconds.
func Duration(hours decimal.Decimal) time.Duration {
	return time.Duration(hours.Mul(secondsPerHour).IntPart()) * time.Second
}

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

// Or returns *v when set, otherwise def.
func Or(v *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if v == nil {
		return def
	}
	return *v
}

// Ptr returns a pointer to d. Handy for optional policy fields.
func Ptr(d decimal.Decimal) *decimal.Decimal { return &d }

// ClampZero returns d, or zero when d is negative.
func ClampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// WARNING - Advisory conditions collected alongside results
// =============================================================================

// WarningCode classifies a warning so callers can filter or translate it.
type WarningCode string

const (
	WarnOvertime              WarningCode = "overtime"
	WarnOvertimeSingleTier    WarningCode = "overtime_single_tier"
	WarnConsecutiveOvertime   WarningCode = "consecutive_overtime"
	WarnBrokenShift           WarningCode = "broken_shift"
	WarnBrokenShiftCasual     WarningCode = "broken_shift_casual"
	WarnOverlappingShifts     WarningCode = "overlapping_shifts"
	WarnMealAllowance         WarningCode = "meal_allowance"
	WarnSleepoverOutside      WarningCode = "sleepover_outside_shift"
	WarnSleepoverBelowMinimum WarningCode = "sleepover_below_minimum"
	WarnBrokenShiftUnpriced   WarningCode = "broken_shift_unpriced"
)

// Warning is a non-fatal condition. The calculation that produced it has
// still completed and its values are usable.
type Warning struct {
	Code    WarningCode
	Title   string
	Message string
}

// IsOvertime reports whether the warning describes an overtime trigger.
func (w Warning) IsOvertime() bool {
	return w.Code == WarnOvertime || w.Code == WarnOvertimeSingleTier
}

// WithoutOvertime returns ws minus any overtime warnings.
func WithoutOvertime(ws []Warning) []Warning {
	var out []Warning
	for _, w := range ws {
		if !w.IsOvertime() {
			out = append(out, w)
		}
	}
	return out
}
