/*
Package shift turns raw shift intervals into categorized payable hours.

PURPOSE:
  Two stages, both pure:

  Classify (classify.go) looks at ONE shift. It removes the sleepover block,
  picks exactly one category by fixed priority and splits plain hours into
  normal/overtime tiers.

  Aggregate (aggregate.go) looks at ALL shifts of a pay period together. It
  detects broken shifts (too little rest) and consecutive chains (next to no
  gap), reclassifies and merges hours accordingly and counts meal
  allowances.

DATA FLOW:
  []Interval ──Classify──▶ []ClassifiedShift ──Aggregate──▶ Result
                 (per shift)                   (cross-shift)

KEY CONCEPTS:
  - Interval: raw input, start/end plus sleepover metadata
  - Category: saturday > sunday > afternoon > night > normal
  - Buckets: hours per pay bucket, the unit every stage passes along
  - ClassifiedShift: per-shift result, mutated only by Aggregate's copy

SEE ALSO:
  - award/policy.go: Rules consumed here
  - pay/calculator.go: Prices the Buckets
*/
package shift

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/award-engine/generic"
)

// =============================================================================
// EMPLOYMENT TYPE
// =============================================================================

type EmploymentType string

const (
	FullTime EmploymentType = "full-time"
	PartTime EmploymentType = "part-time"
	Casual   EmploymentType = "casual"
)

// ParseEmploymentType accepts "full-time", "part-time" or "casual".
// An empty string means full-time.
func ParseEmploymentType(s string) (EmploymentType, error) {
	switch EmploymentType(s) {
	case "", FullTime:
		return FullTime, nil
	case PartTime:
		return PartTime, nil
	case Casual:
		return Casual, nil
	default:
		return "", fmt.Errorf("%w: %q", generic.ErrInvalidEmploymentType, s)
	}
}

// =============================================================================
// CATEGORY
// =============================================================================

// Category is the single classification a shift receives. Mutually
// exclusive; see classificationRules for the priority.
type Category string

const (
	CategorySaturday  Category = "saturday"
	CategorySunday    Category = "sunday"
	CategoryAfternoon Category = "afternoon"
	CategoryNight     Category = "night"
	CategoryNormal    Category = "normal"
)

// =============================================================================
// INTERVAL - Raw shift input
// =============================================================================

type Interval struct {
	Start time.Time
	End   time.Time

	IsSleepover bool
	// Explicit sleepover block; nil falls back to 22:00-06:00.
	SleeperStart *generic.TimeOfDay
	SleeperEnd   *generic.TimeOfDay

	// HasBreakAgreement lets the shift after this sleepover use the shorter
	// sleepover minimum break.
	HasBreakAgreement bool
}

// =============================================================================
// BUCKETS - Hours per pay bucket
// =============================================================================

type Buckets struct {
	Normal      decimal.Decimal
	Overtime1   decimal.Decimal
	Overtime2   decimal.Decimal
	Saturday    decimal.Decimal
	Sunday      decimal.Decimal
	Afternoon   decimal.Decimal
	Night       decimal.Decimal
	BrokenShift decimal.Decimal
}

// Add returns the bucket-wise sum of b and o.
func (b Buckets) Add(o Buckets) Buckets {
	return Buckets{
		Normal:      b.Normal.Add(o.Normal),
		Overtime1:   b.Overtime1.Add(o.Overtime1),
		Overtime2:   b.Overtime2.Add(o.Overtime2),
		Saturday:    b.Saturday.Add(o.Saturday),
		Sunday:      b.Sunday.Add(o.Sunday),
		Afternoon:   b.Afternoon.Add(o.Afternoon),
		Night:       b.Night.Add(o.Night),
		BrokenShift: b.BrokenShift.Add(o.BrokenShift),
	}
}

// Total is the sum of every bucket.
func (b Buckets) Total() decimal.Decimal {
	return decimal.Sum(b.Normal, b.Overtime1, b.Overtime2, b.Saturday,
		b.Sunday, b.Afternoon, b.Night, b.BrokenShift)
}

// Priced is the sum of the buckets that carry a rate multiplier, i.e.
// everything except BrokenShift.
func (b Buckets) Priced() decimal.Decimal {
	return b.Total().Sub(b.BrokenShift)
}

// HasSpecialRate reports hours in any weekend or time-window bucket.
func (b Buckets) HasSpecialRate() bool {
	return b.Saturday.IsPositive() || b.Sunday.IsPositive() ||
		b.Afternoon.IsPositive() || b.Night.IsPositive()
}

// =============================================================================
// CLASSIFIED SHIFT - Per-shift result
// =============================================================================

type ClassifiedShift struct {
	Interval Interval
	// Index is the shift's position in the caller's input slice.
	Index int

	Buckets  Buckets
	Category Category

	Duration       decimal.Decimal // end - start, hours
	WorkingHours   decimal.Decimal // Duration minus the sleepover block
	SleepoverHours decimal.Decimal

	// Broken is set by Aggregate when the rest before this shift was too short.
	Broken bool

	Warnings []generic.Warning
}
