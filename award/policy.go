/*
Package award defines pay awards: the rate multipliers, time windows,
overtime thresholds and allowance rules that govern a class of employment.

PURPOSE:
  A Policy is the stored, versioned shape of an award. Fields added by later
  schema versions are optional (pointers) so that older records still load;
  Rules() resolves every optional field through its fallback chain and
  validates the result. The engine only ever sees Rules.

FALLBACK CHAIN:
  saturdayRate  → weekendRate (legacy) → 1.5
  sundayRate    → weekendRate (legacy) → 2.0
  anything else → DefaultXxx constant in defaults.go

KEY CONCEPTS:
  - Policy: stored configuration, may be partial
  - Rules: fully resolved, validated, read-only for one calculation
  - CustomAllowance: a named flat-rate item the user can tick

DEGENERATE OVERTIME:
  overtime2Hours <= maxDailyHours is a valid configuration. It means the
  second overtime tier can never be reached and every excess hour is paid
  at the first overtime rate.

SEE ALSO:
  - defaults.go: Default constants
  - presets.go: Awards shipped out of the box
  - shift/classify.go: Consumes Rules
*/
package award

import (
	"github.com/shopspring/decimal"

	"github.com/warp/award-engine/generic"
)

// ID is an opaque award identifier.
type ID string

// CustomAllowance is a flat-rate allowance the employee may claim.
type CustomAllowance struct {
	Name   string
	Amount decimal.Decimal
}

// =============================================================================
// POLICY - Stored award configuration
// =============================================================================

type Policy struct {
	ID   ID
	Name string

	// Rate multipliers
	NormalRate         *decimal.Decimal
	OvertimeRate       *decimal.Decimal
	Overtime2Rate      *decimal.Decimal
	SaturdayRate       *decimal.Decimal
	SundayRate         *decimal.Decimal
	AfternoonShiftRate *decimal.Decimal
	NightShiftRate     *decimal.Decimal

	// WeekendRate is the single weekend multiplier of the first schema
	// version. Only read as a fallback for SaturdayRate and SundayRate.
	WeekendRate *decimal.Decimal

	// Overtime thresholds, in hours
	MaxDailyHours  *decimal.Decimal
	Overtime2Hours *decimal.Decimal

	// Time windows as "HH:MM"; empty means default
	AfternoonShiftStart string
	AfternoonShiftEnd   string
	NightShiftStart     string
	NightShiftEnd       string
	WindowBoundary      generic.Boundary

	// Rest between shifts, in hours
	MinBreakHours          *decimal.Decimal
	MinBreakHoursSleepover *decimal.Decimal

	// Sleepover
	HasSleepover bool
	SleeperRate  decimal.Decimal // fixed $ per sleepover shift

	// Allowances
	MealAllowance1      decimal.Decimal // $ per count; also paid for meal 2
	MealAllowance1Hours *decimal.Decimal
	MealAllowance2Hours *decimal.Decimal
	FirstAidAllowance   decimal.Decimal  // $ per hour
	FirstAidMaxAmount   *decimal.Decimal // nil = uncapped
	CustomAllowances    []CustomAllowance
}

// =============================================================================
// RULES - Resolved, validated award
// =============================================================================

// Rules is a Policy with every default applied. Safe to share across
// concurrent calculations; nothing mutates it.
type Rules struct {
	AwardID   ID
	AwardName string

	NormalRate         decimal.Decimal
	OvertimeRate       decimal.Decimal
	Overtime2Rate      decimal.Decimal
	SaturdayRate       decimal.Decimal
	SundayRate         decimal.Decimal
	AfternoonShiftRate decimal.Decimal
	NightShiftRate     decimal.Decimal

	MaxDailyHours  decimal.Decimal
	Overtime2Hours decimal.Decimal

	AfternoonWindow generic.Window
	NightWindow     generic.Window

	MinBreakHours          decimal.Decimal
	MinBreakHoursSleepover decimal.Decimal

	HasSleepover bool
	SleeperRate  decimal.Decimal

	MealAllowance1      decimal.Decimal
	MealAllowance1Hours decimal.Decimal
	MealAllowance2Hours decimal.Decimal
	FirstAidAllowance   decimal.Decimal
	FirstAidMaxAmount   *decimal.Decimal
	CustomAllowances    []CustomAllowance
}

// SecondTierReachable reports whether overtime2Hours lies above
// maxDailyHours. When false all excess hours are tier-one overtime.
func (r Rules) SecondTierReachable() bool {
	return r.Overtime2Hours.GreaterThan(r.MaxDailyHours)
}

// CustomAllowance returns the named custom allowance.
func (r Rules) CustomAllowance(name string) (CustomAllowance, bool) {
	for _, a := range r.CustomAllowances {
		if a.Name == name {
			return a, true
		}
	}
	return CustomAllowance{}, false
}

// Rules resolves defaults and validates the policy. Any error is a
// configuration error (wraps generic.ErrInvalidConfig).
func (p Policy) Rules() (Rules, error) {
	boundary, err := generic.ParseBoundary(string(p.WindowBoundary))
	if err != nil {
		return Rules{}, generic.NewConfigError("windowBoundary", "%v", err)
	}

	afternoon, err := generic.NewWindow(
		orString(p.AfternoonShiftStart, DefaultAfternoonShiftStart),
		orString(p.AfternoonShiftEnd, DefaultAfternoonShiftEnd),
		boundary,
	)
	if err != nil {
		return Rules{}, generic.NewConfigError("afternoonShift", "%v", err)
	}

	night, err := generic.NewWindow(
		orString(p.NightShiftStart, DefaultNightShiftStart),
		orString(p.NightShiftEnd, DefaultNightShiftEnd),
		boundary,
	)
	if err != nil {
		return Rules{}, generic.NewConfigError("nightShift", "%v", err)
	}

	r := Rules{
		AwardID:   p.ID,
		AwardName: p.Name,

		NormalRate:         generic.Or(p.NormalRate, DefaultNormalRate),
		OvertimeRate:       generic.Or(p.OvertimeRate, DefaultOvertimeRate),
		Overtime2Rate:      generic.Or(p.Overtime2Rate, DefaultOvertime2Rate),
		SaturdayRate:       p.ResolvedSaturdayRate(),
		SundayRate:         p.ResolvedSundayRate(),
		AfternoonShiftRate: generic.Or(p.AfternoonShiftRate, DefaultAfternoonShiftRate),
		NightShiftRate:     generic.Or(p.NightShiftRate, DefaultNightShiftRate),

		MaxDailyHours:  generic.Or(p.MaxDailyHours, DefaultMaxDailyHours),
		Overtime2Hours: generic.Or(p.Overtime2Hours, DefaultOvertime2Hours),

		AfternoonWindow: afternoon,
		NightWindow:     night,

		MinBreakHours:          generic.Or(p.MinBreakHours, DefaultMinBreakHours),
		MinBreakHoursSleepover: generic.Or(p.MinBreakHoursSleepover, DefaultMinBreakHoursSleepover),

		HasSleepover: p.HasSleepover,
		SleeperRate:  p.SleeperRate,

		MealAllowance1:      p.MealAllowance1,
		MealAllowance1Hours: generic.Or(p.MealAllowance1Hours, DefaultMealAllowance1Hours),
		MealAllowance2Hours: generic.Or(p.MealAllowance2Hours, DefaultMealAllowance2Hours),
		FirstAidAllowance:   p.FirstAidAllowance,
		FirstAidMaxAmount:   p.FirstAidMaxAmount,
		CustomAllowances:    append([]CustomAllowance(nil), p.CustomAllowances...),
	}

	if err := r.validate(); err != nil {
		return Rules{}, err
	}
	return r, nil
}

// ResolvedSaturdayRate applies the saturdayRate → weekendRate → default chain.
func (p Policy) ResolvedSaturdayRate() decimal.Decimal {
	return generic.Or(p.SaturdayRate, generic.Or(p.WeekendRate, DefaultSaturdayRate))
}

// ResolvedSundayRate applies the sundayRate → weekendRate → default chain.
func (p Policy) ResolvedSundayRate() decimal.Decimal {
	return generic.Or(p.SundayRate, generic.Or(p.WeekendRate, DefaultSundayRate))
}

func (r Rules) validate() error {
	nonNegative := []struct {
		field string
		value decimal.Decimal
	}{
		{"normalRate", r.NormalRate},
		{"overtimeRate", r.OvertimeRate},
		{"overtime2Rate", r.Overtime2Rate},
		{"saturdayRate", r.SaturdayRate},
		{"sundayRate", r.SundayRate},
		{"afternoonShiftRate", r.AfternoonShiftRate},
		{"nightShiftRate", r.NightShiftRate},
		{"overtime2Hours", r.Overtime2Hours},
		{"minBreakHours", r.MinBreakHours},
		{"minBreakHoursSleepover", r.MinBreakHoursSleepover},
		{"sleeperRate", r.SleeperRate},
		{"mealAllowance1", r.MealAllowance1},
		{"mealAllowance1Hours", r.MealAllowance1Hours},
		{"mealAllowance2Hours", r.MealAllowance2Hours},
		{"firstAidAllowance", r.FirstAidAllowance},
	}
	for _, f := range nonNegative {
		if f.value.IsNegative() {
			return generic.NewConfigError(f.field, "must not be negative, got %s", f.value)
		}
	}
	if !r.MaxDailyHours.IsPositive() {
		return generic.NewConfigError("maxDailyHours", "must be positive, got %s", r.MaxDailyHours)
	}
	if r.FirstAidMaxAmount != nil && r.FirstAidMaxAmount.IsNegative() {
		return generic.NewConfigError("firstAidMaxAmount", "must not be negative")
	}

	seen := make(map[string]bool, len(r.CustomAllowances))
	for _, a := range r.CustomAllowances {
		if a.Name == "" {
			return generic.NewConfigError("customAllowances", "allowance without a name")
		}
		if seen[a.Name] {
			return generic.NewConfigError("customAllowances", "duplicate allowance %q", a.Name)
		}
		if a.Amount.IsNegative() {
			return generic.NewConfigError("customAllowances", "%q has a negative amount", a.Name)
		}
		seen[a.Name] = true
	}
	return nil
}

func orString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
