/*
Package pay turns categorized hours into money.

PURPOSE:
  Calculate prices each hour bucket at baseRate × the award's multiplier,
  adds allowances, annualises the period's gross pay and derives tax and
  loan repayment from year-keyed bracket tables.

FORMULA:
  gross      = Σ hours[b] × baseRate × rate[b] + allowances
  annualised = gross × periodsPerYear                   (52 or 26)
  tax        = ComputeTax(annualised, tax table) / periodsPerYear
  repayment  = ComputeRepayment(annualised, thresholds) / periodsPerYear
  net        = gross - tax - repayment

ALLOWANCES:
  manual $ + (meal1 + meal2) × mealAllowance1
           + min(firstAidHours × firstAidAllowance, firstAidMaxAmount)
           + sleepover $ (entered amount; below the award rate → warning)
           + each selected custom allowance

  BrokenShift hours are carried through for display only. No award field
  prices them.

Amounts are kept at full decimal precision; rounding to cents is left to
the presentation layer.

SEE ALSO:
  - generic/bracket.go: Tax and repayment models
  - pay/tables.go: Default tables
*/
package pay

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/award-engine/award"
	"github.com/warp/award-engine/generic"
	"github.com/warp/award-engine/shift"
)

// =============================================================================
// PAY PERIOD
// =============================================================================

type Period string

const (
	Weekly      Period = "weekly"
	Fortnightly Period = "fortnightly"
)

// ParsePeriod accepts "weekly" or "fortnightly". Empty means weekly.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", Weekly:
		return Weekly, nil
	case Fortnightly:
		return Fortnightly, nil
	default:
		return "", fmt.Errorf("%w: %q", generic.ErrInvalidPayPeriod, s)
	}
}

// PeriodsPerYear is 26 for fortnightly pay, otherwise 52.
func (p Period) PeriodsPerYear() int64 {
	if p == Fortnightly {
		return 26
	}
	return 52
}

// =============================================================================
// INPUT
// =============================================================================

// Allowances are the user's allowance entries for the period.
type Allowances struct {
	Manual          decimal.Decimal
	MealCount1      int
	MealCount2      int
	FirstAidHours   decimal.Decimal
	SleepoverAmount decimal.Decimal
	// CustomSelected names the award's custom allowances being claimed.
	CustomSelected []string
}

// WithMeals copies the meal counts earned by an aggregated schedule.
func (a Allowances) WithMeals(res shift.Result) Allowances {
	a.MealCount1 = res.MealCount1
	a.MealCount2 = res.MealCount2
	return a
}

type Input struct {
	Rules       *award.Rules
	BaseRate    decimal.Decimal
	Period      Period
	Hours       shift.Buckets
	Allowances  Allowances
	HasLoanDebt bool
	Tables      TableSet
}

// =============================================================================
// RESULT
// =============================================================================

// Components is pay per hour bucket.
type Components struct {
	Normal    decimal.Decimal
	Overtime1 decimal.Decimal
	Overtime2 decimal.Decimal
	Saturday  decimal.Decimal
	Sunday    decimal.Decimal
	Afternoon decimal.Decimal
	Night     decimal.Decimal
}

func (c Components) Total() decimal.Decimal {
	return decimal.Sum(c.Normal, c.Overtime1, c.Overtime2, c.Saturday, c.Sunday, c.Afternoon, c.Night)
}

type AllowanceBreakdown struct {
	Manual    decimal.Decimal
	Meal      decimal.Decimal
	FirstAid  decimal.Decimal
	Sleepover decimal.Decimal
	Custom    []award.CustomAllowance
}

func (a AllowanceBreakdown) Total() decimal.Decimal {
	total := decimal.Sum(a.Manual, a.Meal, a.FirstAid, a.Sleepover)
	for _, c := range a.Custom {
		total = total.Add(c.Amount)
	}
	return total
}

type Result struct {
	Components Components
	Allowances AllowanceBreakdown
	Gross      decimal.Decimal

	PeriodsPerYear int64
	Annualized     decimal.Decimal
	Tax            decimal.Decimal
	LoanRepayment  decimal.Decimal
	Net            decimal.Decimal

	BrokenShiftHours decimal.Decimal
	Warnings         []generic.Warning
}

// =============================================================================
// CALCULATE
// =============================================================================

// Calculate prices Input. Missing award, non-positive base rate, an unknown
// period or an unknown custom allowance are input errors.
func Calculate(in Input) (Result, error) {
	if in.Rules == nil {
		return Result{}, generic.ErrMissingAward
	}
	if !in.BaseRate.IsPositive() {
		return Result{}, fmt.Errorf("%w: got %s", generic.ErrInvalidBaseRate, in.BaseRate)
	}
	period, err := ParsePeriod(string(in.Period))
	if err != nil {
		return Result{}, err
	}
	r := in.Rules

	allowances, warnings, err := sumAllowances(in.Allowances, r)
	if err != nil {
		return Result{}, err
	}

	h, base := in.Hours, in.BaseRate
	components := Components{
		Normal:    h.Normal.Mul(base).Mul(r.NormalRate),
		Overtime1: h.Overtime1.Mul(base).Mul(r.OvertimeRate),
		Overtime2: h.Overtime2.Mul(base).Mul(r.Overtime2Rate),
		Saturday:  h.Saturday.Mul(base).Mul(r.SaturdayRate),
		Sunday:    h.Sunday.Mul(base).Mul(r.SundayRate),
		Afternoon: h.Afternoon.Mul(base).Mul(r.AfternoonShiftRate),
		Night:     h.Night.Mul(base).Mul(r.NightShiftRate),
	}

	if h.BrokenShift.IsPositive() {
		warnings = append(warnings, generic.Warning{
			Code:    generic.WarnBrokenShiftUnpriced,
			Title:   "Broken shift hours not priced",
			Message: fmt.Sprintf("%s broken shift hours are shown for information and are not included in gross pay.", h.BrokenShift),
		})
	}

	gross := components.Total().Add(allowances.Total())
	periods := decimal.NewFromInt(period.PeriodsPerYear())
	annual := gross.Mul(periods)

	tax := generic.ComputeTax(annual, in.Tables.Tax).Div(periods)
	repayment := decimal.Zero
	if in.HasLoanDebt {
		repayment = generic.ComputeRepayment(annual, in.Tables.Repayment).Div(periods)
	}

	return Result{
		Components:       components,
		Allowances:       allowances,
		Gross:            gross,
		PeriodsPerYear:   period.PeriodsPerYear(),
		Annualized:       annual,
		Tax:              tax,
		LoanRepayment:    repayment,
		Net:              gross.Sub(tax).Sub(repayment),
		BrokenShiftHours: h.BrokenShift,
		Warnings:         warnings,
	}, nil
}

func sumAllowances(a Allowances, r *award.Rules) (AllowanceBreakdown, []generic.Warning, error) {
	var warnings []generic.Warning

	out := AllowanceBreakdown{
		Manual:    a.Manual,
		Meal:      r.MealAllowance1.Mul(decimal.NewFromInt(int64(a.MealCount1 + a.MealCount2))),
		FirstAid:  a.FirstAidHours.Mul(r.FirstAidAllowance),
		Sleepover: a.SleepoverAmount,
	}
	if r.FirstAidMaxAmount != nil && out.FirstAid.GreaterThan(*r.FirstAidMaxAmount) {
		out.FirstAid = *r.FirstAidMaxAmount
	}

	if a.SleepoverAmount.IsPositive() && a.SleepoverAmount.LessThan(r.SleeperRate) {
		warnings = append(warnings, generic.Warning{
			Code:  generic.WarnSleepoverBelowMinimum,
			Title: "Sleepover below award minimum",
			Message: fmt.Sprintf("Sleepover allowance $%s is below the award rate of $%s.",
				a.SleepoverAmount.StringFixed(2), r.SleeperRate.StringFixed(2)),
		})
	}

	// A name claimed twice is paid once.
	seen := make(map[string]bool, len(a.CustomSelected))
	for _, name := range a.CustomSelected {
		if seen[name] {
			continue
		}
		seen[name] = true
		c, ok := r.CustomAllowance(name)
		if !ok {
			return AllowanceBreakdown{}, nil, fmt.Errorf("%w: %q", generic.ErrUnknownAllowance, name)
		}
		out.Custom = append(out.Custom, c)
	}
	return out, warnings, nil
}
