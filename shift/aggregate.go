/*
aggregate.go - Cross-shift reconciliation

PURPOSE:
  Classify sees one shift at a time. Many rules depend on neighbours:
  rest between shifts, continuous work across a short gap and meal breaks
  earned over a whole stretch. Aggregate applies them to a sorted copy of
  the classified shifts.

PAIR RELATIONSHIPS (adjacent shifts, gap = next.start - prev.end):
  -0.05h <= gap <= 0.55h       consecutive: same group
  gap < -0.05h                 overlapping: warning only
  gap < minBreak - 0.05h       broken: next shift penalised, unless prev
                               was itself broken or employee is casual
  otherwise                    unrelated

  minBreak is minBreakHoursSleepover instead of minBreakHours when prev is a
  sleepover, the award has sleepovers and prev has a break agreement.

THEN, IN ORDER:
  1. Broken shifts: all working hours moved to BrokenShift, overrides any
     category.
  2. Groups of 2+ with only plain normal/overtime shifts: overtime recomputed
     on their combined hours and apportioned back in chronological order.
  3. Meal allowances per group (singletons included). Sleepover shifts
     count max(0, duration - 8).
  4. Totals summed across every shift.
*/
package shift

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/warp/award-engine/award"
	"github.com/warp/award-engine/generic"
)

var (
	gapTolerance      = decimal.RequireFromString("0.05")
	consecutiveMaxGap = decimal.RequireFromString("0.5")
	sleepoverMealCut  = decimal.NewFromInt(8)
)

// Group is a chain of consecutive shifts. Shifts holds positions in
// Result.Shifts.
type Group struct {
	Shifts []int
	// Hours counted toward meal allowances.
	Hours  decimal.Decimal
	Merged bool

	MealCount1 int
	MealCount2 int
}

// Result is the aggregated view of a pay period.
type Result struct {
	// Shifts are sorted by start time and carry their final buckets.
	Shifts []ClassifiedShift
	Groups []Group
	Totals Buckets

	MealCount1    int
	MealCount2    int
	MealAllowance decimal.Decimal

	Warnings []generic.Warning
}

// Aggregate reconciles classified shifts. The input slice is not modified.
func Aggregate(shifts []ClassifiedShift, r award.Rules, employment EmploymentType) Result {
	sorted := make([]ClassifiedShift, len(shifts))
	for i, s := range shifts {
		s.Warnings = slices.Clone(s.Warnings)
		sorted[i] = s
	}
	slices.SortStableFunc(sorted, func(a, b ClassifiedShift) int {
		return a.Interval.Start.Compare(b.Interval.Start)
	})

	res := Result{Shifts: sorted, MealAllowance: decimal.Zero}
	var pairWarnings []generic.Warning

	// ===== PAIR RELATIONSHIPS =====
	var groups [][]int
	if len(sorted) > 0 {
		groups = append(groups, []int{0})
	}
	for i := 1; i < len(sorted); i++ {
		prev, next := &sorted[i-1], &sorted[i]
		gap := generic.Hours(next.Interval.Start.Sub(prev.Interval.End))
		minBreak := minBreakAfter(prev, r)

		switch {
		case isConsecutive(gap):
			groups[len(groups)-1] = append(groups[len(groups)-1], i)
			continue

		case gap.LessThan(gapTolerance.Neg()):
			pairWarnings = append(pairWarnings, generic.Warning{
				Code:  generic.WarnOverlappingShifts,
				Title: "Overlapping shifts",
				Message: fmt.Sprintf("The shift starting %s begins %s hours before the previous shift ends.",
					next.Interval.Start.Format(timeLayout), gap.Neg()),
			})

		case gap.LessThan(minBreak.Sub(gapTolerance)) && !prev.Broken:
			if employment == Casual {
				pairWarnings = append(pairWarnings, generic.Warning{
					Code:  generic.WarnBrokenShiftCasual,
					Title: "Short break (casual)",
					Message: fmt.Sprintf("Only %s hours rest before the shift starting %s (minimum %s). Casual employment: hours are not reclassified.",
						gap, next.Interval.Start.Format(timeLayout), minBreak),
				})
			} else {
				next.Broken = true
				pairWarnings = append(pairWarnings, generic.Warning{
					Code:  generic.WarnBrokenShift,
					Title: "Broken shift",
					Message: fmt.Sprintf("Only %s hours rest before the shift starting %s (minimum %s). Its %s hours are paid as a broken shift.",
						gap, next.Interval.Start.Format(timeLayout), minBreak, next.WorkingHours),
				})
			}
		}
		groups = append(groups, []int{i})
	}

	// ===== BROKEN SHIFT RECLASSIFICATION =====
	for i := range sorted {
		if sorted[i].Broken {
			sorted[i].Buckets = Buckets{BrokenShift: sorted[i].WorkingHours}
			sorted[i].Warnings = generic.WithoutOvertime(sorted[i].Warnings)
		}
	}

	// ===== CONSECUTIVE MERGE =====
	var mergeWarnings []generic.Warning
	for _, members := range groups {
		g := Group{Shifts: members, Hours: decimal.Zero}
		if len(members) > 1 && combinable(sorted, members) {
			g.Merged = true
			if w, ok := mergeGroup(sorted, members, r); ok {
				mergeWarnings = append(mergeWarnings, w)
			}
		}
		res.Groups = append(res.Groups, g)
	}

	// ===== MEAL ALLOWANCES =====
	var mealWarnings []generic.Warning
	for gi := range res.Groups {
		g := &res.Groups[gi]
		for _, i := range g.Shifts {
			g.Hours = g.Hours.Add(mealHours(sorted[i]))
		}
		if !r.MealAllowance1.IsPositive() {
			continue
		}
		if !g.Hours.LessThan(r.MealAllowance1Hours) {
			g.MealCount1 = 1
		}
		if !g.Hours.LessThan(r.MealAllowance2Hours) {
			g.MealCount2 = 1
		}
		if g.MealCount1+g.MealCount2 == 0 {
			continue
		}
		res.MealCount1 += g.MealCount1
		res.MealCount2 += g.MealCount2
		mealWarnings = append(mealWarnings, generic.Warning{
			Code:  generic.WarnMealAllowance,
			Title: "Meal allowance",
			Message: fmt.Sprintf("%s hours worked from %s: %d meal allowance(s) of $%s.",
				g.Hours, sorted[g.Shifts[0]].Interval.Start.Format(timeLayout),
				g.MealCount1+g.MealCount2, r.MealAllowance1.StringFixed(2)),
		})
	}
	res.MealAllowance = r.MealAllowance1.Mul(decimal.NewFromInt(int64(res.MealCount1 + res.MealCount2)))

	// ===== TOTALS =====
	for _, s := range sorted {
		res.Totals = res.Totals.Add(s.Buckets)
		res.Warnings = append(res.Warnings, s.Warnings...)
	}
	res.Warnings = append(res.Warnings, pairWarnings...)
	res.Warnings = append(res.Warnings, mergeWarnings...)
	res.Warnings = append(res.Warnings, mealWarnings...)
	return res
}

func isConsecutive(gap decimal.Decimal) bool {
	return !gap.LessThan(gapTolerance.Neg()) && !gap.GreaterThan(consecutiveMaxGap.Add(gapTolerance))
}

func minBreakAfter(prev *ClassifiedShift, r award.Rules) decimal.Decimal {
	if prev.Interval.IsSleepover && r.HasSleepover && prev.Interval.HasBreakAgreement {
		return r.MinBreakHoursSleepover
	}
	return r.MinBreakHours
}

// combinable reports whether every member is a plain, unbroken shift.
func combinable(shifts []ClassifiedShift, members []int) bool {
	for _, i := range members {
		if shifts[i].Broken || shifts[i].Buckets.HasSpecialRate() {
			return false
		}
	}
	return true
}

// mergeGroup replaces the members' normal/overtime hours with a split of
// their combined working hours. Earlier shifts fill the normal tier first.
func mergeGroup(shifts []ClassifiedShift, members []int, r award.Rules) (generic.Warning, bool) {
	combined := decimal.Zero
	for _, i := range members {
		combined = combined.Add(shifts[i].WorkingHours)
	}
	split, _ := SplitOvertime(combined, r)

	normalLeft, ot1Left := split.Normal, split.Overtime1
	for _, i := range members {
		h := shifts[i].WorkingHours
		n := decimal.Min(h, normalLeft)
		h = h.Sub(n)
		o1 := decimal.Min(h, ot1Left)
		h = h.Sub(o1)

		normalLeft = normalLeft.Sub(n)
		ot1Left = ot1Left.Sub(o1)
		shifts[i].Buckets = Buckets{Normal: n, Overtime1: o1, Overtime2: h}
		shifts[i].Warnings = generic.WithoutOvertime(shifts[i].Warnings)
	}

	overtime := split.Overtime1.Add(split.Overtime2)
	if !overtime.IsPositive() {
		return generic.Warning{}, false
	}
	first := shifts[members[0]].Interval.Start
	return generic.Warning{
		Code:  generic.WarnConsecutiveOvertime,
		Title: "Consecutive shift overtime",
		Message: fmt.Sprintf("%d consecutive shifts from %s total %s hours; %s hours are paid as overtime.",
			len(members), first.Format(timeLayout), combined, overtime),
	}, true
}

func mealHours(s ClassifiedShift) decimal.Decimal {
	if s.Interval.IsSleepover {
		return generic.ClampZero(s.Duration.Sub(sleepoverMealCut))
	}
	return s.WorkingHours
}

// =============================================================================
// CALCULATE - Classify then aggregate
// =============================================================================

// Calculate classifies every interval and aggregates the result. Any
// invalid interval aborts the whole calculation.
func Calculate(intervals []Interval, r award.Rules, employment EmploymentType) (Result, error) {
	classified := make([]ClassifiedShift, 0, len(intervals))
	for i, iv := range intervals {
		cs, err := Classify(iv, r)
		if err != nil {
			return Result{}, fmt.Errorf("shift %d: %w", i+1, err)
		}
		cs.Index = i
		classified = append(classified, cs)
	}
	return Aggregate(classified, r, employment), nil
}
