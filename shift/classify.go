/*
classify.go - Single-shift classification

ALGORITHM:
  1. duration = end - start                 (end <= start → InvalidIntervalError)
  2. sleepover: working = (sleepStart - start) + (end - sleepEnd)
     sleepStart is the first occurrence of the sleeper start at/after the
     shift start, sleepEnd the first sleeper end after that. A block that
     does not fit inside the shift is discarded with a warning.
  3. category: first rule in classificationRules that matches
  4. buckets: all working hours into the category's bucket, except
     normal, which is split by SplitOvertime

EXAMPLE (sleepover 20:00 → 08:00, default 22:00-06:00 block):
  before = 2h, after = 2h, working = 4h, category = night
*/
package shift

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/award-engine/award"
	"github.com/warp/award-engine/generic"
)

var (
	defaultSleeperStart = generic.MustParseTimeOfDay(award.DefaultSleeperStart)
	defaultSleeperEnd   = generic.MustParseTimeOfDay(award.DefaultSleeperEnd)
)

// Classify categorizes one shift under the given rules.
func Classify(iv Interval, r award.Rules) (ClassifiedShift, error) {
	if iv.Start.IsZero() || iv.End.IsZero() {
		return ClassifiedShift{}, generic.ErrMissingTimestamp
	}
	if !iv.End.After(iv.Start) {
		return ClassifiedShift{}, &generic.InvalidIntervalError{Start: iv.Start, End: iv.End}
	}

	cs := ClassifiedShift{
		Interval:       iv,
		Duration:       generic.Hours(iv.End.Sub(iv.Start)),
		SleepoverHours: decimal.Zero,
	}
	cs.WorkingHours = cs.Duration

	if iv.IsSleepover {
		working, sleeping, ok := splitSleepover(iv)
		if ok {
			cs.WorkingHours = working
			cs.SleepoverHours = sleeping
		} else {
			cs.Warnings = append(cs.Warnings, generic.Warning{
				Code:  generic.WarnSleepoverOutside,
				Title: "Sleepover outside shift",
				Message: fmt.Sprintf("The sleepover period does not fall within the shift %s to %s; all %s hours are counted as working time.",
					iv.Start.Format(timeLayout), iv.End.Format(timeLayout), cs.Duration),
			})
		}
	}

	cs.Category = Categorize(iv, r)
	switch cs.Category {
	case CategorySaturday:
		cs.Buckets.Saturday = cs.WorkingHours
	case CategorySunday:
		cs.Buckets.Sunday = cs.WorkingHours
	case CategoryAfternoon:
		cs.Buckets.Afternoon = cs.WorkingHours
	case CategoryNight:
		cs.Buckets.Night = cs.WorkingHours
	default:
		split, warnings := SplitOvertime(cs.WorkingHours, r)
		cs.Buckets = split
		cs.Warnings = append(cs.Warnings, warnings...)
	}
	return cs, nil
}

const timeLayout = "Mon 02 Jan 15:04"

// splitSleepover returns working and sleeping hours, or ok=false when the
// resolved block does not lie inside the shift.
func splitSleepover(iv Interval) (working, sleeping decimal.Decimal, ok bool) {
	startTOD, endTOD := defaultSleeperStart, defaultSleeperEnd
	if iv.SleeperStart != nil {
		startTOD = *iv.SleeperStart
	}
	if iv.SleeperEnd != nil {
		endTOD = *iv.SleeperEnd
	}

	sleepStart := startTOD.OnOrAfter(iv.Start)
	sleepEnd := endTOD.After(sleepStart)
	if !sleepStart.Before(iv.End) || sleepEnd.After(iv.End) {
		return decimal.Zero, decimal.Zero, false
	}

	before := sleepStart.Sub(iv.Start)
	after := iv.End.Sub(sleepEnd)
	return generic.Hours(before + after), generic.Hours(sleepEnd.Sub(sleepStart)), true
}

// =============================================================================
// CATEGORY RULES - Ordered, first match wins
// =============================================================================

type classificationRule struct {
	category Category
	matches  func(iv Interval, r award.Rules) bool
}

var classificationRules = []classificationRule{
	{CategorySaturday, func(iv Interval, _ award.Rules) bool { return touchesWeekday(iv, time.Saturday) }},
	{CategorySunday, func(iv Interval, _ award.Rules) bool { return touchesWeekday(iv, time.Sunday) }},
	{CategoryAfternoon, func(iv Interval, r award.Rules) bool { return r.AfternoonWindow.Contains(iv.End) }},
	{CategoryNight, func(iv Interval, r award.Rules) bool { return iv.IsSleepover || r.NightWindow.Contains(iv.End) }},
}

// Categorize returns the category of a shift. Saturday and Sunday match
// when either the start or the end date falls on that day; the window
// categories test the end time only.
func Categorize(iv Interval, r award.Rules) Category {
	for _, rule := range classificationRules {
		if rule.matches(iv, r) {
			return rule.category
		}
	}
	return CategoryNormal
}

func touchesWeekday(iv Interval, day time.Weekday) bool {
	return iv.Start.Weekday() == day || iv.End.Weekday() == day
}

// =============================================================================
// OVERTIME SPLIT
// =============================================================================

// SplitOvertime divides plain hours into normal and overtime tiers.
//
//	T2 <= D           → normal = min(h, D), overtime1 = rest
//	h > T2            → normal = D, overtime1 = T2 - D, overtime2 = h - T2
//	D < h <= T2       → normal = D, overtime1 = h - D
//	h <= D            → normal = h
//
// where D is maxDailyHours and T2 is overtime2Hours.
func SplitOvertime(hours decimal.Decimal, r award.Rules) (Buckets, []generic.Warning) {
	maxDaily, tier2 := r.MaxDailyHours, r.Overtime2Hours

	if !hours.GreaterThan(maxDaily) {
		return Buckets{Normal: hours}, nil
	}

	if !r.SecondTierReachable() {
		b := Buckets{Normal: maxDaily, Overtime1: hours.Sub(maxDaily)}
		return b, []generic.Warning{{
			Code:  generic.WarnOvertimeSingleTier,
			Title: "Overtime",
			Message: fmt.Sprintf("%s hours exceed the %s hour daily maximum; all %s excess hours are paid at the first overtime rate because the second tier starts at %s hours.",
				hours, maxDaily, b.Overtime1, tier2),
		}}
	}

	if hours.GreaterThan(tier2) {
		b := Buckets{Normal: maxDaily, Overtime1: tier2.Sub(maxDaily), Overtime2: hours.Sub(tier2)}
		return b, []generic.Warning{{
			Code:  generic.WarnOvertime,
			Title: "Overtime",
			Message: fmt.Sprintf("%s hours exceed %s hours; %s hours at the first overtime rate and %s hours at the second.",
				hours, tier2, b.Overtime1, b.Overtime2),
		}}
	}

	b := Buckets{Normal: maxDaily, Overtime1: hours.Sub(maxDaily)}
	return b, []generic.Warning{{
		Code:    generic.WarnOvertime,
		Title:   "Overtime",
		Message: fmt.Sprintf("%s hours exceed the %s hour daily maximum; %s hours at the overtime rate.", hours, maxDaily, b.Overtime1),
	}}
}
