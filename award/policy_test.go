package award_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/award-engine/award"
	"github.com/warp/award-engine/generic"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, got.Equal(d(want)), "%s: got %s want %s", msg, got, want)
}

// =============================================================================
// DEFAULT RESOLUTION
// =============================================================================

func TestRules_EmptyPolicyGetsDefaults(t *testing.T) {
	// GIVEN: A policy with nothing but an id
	// WHEN: Resolving rules
	// THEN: Every value comes from the default table

	r, err := award.Policy{ID: "bare"}.Rules()
	require.NoError(t, err)

	assertDecimal(t, "1", r.NormalRate, "normalRate")
	assertDecimal(t, "1.5", r.OvertimeRate, "overtimeRate")
	assertDecimal(t, "2", r.Overtime2Rate, "overtime2Rate")
	assertDecimal(t, "1.5", r.SaturdayRate, "saturdayRate")
	assertDecimal(t, "2", r.SundayRate, "sundayRate")
	assertDecimal(t, "1.25", r.NightShiftRate, "nightShiftRate")
	assertDecimal(t, "1.15", r.AfternoonShiftRate, "afternoonShiftRate")
	assertDecimal(t, "8", r.MaxDailyHours, "maxDailyHours")
	assertDecimal(t, "10", r.Overtime2Hours, "overtime2Hours")
	assertDecimal(t, "10", r.MinBreakHours, "minBreakHours")
	assertDecimal(t, "8", r.MinBreakHoursSleepover, "minBreakHoursSleepover")

	assert.Equal(t, "14:00-22:00", r.AfternoonWindow.String())
	assert.Equal(t, "22:00-06:00", r.NightWindow.String())
	assert.Equal(t, generic.BoundaryHalfOpen, r.NightWindow.Boundary)
	assert.True(t, r.SecondTierReachable())
}

func TestRules_WeekendRateFallback(t *testing.T) {
	tests := []struct {
		name         string
		policy       award.Policy
		wantSaturday string
		wantSunday   string
	}{
		{
			name:         "legacy weekend only",
			policy:       award.Policy{WeekendRate: generic.Ptr(d("1.75"))},
			wantSaturday: "1.75",
			wantSunday:   "1.75",
		},
		{
			name: "split rates win over legacy",
			policy: award.Policy{
				WeekendRate:  generic.Ptr(d("1.75")),
				SaturdayRate: generic.Ptr(d("1.25")),
			},
			wantSaturday: "1.25",
			wantSunday:   "1.75",
		},
		{
			name:         "neither set",
			policy:       award.Policy{},
			wantSaturday: "1.5",
			wantSunday:   "2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := tt.policy.Rules()
			require.NoError(t, err)
			assertDecimal(t, tt.wantSaturday, r.SaturdayRate, "saturday")
			assertDecimal(t, tt.wantSunday, r.SundayRate, "sunday")
		})
	}
}

func TestRules_DegenerateOvertimeIsValid(t *testing.T) {
	// GIVEN: overtime2Hours below maxDailyHours
	// THEN: Rules resolve without error, second tier unreachable
	p := award.Policy{
		MaxDailyHours:  generic.Ptr(d("10")),
		Overtime2Hours: generic.Ptr(d("8")),
	}
	r, err := p.Rules()
	require.NoError(t, err)
	assert.False(t, r.SecondTierReachable())
}

// =============================================================================
// CONFIGURATION ERRORS
// =============================================================================

func TestRules_RejectsBadConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		policy award.Policy
		field  string
	}{
		{"malformed night start", award.Policy{NightShiftStart: "10pm"}, "nightShift"},
		{"empty afternoon window", award.Policy{AfternoonShiftStart: "15:00", AfternoonShiftEnd: "15:00"}, "afternoonShift"},
		{"unknown boundary", award.Policy{WindowBoundary: "open"}, "windowBoundary"},
		{"negative overtime rate", award.Policy{OvertimeRate: generic.Ptr(d("-1"))}, "overtimeRate"},
		{"zero max daily hours", award.Policy{MaxDailyHours: generic.Ptr(decimal.Zero)}, "maxDailyHours"},
		{"negative first aid cap", award.Policy{FirstAidMaxAmount: generic.Ptr(d("-5"))}, "firstAidMaxAmount"},
		{
			"duplicate custom allowance",
			award.Policy{CustomAllowances: []award.CustomAllowance{
				{Name: "tools", Amount: d("10")},
				{Name: "tools", Amount: d("12")},
			}},
			"customAllowances",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.policy.Rules()
			require.Error(t, err)
			assert.True(t, errors.Is(err, generic.ErrInvalidConfig))

			var cfgErr *generic.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestRules_ClosedBoundaryAppliesToBothWindows(t *testing.T) {
	r, err := award.Policy{WindowBoundary: generic.BoundaryClosed}.Rules()
	require.NoError(t, err)
	assert.Equal(t, generic.BoundaryClosed, r.AfternoonWindow.Boundary)
	assert.Equal(t, generic.BoundaryClosed, r.NightWindow.Boundary)
}

func TestRules_CustomAllowanceLookup(t *testing.T) {
	p := award.Policy{CustomAllowances: []award.CustomAllowance{
		{Name: "laundry", Amount: d("4.50")},
	}}
	r, err := p.Rules()
	require.NoError(t, err)

	a, ok := r.CustomAllowance("laundry")
	require.True(t, ok)
	assertDecimal(t, "4.5", a.Amount, "laundry")

	_, ok = r.CustomAllowance("uniform")
	assert.False(t, ok)
}

// =============================================================================
// PRESETS
// =============================================================================

func TestPresets_ResolveThroughLegacyWeekendRate(t *testing.T) {
	want := map[award.ID]struct{ weekend, night string }{
		"general-retail": {"2", "1.25"},
		"hospitality":    {"1.75", "1.15"},
		"manufacturing":  {"2", "1.3"},
	}

	presets := award.Presets()
	require.Len(t, presets, 3)
	for _, p := range presets {
		r, err := p.Rules()
		require.NoError(t, err, p.ID)
		w := want[p.ID]
		assertDecimal(t, w.weekend, r.SaturdayRate, string(p.ID)+" saturday")
		assertDecimal(t, w.weekend, r.SundayRate, string(p.ID)+" sunday")
		assertDecimal(t, w.night, r.NightShiftRate, string(p.ID)+" night")
		assertDecimal(t, "1.5", r.OvertimeRate, string(p.ID)+" overtime")
	}
}
