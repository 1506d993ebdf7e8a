package award

import "github.com/shopspring/decimal"

// Defaults applied by Policy.Rules when a field is absent.
var (
	DefaultNormalRate         = decimal.NewFromInt(1)
	DefaultOvertimeRate       = decimal.RequireFromString("1.5")
	DefaultOvertime2Rate      = decimal.NewFromInt(2)
	DefaultSaturdayRate       = decimal.RequireFromString("1.5")
	DefaultSundayRate         = decimal.NewFromInt(2)
	DefaultAfternoonShiftRate = decimal.RequireFromString("1.15")
	DefaultNightShiftRate     = decimal.RequireFromString("1.25")

	DefaultMaxDailyHours  = decimal.NewFromInt(8)
	DefaultOvertime2Hours = decimal.NewFromInt(10)

	DefaultMinBreakHours          = decimal.NewFromInt(10)
	DefaultMinBreakHoursSleepover = decimal.NewFromInt(8)

	DefaultMealAllowance1Hours = decimal.NewFromInt(5)
	DefaultMealAllowance2Hours = decimal.NewFromInt(10)
)

const (
	DefaultAfternoonShiftStart = "14:00"
	DefaultAfternoonShiftEnd   = "22:00"
	DefaultNightShiftStart     = "22:00"
	DefaultNightShiftEnd       = "06:00"

	// Sleepover block used when a sleepover shift gives no explicit times.
	DefaultSleeperStart = "22:00"
	DefaultSleeperEnd   = "06:00"
)
