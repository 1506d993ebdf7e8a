package award

import (
	"github.com/shopspring/decimal"

	"github.com/warp/award-engine/generic"
)

// =============================================================================
// PRESET AWARDS
// =============================================================================
//
// The awards a fresh install starts with. They predate the split
// Saturday/Sunday rates and only carry a weekend multiplier, so they also
// exercise the legacy fallback.

func rate(s string) *decimal.Decimal { return generic.Ptr(decimal.RequireFromString(s)) }

// GeneralRetail is the General Retail Industry Award preset.
func GeneralRetail() Policy {
	return Policy{
		ID:             "general-retail",
		Name:           "General Retail Industry Award",
		NormalRate:     rate("1.0"),
		OvertimeRate:   rate("1.5"),
		WeekendRate:    rate("2.0"),
		NightShiftRate: rate("1.25"),
	}
}

// Hospitality is the Hospitality Industry Award preset.
func Hospitality() Policy {
	return Policy{
		ID:             "hospitality",
		Name:           "Hospitality Industry Award",
		NormalRate:     rate("1.0"),
		OvertimeRate:   rate("1.5"),
		WeekendRate:    rate("1.75"),
		NightShiftRate: rate("1.15"),
	}
}

// Manufacturing is the Manufacturing Award preset.
func Manufacturing() Policy {
	return Policy{
		ID:             "manufacturing",
		Name:           "Manufacturing Award",
		NormalRate:     rate("1.0"),
		OvertimeRate:   rate("1.5"),
		WeekendRate:    rate("2.0"),
		NightShiftRate: rate("1.3"),
	}
}

// Presets returns every preset award in display order.
func Presets() []Policy {
	return []Policy{GeneralRetail(), Hospitality(), Manufacturing()}
}
