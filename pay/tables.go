package pay

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/award-engine/generic"
)

// DefaultYear is the financial year whose tables ship with the engine.
const DefaultYear = "2024-2025"

// TableSet holds the tax brackets and loan repayment thresholds for one
// financial year.
type TableSet struct {
	Year      string
	Tax       generic.Table
	Repayment generic.Table
}

// Validate checks both tables.
func (ts TableSet) Validate() error {
	if ts.Year == "" {
		return generic.NewConfigError("year", "financial year is required")
	}
	if err := ts.Tax.Validate("taxBrackets"); err != nil {
		return err
	}
	return ts.Repayment.Validate("repaymentThresholds")
}

// TableSets indexes table sets by financial year.
type TableSets map[string]TableSet

// Lookup returns the tables for year.
func (t TableSets) Lookup(year string) (TableSet, error) {
	ts, ok := t[year]
	if !ok {
		return TableSet{}, fmt.Errorf("%w: %s", generic.ErrTableNotFound, year)
	}
	return ts, nil
}

// Years returns every year held, sorted.
func (t TableSets) Years() []string {
	years := make([]string, 0, len(t))
	for y := range t {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

// =============================================================================
// DEFAULT TABLES - 2024-2025 resident rates and study loan thresholds
// =============================================================================

func br(min, max int64, rate string) generic.Bracket {
	b := generic.Bracket{Min: decimal.NewFromInt(min), Rate: decimal.RequireFromString(rate)}
	if max >= 0 {
		b.Max = generic.Ptr(decimal.NewFromInt(max))
	}
	return b
}

const unbounded = -1

// DefaultTaxTable returns the 2024-2025 income tax brackets.
func DefaultTaxTable() generic.Table {
	return generic.Table{
		br(0, 18200, "0"),
		br(18201, 45000, "0.19"),
		br(45001, 120000, "0.325"),
		br(120001, 180000, "0.37"),
		br(180001, unbounded, "0.45"),
	}
}

// DefaultRepaymentTable returns the 2024-2025 loan repayment thresholds.
func DefaultRepaymentTable() generic.Table {
	return generic.Table{
		br(0, 51550, "0"),
		br(51551, 59518, "0.01"),
		br(59519, 63089, "0.02"),
		br(63090, 66875, "0.025"),
		br(66876, 70888, "0.03"),
		br(70889, 75140, "0.035"),
		br(75141, 79649, "0.04"),
		br(79650, 84429, "0.045"),
		br(84430, 89494, "0.05"),
		br(89495, 94865, "0.055"),
		br(94866, 100557, "0.06"),
		br(100558, 106590, "0.065"),
		br(106591, 112985, "0.07"),
		br(112986, 119764, "0.075"),
		br(119765, 126950, "0.08"),
		br(126951, 134568, "0.085"),
		br(134569, 142642, "0.09"),
		br(142643, 151200, "0.095"),
		br(151201, unbounded, "0.1"),
	}
}

// DefaultTableSets returns the shipped tables keyed by year.
func DefaultTableSets() TableSets {
	return TableSets{
		DefaultYear: {
			Year:      DefaultYear,
			Tax:       DefaultTaxTable(),
			Repayment: DefaultRepaymentTable(),
		},
	}
}
