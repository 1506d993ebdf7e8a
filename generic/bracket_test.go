package generic_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/award-engine/generic"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func bracket(min, max, rate string) generic.Bracket {
	b := generic.Bracket{Min: d(min), Rate: d(rate)}
	if max != "" {
		b.Max = generic.Ptr(d(max))
	}
	return b
}

// taxTable is the 2024-2025 resident table shipped as a default.
func taxTable() generic.Table {
	return generic.Table{
		bracket("0", "18200", "0"),
		bracket("18201", "45000", "0.19"),
		bracket("45001", "120000", "0.325"),
		bracket("120001", "180000", "0.37"),
		bracket("180001", "", "0.45"),
	}
}

func contiguousTable() generic.Table {
	return generic.Table{
		bracket("0", "10000", "0"),
		bracket("10000", "50000", "0.2"),
		bracket("50000", "", "0.4"),
	}
}

// =============================================================================
// COMPUTE TAX
// =============================================================================

func TestComputeTax_MarginalContributions(t *testing.T) {
	tests := []struct {
		name   string
		income string
		want   string
	}{
		{"zero income", "0", "0"},
		{"inside tax-free bracket", "18000", "0"},
		{"second bracket", "30000", "2241.81"},         // (30000-18201)*0.19
		{"third bracket", "50000", "6716.485"},         // 26799*0.19 + 4999*0.325
		{"top bracket", "200000", "60665.665"},         // every slice below plus 19999*0.45
		{"exact bracket max", "45000", "5091.81"},      // 26799*0.19
		{"just above bracket min", "45001", "5091.81"}, // (45001-45001)*0.325 adds nothing
		{"one dollar into third", "45002", "5092.135"}, // + 1*0.325
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := generic.ComputeTax(d(tt.income), taxTable())
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestComputeTax_NonDecreasingAndContinuous(t *testing.T) {
	// GIVEN: A contiguous ascending table
	// WHEN: Income rises in small steps
	// THEN: Tax never decreases and never jumps by more than step * top rate
	table := contiguousTable()
	step := d("250")
	maxJump := step.Mul(d("0.4"))

	prev := generic.ComputeTax(decimal.Zero, table)
	for income := step; income.LessThan(d("120000")); income = income.Add(step) {
		cur := generic.ComputeTax(income, table)
		require.False(t, cur.LessThan(prev), "tax decreased at %s", income)
		require.False(t, cur.Sub(prev).GreaterThan(maxJump), "tax jumped at %s", income)
		prev = cur
	}
}

func TestComputeTax_EqualsSumOfSlices(t *testing.T) {
	table := contiguousTable()
	income := d("73500")

	// 0 + 40000*0.2 + 23500*0.4
	want := d("8000").Add(d("9400"))
	assert.True(t, generic.ComputeTax(income, table).Equal(want))
}

// =============================================================================
// COMPUTE REPAYMENT
// =============================================================================

func repaymentTable() generic.Table {
	return generic.Table{
		bracket("0", "51550", "0"),
		bracket("51551", "59518", "0.01"),
		bracket("59519", "63089", "0.02"),
		bracket("63090", "", "0.025"),
	}
}

func TestComputeRepayment_SingleBracketNotCumulative(t *testing.T) {
	// GIVEN: income in the third threshold
	// THEN: the whole income is charged at that threshold's rate only
	income := d("60000")
	got := generic.ComputeRepayment(income, repaymentTable())
	assert.True(t, got.Equal(d("1200")), "got %s", got)

	// The cumulative model on the same table would differ
	cumulative := generic.ComputeTax(income, repaymentTable())
	assert.False(t, got.Equal(cumulative))
}

func TestComputeRepayment_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		income string
		want   string
	}{
		{"below first paying threshold", "40000", "0"},
		{"inclusive min", "51551", "515.51"},
		{"inclusive max", "59518", "595.18"},
		{"in the gap between thresholds", "51550.5", "0"},
		{"unbounded top", "100000", "2500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := generic.ComputeRepayment(d(tt.income), repaymentTable())
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestComputeRepayment_BelowLowestMin(t *testing.T) {
	table := generic.Table{bracket("1000", "", "0.1")}
	assert.True(t, generic.ComputeRepayment(d("999"), table).IsZero())
}

// =============================================================================
// VALIDATE
// =============================================================================

func TestTableValidate(t *testing.T) {
	require.NoError(t, taxTable().Validate("tax"))
	require.NoError(t, contiguousTable().Validate("tax"))

	tests := []struct {
		name  string
		table generic.Table
	}{
		{"empty", generic.Table{}},
		{"overlap", generic.Table{bracket("0", "100", "0"), bracket("50", "", "0.1")}},
		{"unsorted", generic.Table{bracket("100", "200", "0"), bracket("0", "", "0.1")}},
		{"unbounded not last", generic.Table{bracket("0", "", "0"), bracket("100", "", "0.1")}},
		{"rate above one", generic.Table{bracket("0", "", "1.5")}},
		{"negative min", generic.Table{bracket("-1", "", "0.1")}},
		{"max below min", generic.Table{bracket("100", "50", "0.1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate("tax")
			require.Error(t, err)
			assert.True(t, errors.Is(err, generic.ErrInvalidConfig))
			var cfgErr *generic.ConfigError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}
