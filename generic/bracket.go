/*
bracket.go - Progressive bracket tables (income tax, loan repayment)

PURPOSE:
  A Table is an ordered list of income ranges with a rate each. The same
  table shape serves two DIFFERENT calculations, and they must stay
  different:

  ComputeTax (cumulative, marginal):
    Every bracket the income exceeds contributes its slice:
      tax = Σ (min(income, max) - min) * rate     for each bracket with income > min

  ComputeRepayment (single bracket, flat):
    Exactly one threshold applies, to the WHOLE income:
      repayment = income * rate                   for the bracket with min <= income <= max
    No match (e.g. income falls in a gap) → 0.

EXAMPLE (annual income 50,000):
  Tax brackets   0-18,200 @0, 18,201-45,000 @19%, 45,001-120,000 @32.5%
    tax = 26,799*0.19 + 4,999*0.325 = 6,716.485
  Repayment      0-51,550 @0 ...
    repayment = 0

PRECONDITIONS:
  Tables must be sorted ascending by Min and must not overlap. A table with
  gaps between brackets is accepted as-is; income inside a gap is taxed only
  for the brackets below it and matches no repayment threshold. Use
  Validate to reject unsorted or overlapping tables before calculating.

SEE ALSO:
  - pay/tables.go: Financial-year table sets and defaults
  - pay/calculator.go: Annualises gross pay and calls both functions
*/
package generic

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Bracket is an income range with a rate. A nil Max is unbounded.
type Bracket struct {
	Min  decimal.Decimal
	Max  *decimal.Decimal
	Rate decimal.Decimal
}

// Unbounded reports whether the bracket has no upper limit.
func (b Bracket) Unbounded() bool { return b.Max == nil }

// Table is an ordered list of brackets (ascending Min).
type Table []Bracket

// ComputeTax applies the cumulative marginal-rate model.
func ComputeTax(annual decimal.Decimal, table Table) decimal.Decimal {
	total := decimal.Zero
	for _, b := range table {
		if !annual.GreaterThan(b.Min) {
			continue
		}
		upper := annual
		if b.Max != nil && b.Max.LessThan(annual) {
			upper = *b.Max
		}
		total = total.Add(upper.Sub(b.Min).Mul(b.Rate))
	}
	return total
}

// ComputeRepayment applies the single matching threshold's rate to the
// whole amount. Bounds are inclusive on both ends.
func ComputeRepayment(annual decimal.Decimal, table Table) decimal.Decimal {
	for _, b := range table {
		if annual.LessThan(b.Min) {
			continue
		}
		if b.Max != nil && annual.GreaterThan(*b.Max) {
			continue
		}
		return annual.Mul(b.Rate)
	}
	return decimal.Zero
}

var one = decimal.NewFromInt(1)

// Validate rejects tables that break the ordering preconditions.
// name is used as the ConfigError field prefix ("tax", "repayment").
func (t Table) Validate(name string) error {
	if len(t) == 0 {
		return NewConfigError(name, "table has no brackets")
	}
	for i, b := range t {
		field := fmt.Sprintf("%s[%d]", name, i)
		if b.Min.IsNegative() {
			return NewConfigError(field, "min %s is negative", b.Min)
		}
		if b.Max != nil && !b.Max.GreaterThan(b.Min) {
			return NewConfigError(field, "max %s is not above min %s", b.Max, b.Min)
		}
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			return NewConfigError(field, "rate %s outside 0..1", b.Rate)
		}
		if i == 0 {
			continue
		}
		prev := t[i-1]
		if prev.Max == nil {
			return NewConfigError(field, "follows an unbounded bracket")
		}
		if !b.Min.GreaterThan(prev.Min) {
			return NewConfigError(field, "min %s not ascending", b.Min)
		}
		if b.Min.LessThan(*prev.Max) {
			return NewConfigError(field, "overlaps previous bracket ending at %s", prev.Max)
		}
	}
	return nil
}
