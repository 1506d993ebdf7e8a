package factory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/award-engine/generic"
	"github.com/warp/award-engine/pay"
)

// =============================================================================
// BRACKET TABLE SCHEMA
// =============================================================================

// BracketJSON is one bracket. Max is null (or omitted) for the unbounded
// top bracket. Rate is a fraction, 0.19 for 19%.
type BracketJSON struct {
	Min  float64  `json:"min" yaml:"min"`
	Max  *float64 `json:"max" yaml:"max"`
	Rate float64  `json:"rate" yaml:"rate"`
}

// TableSetJSON is both tables for one year.
type TableSetJSON struct {
	Year                string        `json:"year" yaml:"year"`
	TaxBrackets         []BracketJSON `json:"taxBrackets" yaml:"taxBrackets"`
	RepaymentThresholds []BracketJSON `json:"repaymentThresholds" yaml:"repaymentThresholds"`
}

// ToTable converts brackets. No validation; see generic.Table.Validate.
func ToTable(brackets []BracketJSON) generic.Table {
	table := make(generic.Table, 0, len(brackets))
	for _, b := range brackets {
		table = append(table, generic.Bracket{
			Min:  decimal.NewFromFloat(b.Min),
			Max:  optional(b.Max),
			Rate: decimal.NewFromFloat(b.Rate),
		})
	}
	return table
}

// FromTable converts a table into its document form.
func FromTable(table generic.Table) []BracketJSON {
	out := make([]BracketJSON, 0, len(table))
	for _, b := range table {
		out = append(out, BracketJSON{
			Min:  b.Min.InexactFloat64(),
			Max:  floatPtr(b.Max),
			Rate: b.Rate.InexactFloat64(),
		})
	}
	return out
}

// ToTableSet converts and validates one year's tables.
func ToTableSet(tj TableSetJSON) (pay.TableSet, error) {
	ts := pay.TableSet{
		Year:      tj.Year,
		Tax:       ToTable(tj.TaxBrackets),
		Repayment: ToTable(tj.RepaymentThresholds),
	}
	if err := ts.Validate(); err != nil {
		return pay.TableSet{}, err
	}
	return ts, nil
}

func FromTableSet(ts pay.TableSet) TableSetJSON {
	return TableSetJSON{
		Year:                ts.Year,
		TaxBrackets:         FromTable(ts.Tax),
		RepaymentThresholds: FromTable(ts.Repayment),
	}
}

// =============================================================================
// YEAR-KEYED DOCUMENTS
// =============================================================================

// ParseBracketsByYear decodes the {"2024-2025": [...]} document used for
// exporting one kind of table across years.
func ParseBracketsByYear(data []byte, format Format) (map[string]generic.Table, error) {
	var doc map[string][]BracketJSON
	if err := decode(data, format, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse bracket tables: %w", err)
	}
	out := make(map[string]generic.Table, len(doc))
	for year, brackets := range doc {
		out[year] = ToTable(brackets)
	}
	return out, nil
}

// EncodeBracketsByYear is the inverse of ParseBracketsByYear.
func EncodeBracketsByYear(tables map[string]generic.Table, format Format) ([]byte, error) {
	doc := make(map[string][]BracketJSON, len(tables))
	for year, table := range tables {
		doc[year] = FromTable(table)
	}
	return encode(doc, format)
}

// CombineTables pairs separately exported tax and repayment documents into
// validated table sets. A year must appear in both.
func CombineTables(tax, repayment map[string]generic.Table) (pay.TableSets, error) {
	sets := make(pay.TableSets, len(tax))
	for year, t := range tax {
		r, ok := repayment[year]
		if !ok {
			return nil, generic.NewConfigError(year, "has tax brackets but no repayment thresholds")
		}
		ts := pay.TableSet{Year: year, Tax: t, Repayment: r}
		if err := ts.Validate(); err != nil {
			return nil, fmt.Errorf("year %s: %w", year, err)
		}
		sets[year] = ts
	}
	for year := range repayment {
		if _, ok := tax[year]; !ok {
			return nil, generic.NewConfigError(year, "has repayment thresholds but no tax brackets")
		}
	}
	return sets, nil
}

// ParseTableSets decodes a list of TableSetJSON documents.
func ParseTableSets(data []byte, format Format) (pay.TableSets, error) {
	var docs []TableSetJSON
	if err := decode(data, format, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse table sets: %w", err)
	}
	sets := make(pay.TableSets, len(docs))
	for _, tj := range docs {
		ts, err := ToTableSet(tj)
		if err != nil {
			return nil, fmt.Errorf("year %s: %w", tj.Year, err)
		}
		sets[ts.Year] = ts
	}
	return sets, nil
}

// EncodeTableSets writes table sets ordered by year.
func EncodeTableSets(sets pay.TableSets, format Format) ([]byte, error) {
	docs := make([]TableSetJSON, 0, len(sets))
	for _, year := range sets.Years() {
		docs = append(docs, FromTableSet(sets[year]))
	}
	return encode(docs, format)
}
