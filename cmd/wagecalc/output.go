package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/warp/award-engine/award"
	"github.com/warp/award-engine/generic"
	"github.com/warp/award-engine/pay"
	"github.com/warp/award-engine/shift"
)

const shiftLayout = "Mon 02 Jan 15:04"

func money(d decimal.Decimal) string { return "$" + d.StringFixed(2) }

func printSchedule(out io.Writer, res shift.Result) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "#\tSTART\tEND\tCATEGORY\tNORMAL\tOT1\tOT2\tSAT\tSUN\tAFT\tNIGHT\tBROKEN\t")
	for _, s := range res.Shifts {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t\n",
			s.Index+1,
			s.Interval.Start.Format(shiftLayout),
			s.Interval.End.Format(shiftLayout),
			s.Category,
			bucketCells(s.Buckets),
		)
	}
	fmt.Fprintf(w, "\tTOTAL\t\t\t%s\t\n", bucketCells(res.Totals))
	w.Flush()

	if res.MealCount1+res.MealCount2 > 0 {
		fmt.Fprintf(out, "\nMeal allowances: %d first, %d second (%s)\n", res.MealCount1, res.MealCount2, money(res.MealAllowance))
	}
	printWarnings(out, res.Warnings)
}

func bucketCells(b shift.Buckets) string {
	cells := ""
	for i, d := range []decimal.Decimal{b.Normal, b.Overtime1, b.Overtime2, b.Saturday, b.Sunday, b.Afternoon, b.Night, b.BrokenShift} {
		if i > 0 {
			cells += "\t"
		}
		cells += d.StringFixed(2)
	}
	return cells
}

func printPay(out io.Writer, r award.Rules, year string, res pay.Result) {
	fmt.Fprintf(out, "\n%s, tables %s, %d periods a year\n", r.AwardName, year, res.PeriodsPerYear)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	c := res.Components
	for _, row := range []struct {
		label string
		value decimal.Decimal
	}{
		{"Normal", c.Normal},
		{"Overtime 1", c.Overtime1},
		{"Overtime 2", c.Overtime2},
		{"Saturday", c.Saturday},
		{"Sunday", c.Sunday},
		{"Afternoon shift", c.Afternoon},
		{"Night shift", c.Night},
		{"Allowances", res.Allowances.Total()},
	} {
		if row.value.IsZero() {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t\n", row.label, money(row.value))
	}
	fmt.Fprintf(w, "Gross\t%s\t\n", money(res.Gross))
	fmt.Fprintf(w, "Tax\t%s\t\n", money(res.Tax))
	if res.LoanRepayment.IsPositive() {
		fmt.Fprintf(w, "Loan repayment\t%s\t\n", money(res.LoanRepayment))
	}
	fmt.Fprintf(w, "Net\t%s\t\n", money(res.Net))
	w.Flush()

	printWarnings(out, res.Warnings)
}

func printWarnings(out io.Writer, ws []generic.Warning) {
	if len(ws) == 0 {
		return
	}
	fmt.Fprintln(out, "\nWarnings:")
	for _, wn := range ws {
		fmt.Fprintf(out, "  [%s] %s: %s\n", wn.Code, wn.Title, wn.Message)
	}
}
