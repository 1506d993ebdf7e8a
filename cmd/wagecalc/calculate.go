package main

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/warp/award-engine/pay"
	"github.com/warp/award-engine/shift"
)

var manualHourFlags = []string{"normal", "ot1", "ot2", "saturday", "sunday", "afternoon", "night", "broken"}

type calculateOptions struct {
	awardID  string
	rate     float64
	period   string
	year     string
	loan     bool
	schedule string

	normal, ot1, ot2, saturday, sunday, afternoon, night, broken float64

	manual, firstAidHours, sleepover float64
	meals1, meals2                   int
	custom                           []string
}

func (o calculateOptions) hours() shift.Buckets {
	return shift.Buckets{
		Normal:      decimal.NewFromFloat(o.normal),
		Overtime1:   decimal.NewFromFloat(o.ot1),
		Overtime2:   decimal.NewFromFloat(o.ot2),
		Saturday:    decimal.NewFromFloat(o.saturday),
		Sunday:      decimal.NewFromFloat(o.sunday),
		Afternoon:   decimal.NewFromFloat(o.afternoon),
		Night:       decimal.NewFromFloat(o.night),
		BrokenShift: decimal.NewFromFloat(o.broken),
	}
}

func (o calculateOptions) allowances() pay.Allowances {
	return pay.Allowances{
		Manual:          decimal.NewFromFloat(o.manual),
		MealCount1:      o.meals1,
		MealCount2:      o.meals2,
		FirstAidHours:   decimal.NewFromFloat(o.firstAidHours),
		SleepoverAmount: decimal.NewFromFloat(o.sleepover),
		CustomSelected:  o.custom,
	}
}

func calculateCmd(a *app) *cobra.Command {
	var o calculateOptions

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate gross pay, tax and net pay for one period",
		Long: `Prices either a schedule file (--schedule) or manual bucket hours
(--normal, --ot1, ...). With a schedule, meal allowance counts come from
the aggregated shifts and --meals1/--meals2 are ignored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if o.schedule != "" {
				for _, name := range manualHourFlags {
					if cmd.Flags().Changed(name) {
						return errors.New("--schedule cannot be combined with manual hour flags")
					}
				}
			}

			rules, err := a.rules(o.awardID)
			if err != nil {
				return err
			}
			tables, err := a.tables(o.year)
			if err != nil {
				return err
			}

			in := pay.Input{
				Rules:       &rules,
				BaseRate:    decimal.NewFromFloat(o.rate),
				Period:      pay.Period(o.period),
				Hours:       o.hours(),
				Allowances:  o.allowances(),
				HasLoanDebt: o.loan,
				Tables:      tables,
			}

			out := cmd.OutOrStdout()
			if o.schedule != "" {
				res, err := a.schedule(o.schedule, rules)
				if err != nil {
					return err
				}
				printSchedule(out, res)
				in.Hours = res.Totals
				in.Allowances = in.Allowances.WithMeals(res)
			}

			res, err := pay.Calculate(in)
			if err != nil {
				return err
			}
			printPay(out, rules, tables.Year, res)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.awardID, "award", "", "award id")
	f.Float64Var(&o.rate, "rate", 0, "base hourly rate")
	f.StringVar(&o.period, "period", string(pay.Weekly), "pay period (weekly or fortnightly)")
	f.StringVar(&o.year, "year", pay.DefaultYear, "financial year of the tax tables")
	f.BoolVar(&o.loan, "loan", false, "apply study loan repayment")
	f.StringVar(&o.schedule, "schedule", "", "schedule file to classify instead of manual hours")

	f.Float64Var(&o.normal, "normal", 0, "normal hours")
	f.Float64Var(&o.ot1, "ot1", 0, "tier-one overtime hours")
	f.Float64Var(&o.ot2, "ot2", 0, "tier-two overtime hours")
	f.Float64Var(&o.saturday, "saturday", 0, "Saturday hours")
	f.Float64Var(&o.sunday, "sunday", 0, "Sunday hours")
	f.Float64Var(&o.afternoon, "afternoon", 0, "afternoon shift hours")
	f.Float64Var(&o.night, "night", 0, "night shift hours")
	f.Float64Var(&o.broken, "broken", 0, "broken shift hours (informational)")

	f.Float64Var(&o.manual, "allowance", 0, "manual allowance amount")
	f.IntVar(&o.meals1, "meals1", 0, "first meal allowance count (manual hours only)")
	f.IntVar(&o.meals2, "meals2", 0, "second meal allowance count (manual hours only)")
	f.Float64Var(&o.firstAidHours, "first-aid-hours", 0, "hours claimed for first aid allowance")
	f.Float64Var(&o.sleepover, "sleepover", 0, "sleepover allowance amount")
	f.StringSliceVar(&o.custom, "custom", nil, "custom allowance names to claim")

	_ = cmd.MarkFlagRequired("award")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}
