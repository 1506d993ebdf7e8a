package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/award-engine/award"
	"github.com/warp/award-engine/factory"
	"github.com/warp/award-engine/shift"
)

func hoursCmd(a *app) *cobra.Command {
	var awardID string

	cmd := &cobra.Command{
		Use:   "hours <schedule-file>",
		Short: "Classify and aggregate the shifts in a schedule file",
		Long: `Reads a schedule (json or yaml, by extension) with an employmentType and a
list of shifts, then prints the hours per bucket for every shift, the
period totals, meal allowance counts and any warnings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := a.rules(awardID)
			if err != nil {
				return err
			}
			res, err := a.schedule(args[0], rules)
			if err != nil {
				return err
			}
			printSchedule(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringVar(&awardID, "award", "", "award id")
	_ = cmd.MarkFlagRequired("award")
	return cmd
}

func (a *app) location() (*time.Location, error) {
	loc, err := time.LoadLocation(a.timezone)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", a.timezone, err)
	}
	return loc, nil
}

func (a *app) schedule(path string, rules award.Rules) (shift.Result, error) {
	loc, err := a.location()
	if err != nil {
		return shift.Result{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return shift.Result{}, err
	}
	intervals, employment, err := factory.ParseSchedule(data, factory.FormatFromPath(path), loc)
	if err != nil {
		return shift.Result{}, err
	}
	a.logger.Debug("schedule loaded",
		zap.String("path", path),
		zap.Int("shifts", len(intervals)),
		zap.String("employment", string(employment)),
	)
	return shift.Calculate(intervals, rules, employment)
}
