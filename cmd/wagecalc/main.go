/*
wagecalc - command-line pay calculator

PURPOSE:
  Runs the engine against local files, without a server or database.
  Awards and tables default to the built-in presets.

COMMANDS:
  hours      Classify and aggregate a schedule file
  calculate  Price a schedule file or manual hours
  defaults   Print preset awards or default tables (json or yaml)

EXAMPLES:
  wagecalc hours week.yaml --award hospitality
  wagecalc calculate --award general-retail --rate 25 --normal 38
  wagecalc calculate --schedule week.json --awards my-awards.yaml --award care --rate 31.5 --loan
  wagecalc defaults awards --format yaml > awards.yaml
  wagecalc calculate --tax-tables tax.json --repayment-tables loan.json --award care --rate 31.5 --normal 38

SEE ALSO:
  - factory/: File schemas for awards, tables and schedules
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/award-engine/award"
	"github.com/warp/award-engine/config"
	"github.com/warp/award-engine/factory"
	"github.com/warp/award-engine/generic"
	"github.com/warp/award-engine/pay"
)

// app carries what the persistent flags resolve to.
type app struct {
	logger *zap.Logger

	logLevel   string
	awardsPath string
	tablesPath string
	taxPath    string
	repayPath  string
	timezone   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "wagecalc",
		Short:         "Classify shift hours and calculate pay under an award",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := config.NewLogger(a.logLevel, "console")
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.awardsPath, "awards", "", "awards file, json or yaml (default: presets)")
	root.PersistentFlags().StringVar(&a.tablesPath, "tables", "", "table sets file, json or yaml (default: built-in 2024-2025)")
	root.PersistentFlags().StringVar(&a.taxPath, "tax-tables", "", "year-keyed tax brackets file, used with --repayment-tables")
	root.PersistentFlags().StringVar(&a.repayPath, "repayment-tables", "", "year-keyed repayment thresholds file, used with --tax-tables")
	root.MarkFlagsRequiredTogether("tax-tables", "repayment-tables")
	root.MarkFlagsMutuallyExclusive("tables", "tax-tables")
	root.PersistentFlags().StringVar(&a.timezone, "tz", "Local", "time zone for timestamps without an offset")

	root.AddCommand(hoursCmd(a))
	root.AddCommand(calculateCmd(a))
	root.AddCommand(defaultsCmd())

	return root
}

// =============================================================================
// INPUT LOADING
// =============================================================================

func (a *app) rules(id string) (award.Rules, error) {
	policies := award.Presets()
	if a.awardsPath != "" {
		data, err := os.ReadFile(a.awardsPath)
		if err != nil {
			return award.Rules{}, err
		}
		policies, err = factory.ParseAwards(data, factory.FormatFromPath(a.awardsPath))
		if err != nil {
			return award.Rules{}, err
		}
		a.logger.Debug("awards loaded", zap.String("path", a.awardsPath), zap.Int("count", len(policies)))
	}

	for _, p := range policies {
		if string(p.ID) == id {
			return p.Rules()
		}
	}
	return award.Rules{}, fmt.Errorf("%w: %s", generic.ErrAwardNotFound, id)
}

func (a *app) tables(year string) (pay.TableSet, error) {
	sets := pay.DefaultTableSets()
	switch {
	case a.tablesPath != "":
		data, err := os.ReadFile(a.tablesPath)
		if err != nil {
			return pay.TableSet{}, err
		}
		sets, err = factory.ParseTableSets(data, factory.FormatFromPath(a.tablesPath))
		if err != nil {
			return pay.TableSet{}, err
		}
		a.logger.Debug("tables loaded", zap.String("path", a.tablesPath), zap.Strings("years", sets.Years()))

	case a.taxPath != "" || a.repayPath != "":
		tax, err := readBracketsByYear(a.taxPath)
		if err != nil {
			return pay.TableSet{}, err
		}
		repayment, err := readBracketsByYear(a.repayPath)
		if err != nil {
			return pay.TableSet{}, err
		}
		sets, err = factory.CombineTables(tax, repayment)
		if err != nil {
			return pay.TableSet{}, err
		}
		a.logger.Debug("tables combined",
			zap.String("tax", a.taxPath),
			zap.String("repayment", a.repayPath),
			zap.Strings("years", sets.Years()),
		)
	}
	return sets.Lookup(year)
}

func readBracketsByYear(path string) (map[string]generic.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return factory.ParseBracketsByYear(data, factory.FormatFromPath(path))
}
