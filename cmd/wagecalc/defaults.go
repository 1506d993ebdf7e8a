package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warp/award-engine/award"
	"github.com/warp/award-engine/factory"
	"github.com/warp/award-engine/generic"
	"github.com/warp/award-engine/pay"
)

func defaultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Print built-in awards or tables",
		Long: `Prints the preset awards or default tables in the import format, ready to
edit and pass back with --awards or --tables. The tax and repayment dumps
are year-keyed and go back in with --tax-tables and --repayment-tables.`,
	}

	cmd.AddCommand(defaultsDumpCmd("awards", "Print the preset awards", func(f factory.Format) ([]byte, error) {
		return factory.EncodeAwards(award.Presets(), f)
	}))
	cmd.AddCommand(defaultsDumpCmd("tables", "Print the default tax and repayment tables", func(f factory.Format) ([]byte, error) {
		return factory.EncodeTableSets(pay.DefaultTableSets(), f)
	}))
	cmd.AddCommand(defaultsDumpCmd("tax", "Print the default tax brackets keyed by year", func(f factory.Format) ([]byte, error) {
		return factory.EncodeBracketsByYear(byYear(func(ts pay.TableSet) generic.Table { return ts.Tax }), f)
	}))
	cmd.AddCommand(defaultsDumpCmd("repayment", "Print the default repayment thresholds keyed by year", func(f factory.Format) ([]byte, error) {
		return factory.EncodeBracketsByYear(byYear(func(ts pay.TableSet) generic.Table { return ts.Repayment }), f)
	}))
	return cmd
}

func defaultsDumpCmd(use, short string, encode func(factory.Format) ([]byte, error)) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := factory.Format(format)
			if f != factory.JSON && f != factory.YAML {
				return fmt.Errorf("format %q: want json or yaml", format)
			}
			data, err := encode(f)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", string(factory.JSON), "output format (json or yaml)")
	return cmd
}

func byYear(pick func(pay.TableSet) generic.Table) map[string]generic.Table {
	sets := pay.DefaultTableSets()
	out := make(map[string]generic.Table, len(sets))
	for year, ts := range sets {
		out[year] = pick(ts)
	}
	return out
}
