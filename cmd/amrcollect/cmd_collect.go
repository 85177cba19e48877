package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/maldi-lab/amrcollect/internal/projectconfig"
	"github.com/maldi-lab/amrcollect/internal/reporting"
	"github.com/maldi-lab/amrcollect/internal/table"
)

func newCollectCommand() *cobra.Command {
	var (
		opts          loadOptions
		format        string
		outputPath    string
		ciMode        string
		bootstrapSeed int64
	)

	cmd := &cobra.Command{
		Use:   "collect <path-or-dir> [more-files...]",
		Short: "Aggregate result files into a mean/std table",
		Long: `Collect result files and print the grouped summary table.

A single directory argument is scanned recursively for result files; any
other argument list is taken literally. Rows sharing species, antibiotic,
model and stratification fields are repeated seeds of one scenario and are
pooled into mean and standard deviation per metric.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format, "table", "csv", "json"); err != nil {
				return err
			}
			ci := reporting.CIMode(ciMode)
			if ci != reporting.CINone && ci != reporting.CINormal && ci != reporting.CIBootstrap {
				return fmt.Errorf("unsupported --ci mode %q: must be normal or bootstrap", ciMode)
			}

			cfg, err := projectconfig.Load(".")
			if err != nil {
				return err
			}

			files, err := resolveFiles(args, cfg, &opts, cmd.Flags().Changed("exclude"))
			if err != nil {
				return err
			}

			rows, err := loadRows(files, opts)
			if err != nil {
				return err
			}

			agg := table.Aggregate(rows)

			out := cmd.OutOrStdout()
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close() //nolint:errcheck
				out = f
			}

			return writeSummary(out, agg, format, reporting.Options{
				CI:            ci,
				BootstrapSeed: bootstrapSeed,
			})
		},
	}

	cmd.Flags().StringVar(&opts.exclude, "exclude", "", "Drop paths containing this substring")
	cmd.Flags().BoolVar(&opts.parallel, "parallel", false, "Load files concurrently")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Number of concurrent workers (default: 4, requires --parallel)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, csv or json")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write output to a file instead of stdout")
	cmd.Flags().StringVar(&ciMode, "ci", "", "Add 95% confidence interval columns: normal or bootstrap")
	cmd.Flags().Int64Var(&bootstrapSeed, "bootstrap-seed", -1, "Seed for bootstrap intervals (negative: non-deterministic)")

	return cmd
}

func writeSummary(out io.Writer, agg *table.Aggregated, format string, opts reporting.Options) error {
	switch format {
	case "csv":
		return reporting.WriteSummaryCSV(out, agg)
	case "json":
		return reporting.WriteSummaryJSON(out, agg)
	default:
		_, err := fmt.Fprint(out, reporting.FormatSummaryTable(agg, opts))
		return err
	}
}
