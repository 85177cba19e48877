package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/maldi-lab/amrcollect/internal/projectconfig"
	"github.com/maldi-lab/amrcollect/internal/ranking"
	"github.com/maldi-lab/amrcollect/internal/reporting"
	"github.com/maldi-lab/amrcollect/internal/table"
)

func newRankCommand() *cobra.Command {
	var (
		opts       loadOptions
		format     string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "rank <metric> <path-or-dir> [more-files...]",
		Short: "Rank models per scenario by one metric",
		Long: `Aggregate result files, then rank the models competing within each
(species, antibiotic) scenario by the chosen metric's mean.

Scenarios with a single model carry no comparative signal and are excluded;
each model's metric mean and rank are averaged over the remaining scenarios
it participated in.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format, "table", "json"); err != nil {
				return err
			}

			metric := args[0]

			cfg, err := projectconfig.Load(".")
			if err != nil {
				return err
			}

			files, err := resolveFiles(args[1:], cfg, &opts, cmd.Flags().Changed("exclude"))
			if err != nil {
				return err
			}

			rows, err := loadRows(files, opts)
			if err != nil {
				return err
			}

			rankTable, err := ranking.Rank(table.Aggregate(rows), metric)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close() //nolint:errcheck
				out = f
			}

			if format == "json" {
				return reporting.WriteRankJSON(out, rankTable)
			}
			_, err = fmt.Fprint(out, reporting.FormatRankTable(rankTable))
			return err
		},
	}

	cmd.Flags().StringVar(&opts.exclude, "exclude", "", "Drop paths containing this substring")
	cmd.Flags().BoolVar(&opts.parallel, "parallel", false, "Load files concurrently")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Number of concurrent workers (default: 4, requires --parallel)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write output to a file instead of stdout")

	return cmd
}
