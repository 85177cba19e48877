package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/maldi-lab/amrcollect/internal/metadata"
	"github.com/maldi-lab/amrcollect/internal/projectconfig"
	"github.com/maldi-lab/amrcollect/internal/results"
	"github.com/maldi-lab/amrcollect/internal/validation"
)

func newCheckCommand() *cobra.Command {
	var opts loadOptions

	cmd := &cobra.Command{
		Use:   "check <path-or-dir> [more-files...]",
		Short: "Validate result files before collecting them",
		Long: `Check result files against the result schema and verify that every file
in the batch was produced by the same pipeline versions (metadata_versions).

Empty files are reported but do not fail the check; schema violations,
unknown model names and metadata mismatches do.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := projectconfig.Load(".")
			if err != nil {
				return err
			}

			files, err := resolveFiles(args, cfg, &opts, cmd.Flags().Changed("exclude"))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			problems := 0
			skipped := 0
			var tracker metadata.Tracker

			for _, path := range files {
				rec, err := results.Load(path)
				if errors.Is(err, results.ErrEmptyFile) {
					fmt.Fprintf(out, "  skip  %s (empty)\n", path) //nolint:errcheck
					skipped++
					continue
				}
				if err != nil {
					fmt.Fprintf(out, "  FAIL  %s: %v\n", path, err) //nolint:errcheck
					problems++
					continue
				}

				fileProblems := 0
				for _, msg := range validation.ValidateRecord(rec) {
					fmt.Fprintf(out, "  FAIL  %s: %s\n", path, msg) //nolint:errcheck
					fileProblems++
				}

				if model, ok := rec["model"].(string); ok && !slices.Contains(projectconfig.KnownModels, model) {
					fmt.Fprintf(out, "  FAIL  %s: unknown model %q\n", path, model) //nolint:errcheck
					fileProblems++
				}

				if err := tracker.Observe(path, metadata.FromRecord(rec)); err != nil {
					fmt.Fprintf(out, "  FAIL  %v\n", err) //nolint:errcheck
					fileProblems++
				}

				if fileProblems == 0 {
					fmt.Fprintf(out, "  ok    %s\n", path) //nolint:errcheck
				}
				problems += fileProblems
			}

			fmt.Fprintf(out, "\n%d files checked, %d skipped, %d problems\n", //nolint:errcheck
				len(files), skipped, problems)

			if problems > 0 {
				return &ValidationFailureError{
					Message: fmt.Sprintf("found %d validation problems", problems),
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.exclude, "exclude", "", "Drop paths containing this substring")

	return cmd
}
