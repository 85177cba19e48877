package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "amrcollect",
		Short: "amrcollect - collect and summarise AMR classifier results",
		Long: `amrcollect reads the per-experiment JSON result files written by the
antimicrobial-resistance training pipeline, rebuilds one uniform table across
the schema generations, pools repeated random seeds, and optionally ranks
models per (species, antibiotic) scenario.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newCollectCommand())
	cmd.AddCommand(newRankCommand())
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newFetchCommand())
	cmd.AddCommand(newInitCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
