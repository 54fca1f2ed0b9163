// Package cli handles the command-line interface logic using Cobra.
package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "churnflow",
		Short: "churnflow - customer churn data pipeline",
		Long: `churnflow runs a batch pipeline over customer records: ingestion of
static and simulated live data, schema validation and merge into a master
dataset, preparation, feature transformation and churn model training.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.AddCommand(
		NewRunCmd(),
		NewIngestCmd(),
		NewValidateCmd(),
		NewPrepareCmd(),
		NewTransformCmd(),
		NewModelCmd(),
		NewScheduleCmd(),
	)

	return rootCmd
}
