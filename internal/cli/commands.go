package cli

import (
	"github.com/spf13/cobra"
)

func NewRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: ingestion through model building",
		RunE: func(c *cobra.Command, args []string) error {
			return runFullPipeline()
		},
	}
}

func NewIngestCmd() *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run the ingestion step only (static snapshot + live batch)",
		RunE: func(c *cobra.Command, args []string) error {
			return runSingleStep(stepIngestion, rows)
		},
	}
	cmd.Flags().IntVarP(&rows, "rows", "n", 0, "Number of live rows to generate (default from LIVE_BATCH_SIZE)")
	return cmd
}

func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Run the validation-and-merge step only",
		RunE: func(c *cobra.Command, args []string) error {
			return runSingleStep(stepValidation, 0)
		},
	}
}

func NewPrepareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prepare",
		Short: "Run the preparation step only",
		RunE: func(c *cobra.Command, args []string) error {
			return runSingleStep(stepPreparation, 0)
		},
	}
}

func NewTransformCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transform",
		Short: "Run the transformation-and-storage step only",
		RunE: func(c *cobra.Command, args []string) error {
			return runSingleStep(stepTransformation, 0)
		},
	}
}

func NewModelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "model",
		Short: "Run the model-building step only",
		RunE: func(c *cobra.Command, args []string) error {
			return runSingleStep(stepModelBuilding, 0)
		},
	}
}
