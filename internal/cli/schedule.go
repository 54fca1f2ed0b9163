package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/BartekS5/churnflow/pkg/logger"
)

func NewScheduleCmd() *cobra.Command {
	var cronSpec string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the full pipeline periodically on a cron schedule",
		RunE: func(c *cobra.Command, args []string) error {
			return runSchedule(cronSpec)
		},
	}
	cmd.Flags().StringVar(&cronSpec, "cron", "0 6 * * *", "Cron expression for pipeline runs")
	return cmd
}

// runSchedule blocks running the pipeline on the given schedule until
// interrupted. A failed run is logged and the schedule keeps going; the
// next run starts from whatever state the failed one left behind.
func runSchedule(cronSpec string) error {
	c := cron.New()
	_, err := c.AddFunc(cronSpec, func() {
		if err := runFullPipeline(); err != nil {
			logger.Errorf("Scheduled pipeline run failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	logger.Infof("Pipeline scheduled with cron spec %q. Waiting for runs...", cronSpec)
	c.Start()
	defer c.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Infof("Shutting down scheduler.")
	return nil
}
