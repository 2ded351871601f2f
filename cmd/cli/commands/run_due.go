package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/church-check-in/pkg/core/services"
)

// RunDueCmd creates the runDue command
func RunDueCmd(app *AppContext) *cobra.Command {
	var date string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "runDue",
		Short: "Run every configured job scheduled for today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now()
			if date != "" {
				parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
				if err != nil {
					return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
				}
				day = parsed
			}

			jobs, err := app.Cfg.DueJobs(day)
			if err != nil {
				return err
			}

			if len(jobs) == 0 {
				app.Logger.Info("No jobs due", zap.String("date", day.Format("2006-01-02")))
				fmt.Fprintf(app.Out, "No jobs due on %s\n", day.Format("2006-01-02 (Monday)"))
				return nil
			}

			var failed []string
			for _, job := range jobs {
				fmt.Fprintf(app.Out, "\n%s\n", job.Name)

				req := services.CheckInRequest{
					ServiceName:        job.ServiceName,
					EventName:          job.EventName,
					LocationName:       job.LocationName,
					FuturePlanAttempts: app.Cfg.FuturePlanAttempts,
					DryRun:             dryRun,
				}

				// One job failing does not stop the others
				if err := runCheckIn(app, req, app.Logger.With(zap.String("job", job.Name))); err != nil {
					app.Logger.Error("Job failed", zap.String("job", job.Name), zap.Error(err))
					failed = append(failed, job.Name)
				}
			}

			if len(failed) > 0 {
				return fmt.Errorf("%d of %d jobs failed: %v", len(failed), len(jobs), failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to run jobs for, YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the check-ins without submitting them")

	return cmd
}
