package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/church-check-in/internal/config"
	"github.com/jakechorley/church-check-in/pkg/core/services"
)

// checkInFlags are the flags shared by checkIn and showMatch
type checkInFlags struct {
	service  string
	event    string
	location string
	attempts int
	dryRun   bool
}

// CheckInCmd creates the checkIn command
func CheckInCmd(app *AppContext) *cobra.Command {
	var flags checkInFlags

	cmd := &cobra.Command{
		Use:   "checkIn [job]",
		Short: "Check in the volunteers scheduled for the latest event period",
		Long: `Check in every confirmed or unconfirmed volunteer of the plan matching the latest event
period of an event. Name a job from the config file, or give --service, --event and --location.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildCheckInRequest(app.Cfg, args, flags, cmd.Flags().Changed("attempts"))
			if err != nil {
				return err
			}

			return runCheckIn(app, req, app.Logger)
		},
	}

	cmd.Flags().StringVar(&flags.service, "service", "", "Service type name")
	cmd.Flags().StringVar(&flags.event, "event", "", "Check-ins event name")
	cmd.Flags().StringVar(&flags.location, "location", "", "Location to check volunteers in to")
	cmd.Flags().IntVar(&flags.attempts, "attempts", 0, "Number of upcoming plans to compare (default from config)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print the check-ins without submitting them")

	return cmd
}

// buildCheckInRequest builds a request from a named job or from the flags. Flags override
// the job's names when both are given.
func buildCheckInRequest(cfg *config.Config, args []string, flags checkInFlags, attemptsSet bool) (services.CheckInRequest, error) {
	req := services.CheckInRequest{
		FuturePlanAttempts: cfg.FuturePlanAttempts,
		DryRun:             flags.dryRun,
	}

	if len(args) == 1 {
		job, ok := cfg.Job(args[0])
		if !ok {
			return req, fmt.Errorf("job %q not found in config", args[0])
		}
		req.ServiceName = job.ServiceName
		req.EventName = job.EventName
		req.LocationName = job.LocationName
	}

	if flags.service != "" {
		req.ServiceName = flags.service
	}
	if flags.event != "" {
		req.EventName = flags.event
	}
	if flags.location != "" {
		req.LocationName = flags.location
	}
	if attemptsSet {
		if flags.attempts < 1 {
			return req, errors.New("--attempts must be at least 1")
		}
		req.FuturePlanAttempts = flags.attempts
	}

	if req.ServiceName == "" || req.EventName == "" || req.LocationName == "" {
		return req, errors.New("a job or all of --service, --event and --location are required")
	}

	return req, nil
}

// runCheckIn runs the pipeline and prints the records and the submission report. It returns
// an error when any record failed to submit.
func runCheckIn(app *AppContext, req services.CheckInRequest, logger *zap.Logger) error {
	result, err := services.CheckInVolunteers(app.Ctx, app.Client, app.Auth, req, logger)
	if err != nil {
		return err
	}

	if len(result.Prepared.Records) == 0 {
		fmt.Fprintf(app.Out, "\nNo volunteers to check in for plan %s\n\n", result.Prepared.Match.PlanID)
		return nil
	}

	renderRecords(app.Out, result.Prepared)

	if result.Report == nil {
		fmt.Fprintf(app.Out, "\nDry run: %d check-ins not submitted\n\n", len(result.Prepared.Records))
		return nil
	}

	renderReport(app.Out, result.Report)

	if failed := len(result.Report.Failed); failed > 0 {
		return fmt.Errorf("%d of %d check-ins failed", failed, result.Report.Total())
	}

	fmt.Fprintf(app.Out, "\n✓ Checked in %d volunteers\n\n", len(result.Prepared.Volunteers))
	return nil
}
