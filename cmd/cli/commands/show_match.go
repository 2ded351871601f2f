package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/church-check-in/pkg/core/services"
)

// ShowMatchCmd creates the showMatch command
func ShowMatchCmd(app *AppContext) *cobra.Command {
	var flags checkInFlags

	cmd := &cobra.Command{
		Use:   "showMatch [job]",
		Short: "Show which plan matches the latest event period, without checking anyone in",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			serviceName, eventName := flags.service, flags.event
			if len(args) == 1 {
				job, ok := app.Cfg.Job(args[0])
				if !ok {
					return fmt.Errorf("job %q not found in config", args[0])
				}
				if serviceName == "" {
					serviceName = job.ServiceName
				}
				if eventName == "" {
					eventName = job.EventName
				}
			}
			if serviceName == "" || eventName == "" {
				return errors.New("a job or both --service and --event are required")
			}

			attempts := app.Cfg.FuturePlanAttempts
			if cmd.Flags().Changed("attempts") {
				attempts = flags.attempts
			}

			result, err := services.FindPlanMatch(app.Ctx, app.Client, serviceName, eventName, attempts, app.Logger)
			if err != nil {
				return err
			}

			renderMatch(app.Out, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.service, "service", "", "Service type name")
	cmd.Flags().StringVar(&flags.event, "event", "", "Check-ins event name")
	cmd.Flags().IntVar(&flags.attempts, "attempts", 0, "Number of upcoming plans to compare (default from config)")

	return cmd
}
