package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/church-check-in/pkg/core/services"
)

// ListServiceTypesCmd creates the listServiceTypes command
func ListServiceTypesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listServiceTypes",
		Short: "List the Services service types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			serviceTypes, err := app.Client.ListServiceTypes(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list service types: %w", err)
			}

			app.Logger.Debug("Service types fetched", zap.Int("count", len(serviceTypes)))

			rows := make([][2]string, 0, len(serviceTypes))
			for _, st := range serviceTypes {
				rows = append(rows, [2]string{st.ID, st.Name})
			}
			renderNamed(app.Out, "Service types", rows)
			return nil
		},
	}
}

// ListEventsCmd creates the listEvents command
func ListEventsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listEvents",
		Short: "List the Check-Ins events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := app.Client.ListEvents(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list events: %w", err)
			}

			app.Logger.Debug("Events fetched", zap.Int("count", len(events)))

			rows := make([][2]string, 0, len(events))
			for _, e := range events {
				rows = append(rows, [2]string{e.ID, e.Name})
			}
			renderNamed(app.Out, "Events", rows)
			return nil
		},
	}
}

// ListLocationsCmd creates the listLocations command
func ListLocationsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listLocations <event_name>",
		Short: "List the locations of a Check-Ins event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID, err := services.ResolveEvent(app.Ctx, app.Client, args[0])
			if err != nil {
				return err
			}

			locations, err := app.Client.ListLocations(app.Ctx, eventID)
			if err != nil {
				return fmt.Errorf("failed to list locations: %w", err)
			}

			rows := make([][2]string, 0, len(locations))
			for _, l := range locations {
				rows = append(rows, [2]string{l.ID, l.Name})
			}
			renderNamed(app.Out, fmt.Sprintf("Locations of %s", args[0]), rows)
			return nil
		},
	}
}
