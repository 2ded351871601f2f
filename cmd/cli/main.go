package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/church-check-in/cmd/cli/commands"
	"github.com/jakechorley/church-check-in/internal/config"
	"github.com/jakechorley/church-check-in/pkg/clients/checkinsweb"
	"github.com/jakechorley/church-check-in/pkg/clients/pcoclient"
	"github.com/jakechorley/church-check-in/pkg/utils/logging"
)

var (
	env       string
	verbose   bool
	noLogFile bool
	app       = &commands.AppContext{Out: os.Stdout}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	app.Ctx = ctx

	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Church Check-In CLI - Check in scheduled volunteers",
		Long: `A CLI tool that checks in the volunteers scheduled in Planning Center Services
to the matching Planning Center Check-Ins event.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Show debug logs on the console")
	rootCmd.PersistentFlags().BoolVar(&noLogFile, "no-log-file", false, "Don't write a log file")

	rootCmd.AddCommand(commands.CheckInCmd(app))
	rootCmd.AddCommand(commands.RunDueCmd(app))
	rootCmd.AddCommand(commands.ShowMatchCmd(app))
	rootCmd.AddCommand(commands.ListServiceTypesCmd(app))
	rootCmd.AddCommand(commands.ListEventsCmd(app))
	rootCmd.AddCommand(commands.ListLocationsCmd(app))

	if err := rootCmd.Execute(); err != nil {
		stop()
		os.Exit(1)
	}
}

// initApp sets up logger, config, credentials and clients
func initApp() error {
	logger, err := logging.InitLogger(env, logging.Options{Verbose: verbose, NoFile: noLogFile})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger = logger.With(zap.String("run_id", uuid.NewString()))

	app.Logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	app.Logger.Debug("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	creds, err := config.LoadCredentials(env)
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully",
		zap.Int("jobs", len(app.Cfg.Jobs)),
		zap.Bool("web_login", creds.HasWebLogin()))

	pc := app.Cfg.PlanningCenter

	// Initialize API client
	apiClient, err := pcoclient.NewClient(app.Ctx, pcoclient.Options{
		BaseURL:           pc.APIBaseURL,
		AppID:             creds.AppID,
		Secret:            creds.Secret,
		AccessToken:       creds.AccessToken,
		RequestsPerSecond: pc.RequestsPerSecond,
		Timeout:           pc.Timeout(),
		UserAgent:         pc.UserAgent,
	}, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to create api client: %w", err)
	}
	app.Client = apiClient

	// The web client is only needed to submit, so listing works without a web login
	login := commands.WebLogin{}
	if creds.HasWebLogin() {
		login.Client, err = checkinsweb.NewClient(checkinsweb.Options{
			LoginURL:  pc.LoginURL,
			BaseURL:   pc.CheckInsBaseURL,
			Email:     creds.Email,
			Password:  creds.Password,
			UserAgent: pc.UserAgent,
			Timeout:   pc.Timeout(),
		}, app.Logger)
		if err != nil {
			return fmt.Errorf("failed to create check-ins web client: %w", err)
		}
	}
	app.Auth = login

	return nil
}
