package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sguter90/anomalymaestro/pkg/config"
	"github.com/sguter90/anomalymaestro/pkg/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type contextKey string

const appContextKey contextKey = "app"

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "anomalymaestro",
	Short: "AnomalyMaestro - Sensor Anomaly Detection",
	Long: `AnomalyMaestro scores sensor telemetry for anomalies, renders the results
as charts and dispatches correction commands.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupApp,
}

func init() {
	config.SetDefaults(v)

	flags := rootCmd.PersistentFlags()
	flags.String("data-source", "", "data source (csv, postgres)")
	flags.String("csv", "", "path to the sensor CSV file")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console, json)")

	v.BindPFlag("DATA_SOURCE", flags.Lookup("data-source"))
	v.BindPFlag("DATA_CSV_PATH", flags.Lookup("csv"))
	v.BindPFlag("LOG_LEVEL", flags.Lookup("log-level"))
	v.BindPFlag("LOG_FORMAT", flags.Lookup("log-format"))
}

func main() {
	if err := execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs the command tree and releases the app whether or not the command succeeded
func execute(ctx context.Context) error {
	cmd, err := rootCmd.ExecuteContextC(ctx)
	if app := appFromCommand(cmd); app != nil {
		app.Close()
	}
	return err
}

// setupApp resolves configuration and builds the pipeline for commands that need it
func setupApp(cmd *cobra.Command, args []string) error {
	if cmd.Annotations["skipApp"] == "true" {
		return nil
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	app, err := NewApp(cfg, logger)
	if err != nil {
		logger.Sync()
		return fmt.Errorf("failed to initialize: %w", err)
	}

	logger.Debug("configuration loaded",
		zap.String("data_source", cfg.DataSource),
		zap.String("image_host", cfg.ImageHostURL),
		zap.Bool("kafka", len(cfg.KafkaBrokers) > 0),
	)

	cmd.SetContext(context.WithValue(cmd.Context(), appContextKey, app))
	return nil
}

func appFromCommand(cmd *cobra.Command) *App {
	if cmd == nil || cmd.Context() == nil {
		return nil
	}
	app, _ := cmd.Context().Value(appContextKey).(*App)
	return app
}
