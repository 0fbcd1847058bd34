package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sguter90/anomalymaestro/pkg/commands"
	"github.com/sguter90/anomalymaestro/pkg/config"
	"github.com/sguter90/anomalymaestro/pkg/database"
	"github.com/sguter90/anomalymaestro/pkg/hosting"
	"github.com/sguter90/anomalymaestro/pkg/metrics"
	"github.com/sguter90/anomalymaestro/pkg/notify"
	"github.com/sguter90/anomalymaestro/pkg/series"
	"github.com/sguter90/anomalymaestro/pkg/session"
	"github.com/sguter90/anomalymaestro/pkg/tools"
	"go.uber.org/zap"
)

// App holds the wired pipeline shared by all commands
type App struct {
	Config  config.Config
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Service *tools.Service
	Tools   *tools.Registry

	// DB is set only when DATA_SOURCE=postgres
	DB *database.DatabaseManager

	closers []func() error
	closed  bool
}

// NewApp builds the data source, notifier, image host and tool service from cfg
func NewApp(cfg config.Config, logger *zap.Logger) (*App, error) {
	app := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(prometheus.NewRegistry()),
	}

	source, err := app.openSource(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	var notifier commands.Notifier
	if len(cfg.KafkaBrokers) > 0 {
		kn := notify.NewKafkaNotifier(notify.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic), logger)
		app.closers = append(app.closers, kn.Close)
		notifier = kn
		logger.Info("✓ Publishing command executions to Kafka", zap.String("topic", cfg.KafkaTopic))
	}

	opts := []tools.Option{
		tools.WithHost(hosting.NewClient(cfg.ImageHostURL, hosting.WithTimeout(10*time.Second))),
		tools.WithMetrics(app.Metrics),
		tools.WithLogger(logger),
	}
	if cfg.FallbackDir != "" {
		opts = append(opts, tools.WithFallback(hosting.NewDirHost(cfg.FallbackDir, "")))
	} else {
		logger.Warn("⚠ IMAGES_FALLBACK_DIR is empty, charts are dropped when hosting fails")
	}

	app.Service = tools.NewService(
		series.NewStore(source, logger),
		session.New(),
		commands.NewRegistry(notifier, logger),
		opts...,
	)
	app.Tools = tools.NewServiceRegistry(app.Service, app.Metrics)

	return app, nil
}

func (a *App) openSource(cfg config.Config) (series.Source, error) {
	switch cfg.DataSource {
	case config.SourcePostgres:
		dbManager, err := database.NewDatabaseManager(cfg.Database.DSN(), a.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.closers = append(a.closers, dbManager.Close)

		// Run migrations
		if err := dbManager.Init(); err != nil {
			return nil, err
		}
		a.DB = dbManager
		return dbManager, nil
	default:
		return series.NewCSVSource(cfg.CSVPath), nil
	}
}

// Close releases resources in reverse order of acquisition
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
	a.closed = true
	a.Logger.Sync()
}
