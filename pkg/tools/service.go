package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sguter90/anomalymaestro/pkg/commands"
	"github.com/sguter90/anomalymaestro/pkg/detector"
	"github.com/sguter90/anomalymaestro/pkg/hosting"
	"github.com/sguter90/anomalymaestro/pkg/metrics"
	"github.com/sguter90/anomalymaestro/pkg/models"
	"github.com/sguter90/anomalymaestro/pkg/report"
	"github.com/sguter90/anomalymaestro/pkg/series"
	"github.com/sguter90/anomalymaestro/pkg/session"
	"github.com/sguter90/anomalymaestro/pkg/visualize"
	"go.uber.org/zap"
)

// Detection outcomes used as metric labels
const (
	outcomeOK               = "ok"
	outcomeNoData           = "empty_input"
	outcomeInvalidParameter = "invalid_parameter"
	outcomeError            = "error"
)

// Service exposes the detection pipeline as text-in, text-out operations.
// Every failure is reported in the returned string.
type Service struct {
	store    *series.Store
	detector *detector.Detector
	session  *session.Session
	renderer *visualize.Renderer
	commands *commands.Registry

	host     hosting.Host
	fallback *hosting.DirHost
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// Option customizes a Service
type Option func(*Service)

// WithHost sets where rendered charts are uploaded
func WithHost(host hosting.Host) Option {
	return func(s *Service) {
		s.host = host
	}
}

// WithFallback sets the directory charts are written to when the host fails
func WithFallback(dir *hosting.DirHost) Option {
	return func(s *Service) {
		s.fallback = dir
	}
}

// WithMetrics enables Prometheus instrumentation
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService wires the pipeline components. The session is owned by the caller
// so several transports can share one.
func NewService(store *series.Store, sess *session.Session, cmds *commands.Registry, opts ...Option) *Service {
	s := &Service{
		store:    store,
		session:  sess,
		commands: cmds,
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.Named("tools")
	s.detector = detector.New(s.logger)
	s.renderer = visualize.NewRenderer(s.logger)

	return s
}

// Session returns the session the service publishes into
func (s *Service) Session() *session.Session {
	return s.session
}

// FetchSensorData reports how many readings exist for sensorID
func (s *Service) FetchSensorData(ctx context.Context, sensorID string) string {
	sensorID = defaultString(sensorID, models.DefaultSensorID)

	slice, err := s.store.Load(ctx, sensorID)
	if err != nil {
		if errors.Is(err, models.ErrEmptyInput) {
			return models.MessageOf(err)
		}
		s.logger.Error("failed to fetch sensor data", zap.String("sensor_id", sensorID), zap.Error(err))
		return fmt.Sprintf("Error fetching sensor data: %v", err)
	}

	return fmt.Sprintf("Successfully fetched %d records for sensor %s", slice.Len(), sensorID)
}

// DetectAnomalies scores the readings of sensorID on parameter, publishes the
// result and returns the formatted report. Failures never publish.
func (s *Service) DetectAnomalies(ctx context.Context, sensorID, parameter string) string {
	sensorID = defaultString(sensorID, models.DefaultSensorID)
	parameter = defaultString(parameter, string(models.DefaultParameter))

	slice, err := s.store.Load(ctx, sensorID)
	if err != nil {
		return s.detectionFailure(sensorID, err)
	}

	result, err := s.detector.Detect(slice, parameter)
	if err != nil {
		return s.detectionFailure(sensorID, err)
	}

	generation := s.session.Publish(result)
	s.metrics.ObserveDetection(outcomeOK, result.AnomalyCount())
	s.logger.Info("✓ published detection result",
		zap.String("sensor_id", sensorID),
		zap.String("parameter", parameter),
		zap.Int("samples", result.Len()),
		zap.Int("anomalies", result.AnomalyCount()),
		zap.Uint64("generation", generation),
	)

	return report.Format(result)
}

func (s *Service) detectionFailure(sensorID string, err error) string {
	switch models.KindOf(err) {
	case models.KindEmptyInput:
		s.metrics.ObserveDetection(outcomeNoData, 0)
		return fmt.Sprintf("No data found for sensor %s", sensorID)
	case models.KindInvalidParameter:
		s.metrics.ObserveDetection(outcomeInvalidParameter, 0)
		return models.MessageOf(err)
	default:
		s.metrics.ObserveDetection(outcomeError, 0)
		s.logger.Error("anomaly detection failed", zap.String("sensor_id", sensorID), zap.Error(err))
		return fmt.Sprintf("Error detecting anomalies: %v", err)
	}
}

// VisualizeAnomalies renders the current result and returns a link to the
// hosted chart. When hosting fails the chart is kept in the fallback directory.
func (s *Service) VisualizeAnomalies(ctx context.Context) string {
	result, generation, err := s.session.Snapshot()
	if err != nil {
		return models.MessageOf(err)
	}

	start := time.Now()
	artifact, err := s.renderer.Render(result)
	s.metrics.ObserveRender(time.Since(start))
	if err != nil {
		s.logger.Error("failed to render chart", zap.Error(err))
		return fmt.Sprintf("Error: %v", err)
	}

	url, err := s.upload(ctx, artifact)
	if err != nil {
		s.metrics.ObserveHostingFailure()
		s.logger.Warn("⚠ image hosting failed", zap.String("filename", artifact.Filename), zap.Error(err))
		return s.saveFallback(generation, artifact, err)
	}

	s.session.AttachArtifact(generation, session.Artifact{Filename: artifact.Filename, URL: url})
	return fmt.Sprintf("Anomaly chart generated: [Click to view](%s)", url)
}

func (s *Service) upload(ctx context.Context, artifact visualize.Artifact) (string, error) {
	if s.host == nil {
		return "", models.NewError(models.KindHostingUnavailable, "Image hosting unavailable",
			errors.New("no image host configured"))
	}
	return s.host.Upload(ctx, artifact.Filename, artifact.Data)
}

func (s *Service) saveFallback(generation uint64, artifact visualize.Artifact, hostErr error) string {
	if s.fallback == nil {
		return fmt.Sprintf("Error: %v. Is the image server running?", hostErr)
	}

	path, err := s.fallback.Save(artifact.Filename, artifact.Data)
	if err != nil {
		s.logger.Error("failed to save chart locally", zap.String("filename", artifact.Filename), zap.Error(err))
		return fmt.Sprintf("Error: %v. Is the image server running? Saving locally also failed: %v", hostErr, err)
	}

	s.session.AttachArtifact(generation, session.Artifact{Filename: artifact.Filename, LocalPath: path})
	return fmt.Sprintf("Warning: %s. Is the image server running? Chart saved locally at %s",
		models.MessageOf(hostErr), path)
}

// GetAvailableCommands lists the correction commands, one per line
func (s *Service) GetAvailableCommands() string {
	var b strings.Builder
	b.WriteString("Available commands:")
	for _, name := range s.commands.List() {
		b.WriteString("\n- ")
		b.WriteString(name)
	}
	return b.String()
}

// ExecuteCorrection dispatches command. It never reads or writes the session.
func (s *Service) ExecuteCorrection(ctx context.Context, command string) string {
	outcome, err := s.commands.Execute(ctx, command)
	if err != nil {
		return models.MessageOf(err)
	}
	return fmt.Sprintf("Command executed: %s\nResult: %s", command, outcome)
}

// defaultString returns fallback for a blank value and value unchanged otherwise
func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
