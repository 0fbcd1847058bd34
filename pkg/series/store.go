package series

import (
	"context"
	"fmt"
	"strings"

	"github.com/sguter90/anomalymaestro/pkg/models"
	"go.uber.org/zap"
)

// Source defines the read contract of a persisted sensor series
type Source interface {
	// ReadAllRows returns every persisted reading in storage order, plus the
	// parameter columns the storage does not carry
	ReadAllRows(ctx context.Context) (models.Dataset, error)
}

// Store loads per-sensor slices from a Source
type Store struct {
	source Source
	logger *zap.Logger
}

// NewStore creates a new series store
func NewStore(source Source, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		source: source,
		logger: logger.Named("series"),
	}
}

// Load returns the readings for sensorID. When no row matches it returns an
// EmptyInput error so callers can report "no data" instead of failing.
// sensorID is matched exactly and is never normalized.
func (s *Store) Load(ctx context.Context, sensorID string) (models.SeriesSlice, error) {
	if strings.TrimSpace(sensorID) == "" {
		return models.SeriesSlice{}, models.NewError(models.KindEmptyInput, "Sensor ID must not be empty", nil)
	}

	ds, err := s.source.ReadAllRows(ctx)
	if err != nil {
		return models.SeriesSlice{}, fmt.Errorf("failed to read sensor data: %w", err)
	}

	slice := models.NewSeriesSlice(sensorID, ds.Rows)
	slice.Missing = ds.Missing
	if slice.Len() == 0 {
		s.logger.Debug("no rows matched", zap.String("sensor_id", sensorID), zap.Int("rows", len(ds.Rows)))
		return slice, models.NewError(models.KindEmptyInput, fmt.Sprintf("No data found for sensor %s", sensorID), nil)
	}

	s.logger.Debug("loaded series", zap.String("sensor_id", sensorID), zap.Int("readings", slice.Len()))
	return slice, nil
}

// MemorySource serves a fixed set of rows
type MemorySource struct {
	Rows    []models.SensorReading
	Missing []models.Parameter
}

// ReadAllRows returns a copy of the rows
func (m *MemorySource) ReadAllRows(ctx context.Context) (models.Dataset, error) {
	rows := make([]models.SensorReading, len(m.Rows))
	copy(rows, m.Rows)
	missing := make([]models.Parameter, len(m.Missing))
	copy(missing, m.Missing)
	return models.Dataset{Rows: rows, Missing: missing}, nil
}
