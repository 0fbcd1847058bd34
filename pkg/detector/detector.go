package detector

import (
	"fmt"

	"github.com/sguter90/anomalymaestro/pkg/models"
	"go.uber.org/zap"
)

// Fixed model settings. Contamination is not tunable per sensor or parameter.
const (
	Contamination = 0.05
	Seed          = 42
	NumTrees      = 100
)

// Detector labels each reading of a slice as normal or anomalous
type Detector struct {
	logger *zap.Logger
}

// New creates a new Detector
func New(logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{logger: logger.Named("detector")}
}

// Detect refits an isolation forest on the chosen parameter of slice and returns
// one scored reading per input reading, in input order.
func (d *Detector) Detect(slice models.SeriesSlice, parameter string) (models.DetectionResult, error) {
	if slice.Len() == 0 {
		return models.DetectionResult{}, models.NewError(models.KindEmptyInput,
			fmt.Sprintf("No data found for sensor %s", slice.SensorID), nil)
	}

	p, err := models.ParseParameter(parameter)
	if err != nil {
		return models.DetectionResult{}, err
	}
	if !slice.Has(p) {
		return models.DetectionResult{}, models.ParameterNotFound(parameter,
			fmt.Errorf("column %s absent from sensor %s data", p, slice.SensorID))
	}

	forest := NewIsolationForest(NumTrees, Contamination, Seed)
	labels := forest.FitPredict(slice.Values(p))

	result := models.DetectionResult{
		SensorID:  slice.SensorID,
		Parameter: p,
		Readings:  make([]models.ScoredReading, slice.Len()),
	}
	for i, r := range slice.Readings {
		result.Readings[i] = models.NewScoredReading(r, labels[i])
	}

	d.logger.Info("detection complete",
		zap.String("sensor_id", slice.SensorID),
		zap.String("parameter", string(p)),
		zap.Int("samples", result.Len()),
		zap.Int("anomalies", result.AnomalyCount()),
	)

	return result, nil
}
