package series

import (
	"math/rand"
	"time"

	"github.com/sguter90/anomalymaestro/pkg/models"
)

// Sample fixture shape: one day of 15-minute readings with a hot spell around noon
const (
	SampleInterval = 15 * time.Minute
	SampleSize     = 96
	sampleNoon     = 48
)

// SampleStart is the first timestamp of the generated fixture
var SampleStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// GenerateSample builds n readings for sensor S001. Indices noon-2..noon+2 get
// temperatures around 35°C; everything else stays around 22°C.
func GenerateSample(rng *rand.Rand, start time.Time, n int) []models.SensorReading {
	readings := make([]models.SensorReading, n)
	for i := range readings {
		readings[i] = models.SensorReading{
			Timestamp:   start.Add(time.Duration(i) * SampleInterval),
			SensorID:    models.DefaultSensorID,
			Temperature: 22.0 + rng.NormFloat64()*0.3,
			Humidity:    45.0 + rng.NormFloat64()*0.5,
			Pressure:    1013.0 + rng.NormFloat64()*0.2,
		}
	}

	for i := sampleNoon - 2; i <= sampleNoon+2; i++ {
		if i < n {
			readings[i].Temperature = 35.0 + rng.NormFloat64()*1.0
		}
	}

	return readings
}
