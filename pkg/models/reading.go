package models

import (
	"time"
)

// SensorReading represents a single telemetry sample collected from a sensor
type SensorReading struct {
	Timestamp   time.Time `json:"timestamp"`
	SensorID    string    `json:"sensor_id"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Pressure    float64   `json:"pressure"`
}

// Value returns the reading's value for the given parameter
func (r SensorReading) Value(p Parameter) float64 {
	switch p {
	case ParameterHumidity:
		return r.Humidity
	case ParameterPressure:
		return r.Pressure
	default:
		return r.Temperature
	}
}

// Dataset is a batch of rows as read from a source. Missing lists the
// parameter columns the source does not carry; their fields read as zero.
type Dataset struct {
	Rows    []SensorReading
	Missing []Parameter
}

// SeriesSlice is the ordered set of readings for one sensor, in load order
type SeriesSlice struct {
	SensorID string          `json:"sensor_id"`
	Readings []SensorReading `json:"readings"`
	Missing  []Parameter     `json:"missing,omitempty"`
}

// NewSeriesSlice collects the rows matching sensorID, keeping their order
func NewSeriesSlice(sensorID string, rows []SensorReading) SeriesSlice {
	slice := SeriesSlice{SensorID: sensorID}
	for _, row := range rows {
		if row.SensorID == sensorID {
			slice.Readings = append(slice.Readings, row)
		}
	}
	return slice
}

// Has reports whether the readings carry a column for p
func (s SeriesSlice) Has(p Parameter) bool {
	for _, missing := range s.Missing {
		if missing == p {
			return false
		}
	}
	return true
}

// Len returns the number of readings in the slice
func (s SeriesSlice) Len() int {
	return len(s.Readings)
}

// Values extracts the parameter's values in reading order
func (s SeriesSlice) Values(p Parameter) []float64 {
	values := make([]float64, len(s.Readings))
	for i, r := range s.Readings {
		values[i] = r.Value(p)
	}
	return values
}
