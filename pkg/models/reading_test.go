package models

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestParseParameter(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expected    Parameter
		expectError bool
		errorMsg    string
	}{
		{
			name:     "Valid temperature",
			input:    "temperature",
			expected: ParameterTemperature,
		},
		{
			name:     "Valid humidity",
			input:    "humidity",
			expected: ParameterHumidity,
		},
		{
			name:     "Valid pressure",
			input:    "pressure",
			expected: ParameterPressure,
		},
		{
			name:        "Invalid voltage",
			input:       "voltage",
			expectError: true,
			errorMsg:    "Parameter 'voltage' not found in sensor data",
		},
		{
			name:        "Invalid capitalised column",
			input:       "Temperature",
			expectError: true,
			errorMsg:    "not found",
		},
		{
			name:        "Invalid empty",
			input:       "",
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ParseParameter(tc.input)
			if tc.expectError {
				if err == nil {
					t.Fatalf("Expected error but got none")
				}
				if !errors.Is(err, ErrInvalidParameter) {
					t.Errorf("Expected InvalidParameter, got %v", KindOf(err))
				}
				if tc.errorMsg != "" && !strings.Contains(err.Error(), tc.errorMsg) {
					t.Errorf("Expected error containing '%s', got '%s'", tc.errorMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error but got: %v", err)
			}
			if p != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, p)
			}
		})
	}
}

func TestSensorReading_Value(t *testing.T) {
	r := SensorReading{Temperature: 22.5, Humidity: 45.1, Pressure: 1013.2}

	if v := r.Value(ParameterTemperature); v != 22.5 {
		t.Errorf("Expected temperature 22.5, got %f", v)
	}
	if v := r.Value(ParameterHumidity); v != 45.1 {
		t.Errorf("Expected humidity 45.1, got %f", v)
	}
	if v := r.Value(ParameterPressure); v != 1013.2 {
		t.Errorf("Expected pressure 1013.2, got %f", v)
	}
}

func TestNewSeriesSlice_FiltersAndKeepsOrder(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []SensorReading{
		{Timestamp: start.Add(2 * time.Minute), SensorID: "S001", Temperature: 3},
		{Timestamp: start, SensorID: "S002", Temperature: 99},
		{Timestamp: start.Add(1 * time.Minute), SensorID: "S001", Temperature: 1},
		{Timestamp: start.Add(3 * time.Minute), SensorID: "S001", Temperature: 2},
	}

	slice := NewSeriesSlice("S001", rows)

	if slice.Len() != 3 {
		t.Fatalf("Expected 3 readings, got %d", slice.Len())
	}
	// load order, not timestamp order
	expected := []float64{3, 1, 2}
	for i, v := range slice.Values(ParameterTemperature) {
		if v != expected[i] {
			t.Errorf("Expected value %f at %d, got %f", expected[i], i, v)
		}
	}
	for _, r := range slice.Readings {
		if r.SensorID != "S001" {
			t.Errorf("Expected only S001 rows, got %s", r.SensorID)
		}
	}
}

func TestNewScoredReading(t *testing.T) {
	anomalous := NewScoredReading(SensorReading{}, ScoreAnomalous)
	if !anomalous.IsAnomaly {
		t.Error("Expected score -1 to be anomalous")
	}

	normal := NewScoredReading(SensorReading{}, ScoreNormal)
	if normal.IsAnomaly {
		t.Error("Expected score +1 to be normal")
	}
}

func TestDetectionResult_CloneIsIndependent(t *testing.T) {
	result := DetectionResult{
		SensorID:  "S001",
		Parameter: ParameterTemperature,
		Readings: []ScoredReading{
			NewScoredReading(SensorReading{Temperature: 22}, ScoreNormal),
			NewScoredReading(SensorReading{Temperature: 35}, ScoreAnomalous),
		},
	}

	clone := result.Clone()
	clone.Readings[0] = NewScoredReading(SensorReading{Temperature: 0}, ScoreAnomalous)

	if result.Readings[0].IsAnomaly {
		t.Error("Expected original to be untouched by clone mutation")
	}
	if result.AnomalyCount() != 1 {
		t.Errorf("Expected 1 anomaly, got %d", result.AnomalyCount())
	}
	if clone.AnomalyCount() != 2 {
		t.Errorf("Expected 2 anomalies in clone, got %d", clone.AnomalyCount())
	}
}

func TestError_KindMatching(t *testing.T) {
	err := fmt.Errorf("loading: %w", NewError(KindEmptyInput, "No data found for sensor S009", nil))

	if !errors.Is(err, ErrEmptyInput) {
		t.Error("Expected wrapped error to match ErrEmptyInput")
	}
	if errors.Is(err, ErrSessionEmpty) {
		t.Error("Expected wrapped error not to match ErrSessionEmpty")
	}
	if KindOf(err) != KindEmptyInput {
		t.Errorf("Expected KindEmptyInput, got %s", KindOf(err))
	}
	if MessageOf(err) != "No data found for sensor S009" {
		t.Errorf("Unexpected message: %s", MessageOf(err))
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Error("Expected plain errors to have KindUnknown")
	}
}

func TestSeriesSlice_Has(t *testing.T) {
	slice := SeriesSlice{SensorID: "S001", Missing: []Parameter{ParameterPressure}}

	if !slice.Has(ParameterTemperature) {
		t.Error("Expected temperature to be present")
	}
	if slice.Has(ParameterPressure) {
		t.Error("Expected pressure to be missing")
	}
	if !(SeriesSlice{}).Has(ParameterHumidity) {
		t.Error("Expected zero slice to carry every column")
	}
}

func TestNewSeriesSlice_ExactSensorID(t *testing.T) {
	rows := []SensorReading{
		{SensorID: "S001"},
		{SensorID: " S001"},
		{SensorID: "s001"},
	}

	if n := NewSeriesSlice(" S001", rows).Len(); n != 1 {
		t.Errorf("Expected 1 reading for \" S001\", got %d", n)
	}
	if n := NewSeriesSlice("S001", rows).Len(); n != 1 {
		t.Errorf("Expected 1 reading for S001, got %d", n)
	}
}
