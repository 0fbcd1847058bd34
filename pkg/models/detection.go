package models

// Anomaly labels produced by the detector
const (
	ScoreAnomalous = -1
	ScoreNormal    = 1
)

// ScoredReading is a reading with its detector label
type ScoredReading struct {
	SensorReading
	AnomalyScore int  `json:"anomaly_score"`
	IsAnomaly    bool `json:"is_anomaly"`
}

// NewScoredReading labels a reading; IsAnomaly is derived from score
func NewScoredReading(r SensorReading, score int) ScoredReading {
	return ScoredReading{
		SensorReading: r,
		AnomalyScore:  score,
		IsAnomaly:     score == ScoreAnomalous,
	}
}

// DetectionResult is one scored reading per input reading, in input order
type DetectionResult struct {
	SensorID  string          `json:"sensor_id"`
	Parameter Parameter       `json:"parameter"`
	Readings  []ScoredReading `json:"readings"`
}

// Len returns the number of scored readings
func (d DetectionResult) Len() int {
	return len(d.Readings)
}

// AnomalyCount returns the number of readings flagged anomalous
func (d DetectionResult) AnomalyCount() int {
	count := 0
	for _, r := range d.Readings {
		if r.IsAnomaly {
			count++
		}
	}
	return count
}

// Anomalies returns the anomalous readings in order
func (d DetectionResult) Anomalies() []ScoredReading {
	var out []ScoredReading
	for _, r := range d.Readings {
		if r.IsAnomaly {
			out = append(out, r)
		}
	}
	return out
}

// Clone returns a deep copy so holders cannot share the backing array
func (d DetectionResult) Clone() DetectionResult {
	out := d
	out.Readings = make([]ScoredReading, len(d.Readings))
	copy(out.Readings, d.Readings)
	return out
}
