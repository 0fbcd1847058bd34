package report

import (
	"fmt"
	"strings"

	"github.com/sguter90/anomalymaestro/pkg/models"
)

const (
	title = "Anomaly Detection Report"

	// DetailPrefix starts every per-anomaly line
	DetailPrefix = "  - "

	// NoAnomaliesLine replaces the detail section when nothing was flagged
	NoAnomaliesLine = "  No anomalies detected in the data."

	timestampLayout = "2006-01-02 15:04:05"
)

// Format renders a detection result as a plain-text report
func Format(result models.DetectionResult) string {
	info := result.Parameter.Info()
	anomalyCount := result.AnomalyCount()

	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n")
	fmt.Fprintf(&b, "Sensor: %s\n", result.SensorID)
	fmt.Fprintf(&b, "Parameter: %s\n", info.Name)
	fmt.Fprintf(&b, "Total samples analyzed: %d\n", result.Len())
	fmt.Fprintf(&b, "Anomalies detected: %d\n", anomalyCount)
	b.WriteString("\nAnomaly Details:\n")

	if anomalyCount == 0 {
		b.WriteString(NoAnomaliesLine + "\n")
		return b.String()
	}

	for _, r := range result.Anomalies() {
		b.WriteString(detailLine(r, info) + "\n")
	}

	return b.String()
}

func detailLine(r models.ScoredReading, info models.ParameterInfo) string {
	return fmt.Sprintf("%sTimestamp: %s | Sensor: %s | %s: %.2f%s | Deviation: %.2f",
		DetailPrefix,
		r.Timestamp.Format(timestampLayout),
		r.SensorID,
		info.Label,
		r.Value(models.Parameter(info.Name)),
		info.Unit,
		float64(r.AnomalyScore),
	)
}
