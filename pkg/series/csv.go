package series

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sguter90/anomalymaestro/pkg/models"
)

// TimestampLayout is the timestamp format written to CSV files
const TimestampLayout = "2006-01-02 15:04:05"

var timestampFormats = []string{
	TimestampLayout,
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

var csvHeader = []string{"timestamp", "sensor_id", "temperature", "humidity", "pressure"}

// CSVSource reads readings from a CSV file with a header row
type CSVSource struct {
	Path string
}

// NewCSVSource creates a CSV source for path
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

// ReadAllRows reads the whole file on every call
func (c *CSVSource) ReadAllRows(ctx context.Context) (models.Dataset, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("failed to open %s: %w", c.Path, err)
	}
	defer f.Close()

	return ReadCSV(ctx, f)
}

// ReadCSV parses readings from r. Columns are located by header name;
// parameter columns absent from the header are reported in Dataset.Missing.
func ReadCSV(ctx context.Context, r io.Reader) (models.Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return models.Dataset{}, nil
		}
		return models.Dataset{}, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"timestamp", "sensor_id"} {
		if _, ok := columns[required]; !ok {
			return models.Dataset{}, fmt.Errorf("missing column %q", required)
		}
	}

	var ds models.Dataset
	for _, p := range models.Parameters() {
		if _, ok := columns[string(p)]; !ok {
			ds.Missing = append(ds.Missing, p)
		}
	}

	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return models.Dataset{}, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return models.Dataset{}, fmt.Errorf("line %d: %w", line, err)
		}

		reading, err := parseRecord(record, columns)
		if err != nil {
			return models.Dataset{}, fmt.Errorf("line %d: %w", line, err)
		}
		ds.Rows = append(ds.Rows, reading)
	}

	return ds, nil
}

func parseRecord(record []string, columns map[string]int) (models.SensorReading, error) {
	field := func(name string) string {
		if i, ok := columns[name]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	// Absent columns read as zero; a blank cell in a present column is an error
	parseFloat := func(name string) (float64, error) {
		if _, ok := columns[name]; !ok {
			return 0, nil
		}
		val := field(name)
		if val == "" {
			return 0, fmt.Errorf("missing %s", name)
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q", name, val)
		}
		return f, nil
	}

	reading := models.SensorReading{SensorID: field("sensor_id")}

	ts, err := parseTimestamp(field("timestamp"))
	if err != nil {
		return reading, err
	}
	reading.Timestamp = ts

	if reading.Temperature, err = parseFloat("temperature"); err != nil {
		return reading, err
	}
	if reading.Humidity, err = parseFloat("humidity"); err != nil {
		return reading, err
	}
	if reading.Pressure, err = parseFloat("pressure"); err != nil {
		return reading, err
	}

	return reading, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
}

// WriteCSV writes readings to path, creating parent directories
func WriteCSV(path string, readings []models.SensorReading) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := EncodeCSV(f, readings); err != nil {
		return err
	}
	return f.Close()
}

// EncodeCSV writes the header and one record per reading
func EncodeCSV(w io.Writer, readings []models.SensorReading) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range readings {
		record := []string{
			r.Timestamp.Format(TimestampLayout),
			r.SensorID,
			strconv.FormatFloat(r.Temperature, 'f', -1, 64),
			strconv.FormatFloat(r.Humidity, 'f', -1, 64),
			strconv.FormatFloat(r.Pressure, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
