package database

import (
	"context"
	"fmt"

	"github.com/sguter90/anomalymaestro/pkg/models"
)

// ReadAllRows returns every stored reading in insertion order. The table
// carries every parameter column, so Missing is always empty.
func (dm *DatabaseManager) ReadAllRows(ctx context.Context) (models.Dataset, error) {
	query := `
        SELECT timestamp, sensor_id, temperature, humidity, pressure
        FROM sensor_readings
        ORDER BY id ASC
    `

	rows, err := dm.QueryWithHealthCheck(ctx, query)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	var readings []models.SensorReading
	for rows.Next() {
		var r models.SensorReading
		if err := rows.Scan(&r.Timestamp, &r.SensorID, &r.Temperature, &r.Humidity, &r.Pressure); err != nil {
			return models.Dataset{}, fmt.Errorf("failed to scan reading: %w", err)
		}
		r.Timestamp = r.Timestamp.UTC()
		readings = append(readings, r)
	}

	if err := rows.Err(); err != nil {
		return models.Dataset{}, err
	}
	return models.Dataset{Rows: readings}, nil
}

// StoreReadings inserts readings in one transaction, preserving their order
func (dm *DatabaseManager) StoreReadings(ctx context.Context, readings []models.SensorReading) error {
	if err := dm.healthChecker.EnsureConnection(ctx); err != nil {
		return err
	}

	tx, err := dm.GetDB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO sensor_readings (timestamp, sensor_id, temperature, humidity, pressure)
        VALUES ($1, $2, $3, $4, $5)
    `)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range readings {
		if _, err := stmt.ExecContext(ctx, r.Timestamp, r.SensorID, r.Temperature, r.Humidity, r.Pressure); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to store reading %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit readings: %w", err)
	}

	dm.logger.Sugar().Infof("✓ Stored %d sensor readings", len(readings))
	return nil
}

// CountReadings returns the number of stored readings for sensorID, or all readings when empty
func (dm *DatabaseManager) CountReadings(ctx context.Context, sensorID string) (int, error) {
	query := `SELECT COUNT(*) FROM sensor_readings`
	args := []interface{}{}
	if sensorID != "" {
		query += ` WHERE sensor_id = $1`
		args = append(args, sensorID)
	}

	rows, err := dm.QueryWithHealthCheck(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, err
		}
	}
	return count, rows.Err()
}
