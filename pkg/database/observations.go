package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
)

const upsertObservationQuery = `
    INSERT INTO observations (entry_id, temperature, humidity, date_utc)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (entry_id) DO UPDATE
    SET temperature = EXCLUDED.temperature, humidity = EXCLUDED.humidity, date_utc = EXCLUDED.date_utc
    RETURNING id, entry_id
`

// StoreObservation upserts a reading keyed by entry_id. A zero EntryID is
// replaced by the next free one, which is how pushed readings get numbered.
func (dm *DatabaseManager) StoreObservation(ctx context.Context, reading *models.SensorReading) error {
	if reading.EntryID == 0 {
		query := `
            INSERT INTO observations (entry_id, temperature, humidity, date_utc)
            SELECT COALESCE(MAX(entry_id), 0) + 1, $1, $2, $3 FROM observations
            RETURNING id, entry_id
        `
		err := dm.queryRow(ctx, query, reading.Temperature, reading.Humidity, reading.DateUTC.UTC()).
			Scan(&reading.ID, &reading.EntryID)
		if err != nil {
			return fmt.Errorf("failed to insert observation: %w", err)
		}
		return nil
	}

	err := dm.queryRow(ctx, upsertObservationQuery,
		reading.EntryID,
		reading.Temperature,
		reading.Humidity,
		reading.DateUTC.UTC(),
	).Scan(&reading.ID, &reading.EntryID)
	if err != nil {
		return fmt.Errorf("failed to store observation %d: %w", reading.EntryID, err)
	}
	return nil
}

// StoreObservations upserts a batch of readings in one transaction and
// returns how many rows were written
func (dm *DatabaseManager) StoreObservations(ctx context.Context, readings []models.SensorReading) (int, error) {
	if len(readings) == 0 {
		return 0, nil
	}
	if err := dm.healthChecker.EnsureConnection(ctx); err != nil {
		return 0, err
	}

	tx, err := dm.GetDB().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertObservationQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i := range readings {
		r := &readings[i]
		if r.EntryID == 0 {
			return 0, fmt.Errorf("reading at %s has no entry_id", r.DateUTC.Format(time.RFC3339))
		}
		if err := stmt.QueryRowContext(ctx, r.EntryID, r.Temperature, r.Humidity, r.DateUTC.UTC()).Scan(&r.ID, &r.EntryID); err != nil {
			return 0, fmt.Errorf("failed to store observation %d: %w", r.EntryID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit observations: %w", err)
	}
	return len(readings), nil
}

// GetObservations returns a page of stored readings rendered in loc
func (dm *DatabaseManager) GetObservations(ctx context.Context, params models.ReadingQueryParams, loc *time.Location) (*models.ReadingsResponse, error) {
	whereClause := ""
	args := []interface{}{}
	argCount := 1

	if params.StartTime != "" {
		whereClause += fmt.Sprintf(" AND date_utc >= $%d", argCount)
		args = append(args, params.StartTime)
		argCount++
	}
	if params.EndTime != "" {
		whereClause += fmt.Sprintf(" AND date_utc <= $%d", argCount)
		args = append(args, params.EndTime)
		argCount++
	}

	var totalCount int
	countQuery := "SELECT COUNT(*) FROM observations WHERE 1=1" + whereClause
	if err := dm.queryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("failed to get total count: %w", err)
	}

	query := `
        SELECT id, entry_id, temperature, humidity, date_utc
        FROM observations
        WHERE 1=1
    ` + whereClause
	query += fmt.Sprintf(" ORDER BY date_utc %s, entry_id %s", strings.ToUpper(params.Order), strings.ToUpper(params.Order))
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, params.Limit, (params.Page-1)*params.Limit)

	readings, err := dm.queryReadings(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	data := make([]models.Observation, len(readings))
	for i, r := range readings {
		data[i] = r.Observation(loc)
	}

	totalPages := (totalCount + params.Limit - 1) / params.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	return &models.ReadingsResponse{
		Data:       data,
		Total:      totalCount,
		Page:       params.Page,
		TotalPages: totalPages,
		Limit:      params.Limit,
		HasMore:    params.Page < totalPages,
	}, nil
}

// GetRecentObservations returns the newest n readings, oldest first
func (dm *DatabaseManager) GetRecentObservations(ctx context.Context, n int) ([]models.SensorReading, error) {
	query := `
        SELECT id, entry_id, temperature, humidity, date_utc FROM (
            SELECT id, entry_id, temperature, humidity, date_utc
            FROM observations
            ORDER BY date_utc DESC, entry_id DESC
            LIMIT $1
        ) recent
        ORDER BY date_utc ASC, entry_id ASC
    `
	return dm.queryReadings(ctx, query, n)
}

// GetLatestObservation returns the newest reading or nil when the table is empty
func (dm *DatabaseManager) GetLatestObservation(ctx context.Context) (*models.SensorReading, error) {
	query := `
        SELECT id, entry_id, temperature, humidity, date_utc
        FROM observations
        ORDER BY date_utc DESC, entry_id DESC
        LIMIT 1
    `

	var r models.SensorReading
	err := dm.queryRow(ctx, query).Scan(&r.ID, &r.EntryID, &r.Temperature, &r.Humidity, &r.DateUTC)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest observation: %w", err)
	}
	return &r, nil
}

// CountObservations returns the number of stored readings
func (dm *DatabaseManager) CountObservations(ctx context.Context) (int, error) {
	var count int
	if err := dm.queryRow(ctx, "SELECT COUNT(*) FROM observations").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count observations: %w", err)
	}
	return count, nil
}

func (dm *DatabaseManager) queryReadings(ctx context.Context, query string, args ...interface{}) ([]models.SensorReading, error) {
	rows, err := dm.QueryWithHealthCheck(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()

	readings := []models.SensorReading{}
	for rows.Next() {
		var r models.SensorReading
		if err := rows.Scan(&r.ID, &r.EntryID, &r.Temperature, &r.Humidity, &r.DateUTC); err != nil {
			log.Printf("❌ Failed to scan observation: %v", err)
			continue
		}
		readings = append(readings, r)
	}

	return readings, rows.Err()
}
