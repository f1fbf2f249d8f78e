package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SensorReading is an observation as persisted in the relational store
type SensorReading struct {
	ID          uuid.UUID `json:"id"`
	EntryID     int       `json:"entry_id"`
	Temperature *float64  `json:"temperature"`
	Humidity    *float64  `json:"humidity"`
	DateUTC     time.Time `json:"date_utc"`
}

// Observation renders the reading in the dashboard's local time format
func (r SensorReading) Observation(loc *time.Location) Observation {
	return Observation{
		Time:        r.DateUTC.In(loc).Format(TimeLayout),
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
		EntryID:     r.EntryID,
	}
}

// ReadingQueryParams holds all query parameters for reading queries
type ReadingQueryParams struct {
	StartTime string
	EndTime   string
	Limit     int
	Page      int
	Order     string
}

// Validate checks if the query parameters are valid
func (p *ReadingQueryParams) Validate() error {
	// Validate limit
	if p.Limit < 1 || p.Limit > 10000 {
		return fmt.Errorf("limit must be between 1 and 10000")
	}

	// Validate page
	if p.Page < 1 {
		return fmt.Errorf("page must be greater than 0")
	}

	if p.Order != "asc" && p.Order != "desc" {
		return fmt.Errorf("invalid order: %s (valid: asc, desc)", p.Order)
	}

	var start, end time.Time
	var err error
	if p.StartTime != "" {
		if start, err = time.Parse(time.RFC3339, p.StartTime); err != nil {
			return fmt.Errorf("invalid start time: %s", p.StartTime)
		}
	}
	if p.EndTime != "" {
		if end, err = time.Parse(time.RFC3339, p.EndTime); err != nil {
			return fmt.Errorf("invalid end time: %s", p.EndTime)
		}
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return fmt.Errorf("start time must be before end time")
	}

	return nil
}

// ReadingsResponse is a page of stored readings
type ReadingsResponse struct {
	Data       []Observation `json:"data"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	Limit      int           `json:"limit"`
	HasMore    bool          `json:"has_more"`
}
