package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
)

// ObservationStore persists single pushed readings
type ObservationStore interface {
	StoreObservation(ctx context.Context, reading *models.SensorReading) error
}

var errNoStore = errors.New("no database configured for ingest")

// Ingestor is the common path for readings arriving from pushers, MQTT and pullers
type Ingestor struct {
	store   ObservationStore
	alerts  *AlertMonitor
	metrics *Metrics
	loc     *time.Location
}

// NewIngestor creates an ingestor that stores readings and checks them against alert thresholds
func NewIngestor(store ObservationStore, alerts *AlertMonitor, metrics *Metrics, loc *time.Location) *Ingestor {
	return &Ingestor{store: store, alerts: alerts, metrics: metrics, loc: loc}
}

// Ingest stores one reading and checks it for alerts
func (i *Ingestor) Ingest(ctx context.Context, source string, reading models.SensorReading) (*models.SensorReading, error) {
	if i.store == nil {
		return nil, errNoStore
	}
	if err := i.store.StoreObservation(ctx, &reading); err != nil {
		return nil, fmt.Errorf("failed to store reading: %w", err)
	}
	i.metrics.Ingested(source, 1)
	i.alerts.Check(ctx, reading.Observation(i.loc))
	return &reading, nil
}

// AfterPull is a puller hook: it counts the pulled readings and checks the
// newest one for alerts
func (i *Ingestor) AfterPull(ctx context.Context, providerType string, readings []models.SensorReading) {
	if len(readings) == 0 {
		return
	}
	i.metrics.Ingested(providerType, len(readings))

	newest := readings[0]
	for _, r := range readings[1:] {
		if r.DateUTC.After(newest.DateUTC) {
			newest = r
		}
	}
	alerts := i.alerts.Check(ctx, newest.Observation(i.loc))
	log.Printf("✓ Pulled %d readings from %s (%d alerts)", len(readings), providerType, len(alerts))
}
