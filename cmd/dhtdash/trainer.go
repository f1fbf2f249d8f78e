package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/forecast"
)

// Trainer runs training cycles over a source and publishes them to a ModelStore
type Trainer struct {
	source  Source
	store   *ModelStore
	loc     *time.Location
	results int
	metrics *Metrics
	now     func() time.Time
}

// NewTrainer creates a trainer that fits models on the newest results observations from source
func NewTrainer(source Source, store *ModelStore, loc *time.Location, results int, metrics *Metrics) *Trainer {
	return &Trainer{
		source:  source,
		store:   store,
		loc:     loc,
		results: results,
		metrics: metrics,
		now:     time.Now,
	}
}

// Train fits both models to the newest results observations.
// results <= 0 uses the configured default. Fetch failures leave the current
// model untouched; training failures clear it.
func (t *Trainer) Train(ctx context.Context, results int) (*ModelSnapshot, error) {
	if results <= 0 {
		results = t.results
	}

	observations, err := t.source.Observations(ctx, results)
	if err != nil {
		t.metrics.Training("fetch_error")
		return nil, fmt.Errorf("failed to fetch training data: %w", err)
	}

	outcome, err := forecast.Train(observations, t.loc)
	if err != nil {
		t.store.Fail(err)
		t.metrics.Training("failed")
		t.metrics.ModelCleared()
		return nil, err
	}

	snapshot := t.store.Set(outcome, t.source.Name(), t.now())
	t.metrics.Training("ok")
	t.metrics.ModelTrained(snapshot)
	return snapshot, nil
}

// Run trains once, then again on every tick until ctx is done
func (t *Trainer) Run(ctx context.Context, interval time.Duration) {
	t.retrain(ctx)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.retrain(ctx)
		}
	}
}

func (t *Trainer) retrain(ctx context.Context) {
	snapshot, err := t.Train(ctx, 0)
	if err != nil {
		log.Printf("⚠ Model training failed: %v", err)
		return
	}
	log.Printf("✓ Model trained on %d samples (R² temp=%.3f hum=%.3f)",
		snapshot.Outcome.SampleCount, snapshot.Outcome.TemperatureR2, snapshot.Outcome.HumidityR2)
}
