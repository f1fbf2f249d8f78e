package main

import (
	"math"
	"sync"
	"time"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/api"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/forecast"
)

// ModelSnapshot is a trained outcome and where it came from
type ModelSnapshot struct {
	Outcome   *forecast.Outcome
	TrainedAt time.Time
	Source    string
}

// ModelStore holds the model predictions are served from.
// The latest training attempt always wins: a failed retrain clears the
// snapshot so predictions report the model as unavailable.
type ModelStore struct {
	mu       sync.RWMutex
	snapshot *ModelSnapshot
	lastErr  error
}

// NewModelStore creates an empty model store
func NewModelStore() *ModelStore {
	return &ModelStore{}
}

// Set replaces the current snapshot
func (s *ModelStore) Set(outcome *forecast.Outcome, source string, trainedAt time.Time) *ModelSnapshot {
	snapshot := &ModelSnapshot{Outcome: outcome, TrainedAt: trainedAt, Source: source}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
	s.lastErr = nil
	return snapshot
}

// Fail records a failed training cycle
func (s *ModelStore) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
	s.lastErr = err
}

// Snapshot returns the current model, or nil when none is usable
func (s *ModelStore) Snapshot() *ModelSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Outcome returns the current outcome or nil
func (s *ModelStore) Outcome() *forecast.Outcome {
	if snap := s.Snapshot(); snap != nil {
		return snap.Outcome
	}
	return nil
}

// Status describes the store for the API
func (s *ModelStore) Status() api.ModelStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var status api.ModelStatus
	if s.lastErr != nil {
		status.LastError = s.lastErr.Error()
	}
	if s.snapshot == nil {
		return status
	}

	trainedAt := s.snapshot.TrainedAt

	status.Available = true
	status.TrainedAt = &trainedAt
	status.Source = s.snapshot.Source
	status.Outcome = s.snapshot.Outcome
	status.ConfidencePercent = int(math.Round(s.snapshot.Outcome.Confidence()))
	status.LowConfidence = s.snapshot.Outcome.LowConfidence()
	return status
}
