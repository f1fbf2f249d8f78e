package main

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/notify"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/stats"
)

// AlertMonitor evaluates incoming observations against the configured
// thresholds and hands raised alerts to a notifier
type AlertMonitor struct {
	mu         sync.RWMutex
	thresholds models.Thresholds
	notifier   notify.Notifier
	metrics    *Metrics
	now        func() time.Time
}

// NewAlertMonitor creates a monitor that sends threshold breaches to notifier
func NewAlertMonitor(thresholds models.Thresholds, notifier notify.Notifier, metrics *Metrics) *AlertMonitor {
	return &AlertMonitor{
		thresholds: thresholds,
		notifier:   notifier,
		metrics:    metrics,
		now:        time.Now,
	}
}

func (m *AlertMonitor) Thresholds() models.Thresholds {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.thresholds
}

// SetThresholds replaces the thresholds after validating them
func (m *AlertMonitor) SetThresholds(th models.Thresholds) error {
	if err := th.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	m.thresholds = th
	m.mu.Unlock()
	return nil
}

// Evaluate returns the alerts obs raises without notifying anyone
func (m *AlertMonitor) Evaluate(obs models.Observation) []models.Alert {
	return stats.Evaluate(obs, m.Thresholds(), m.now())
}

// Check evaluates obs and notifies about the result
func (m *AlertMonitor) Check(ctx context.Context, obs models.Observation) []models.Alert {
	alerts := m.Evaluate(obs)
	m.metrics.Alerts(alerts)

	if m.notifier != nil {
		if err := m.notifier.Notify(ctx, alerts); err != nil {
			log.Printf("❌ Failed to publish alerts: %v", err)
		}
	}
	return alerts
}
