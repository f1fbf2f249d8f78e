package main

import (
	"log"
	"net/http"
	"time"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/api"
)

// Version is set at build time
var Version = "dev"

// healthHandler returns server health status
func (rm *RouteManager) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := api.HealthStatus{
		Status:         "ok",
		Timestamp:      rm.now().UTC().Format(time.RFC3339),
		Version:        Version,
		Source:         rm.Source.Name(),
		ModelAvailable: rm.Models.Snapshot() != nil,
	}
	if rm.Health != nil {
		status.Database = rm.Health()
		if status.Database != "ok" {
			status.Status = "degraded"
		}
	}
	if rm.History != nil {
		rm.addHistory(r, &status)
	}
	writeJSON(w, http.StatusOK, status)
}

// addHistory reports how much is stored and how fresh the newest reading is
func (rm *RouteManager) addHistory(r *http.Request, status *api.HealthStatus) {
	count, err := rm.History.CountObservations(r.Context())
	if err != nil {
		log.Printf("⚠ Health check could not count observations: %v", err)
		status.Status = "degraded"
		return
	}
	status.StoredObservations = &count

	latest, err := rm.History.GetLatestObservation(r.Context())
	if err != nil {
		log.Printf("⚠ Health check could not load latest observation: %v", err)
		status.Status = "degraded"
		return
	}
	if latest != nil {
		at := latest.DateUTC.UTC()
		status.LastReading = &at
	}
}
