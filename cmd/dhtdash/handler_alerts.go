package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/api"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
)

// alertsHandler evaluates the latest observation against the thresholds
func (rm *RouteManager) alertsHandler(w http.ResponseWriter, r *http.Request) {
	observations, err := rm.Source.Observations(r.Context(), 1)
	if err != nil {
		log.Printf("❌ Failed to load latest observation: %v", err)
		writeError(w, http.StatusBadGateway, "failed to load latest observation", err.Error())
		return
	}

	resp := api.AlertsResponse{
		Alerts:     []models.Alert{},
		Thresholds: rm.Alerts.Thresholds(),
	}
	if len(observations) > 0 {
		latest := observations[len(observations)-1]
		resp.Latest = &latest
		if alerts := rm.Alerts.Evaluate(latest); len(alerts) > 0 {
			resp.Alerts = alerts
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (rm *RouteManager) updateThresholdsHandler(w http.ResponseWriter, r *http.Request) {
	var th models.Thresholds
	if err := json.NewDecoder(r.Body).Decode(&th); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := rm.Alerts.SetThresholds(th); err != nil {
		writeError(w, http.StatusBadRequest, "invalid thresholds", err.Error())
		return
	}

	if user := GetUserFromContext(r.Context()); user != nil {
		log.Printf("✓ Alert thresholds updated by %s", user.Username)
	}
	writeJSON(w, http.StatusOK, th)
}
