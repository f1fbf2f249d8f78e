package main

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/api"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/export"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/stats"
)

const defaultObservationResults = 100

// loadObservations reads the results parameter and fetches from the source.
// It writes the error response itself and returns ok=false on failure.
func (rm *RouteManager) loadObservations(w http.ResponseWriter, r *http.Request) ([]models.Observation, bool) {
	results, err := parseResults(r, defaultObservationResults)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return nil, false
	}

	observations, err := rm.Source.Observations(r.Context(), results)
	if err != nil {
		log.Printf("❌ Failed to load observations from %s: %v", rm.Source.Name(), err)
		writeError(w, http.StatusBadGateway, "failed to load observations", err.Error())
		return nil, false
	}
	return observations, true
}

func (rm *RouteManager) observationsHandler(w http.ResponseWriter, r *http.Request) {
	observations, ok := rm.loadObservations(w, r)
	if !ok {
		return
	}
	if observations == nil {
		observations = []models.Observation{}
	}

	writeJSON(w, http.StatusOK, api.ObservationsResponse{
		Observations: observations,
		Count:        len(observations),
		Source:       rm.Source.Name(),
	})
}

func (rm *RouteManager) statsHandler(w http.ResponseWriter, r *http.Request) {
	observations, ok := rm.loadObservations(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stats.Summarize(observations))
}

// exportHandler downloads the observations as CSV
func (rm *RouteManager) exportHandler(w http.ResponseWriter, r *http.Request) {
	observations, ok := rm.loadObservations(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, observations); err != nil {
		log.Printf("❌ Failed to render CSV: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to render CSV", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	w.Write(buf.Bytes())
}

// readingsHandler pages through the stored history
// Query params:
//   - start: start time (RFC3339)
//   - end: end time (RFC3339)
//   - limit: page size (default: 100, max: 10000)
//   - page: page number starting at 1
//   - order: sort order (asc/desc, default: desc)
func (rm *RouteManager) readingsHandler(w http.ResponseWriter, r *http.Request) {
	if rm.History == nil {
		writeError(w, http.StatusServiceUnavailable, "no database configured", "")
		return
	}

	params, err := parseReadingQueryParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := rm.History.GetObservations(r.Context(), params, rm.Config.Location)
	if err != nil {
		log.Printf("❌ Failed to query readings: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to query readings", "")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// parseReadingQueryParams extracts and parses query parameters from the request
func parseReadingQueryParams(r *http.Request) (models.ReadingQueryParams, error) {
	q := r.URL.Query()
	params := models.ReadingQueryParams{
		StartTime: q.Get("start"),
		EndTime:   q.Get("end"),
		Limit:     100,    // default
		Page:      1,      // default
		Order:     "desc", // default
	}

	if order := q.Get("order"); order != "" {
		params.Order = strings.ToLower(order)
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return params, fmt.Errorf("invalid limit %q", raw)
		}
		params.Limit = limit
	}
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return params, fmt.Errorf("invalid page %q", raw)
		}
		params.Page = page
	}

	return params, nil
}
