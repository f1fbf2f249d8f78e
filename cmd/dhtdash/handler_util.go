package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/api"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/thingspeak"
)

// writeJSON encodes v before touching the response, so an unencodable
// value turns into a 500 instead of an empty body under status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode response"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, api.ErrorResponse{Error: message, Details: details})
}

// parseResults reads the results query parameter, falling back to def
func parseResults(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("results")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > thingspeak.MaxResults {
		return 0, fmt.Errorf("results must be an integer between 1 and %d", thingspeak.MaxResults)
	}
	return n, nil
}
