package api

import (
	"time"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/forecast"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
)

// HealthStatus is the body of GET /health
type HealthStatus struct {
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
	Version        string `json:"version"`
	Source         string `json:"source"`
	Database       string `json:"database,omitempty"`
	ModelAvailable bool   `json:"model_available"`

	StoredObservations *int       `json:"stored_observations,omitempty"`
	LastReading        *time.Time `json:"last_reading,omitempty"`
}

// ModelStatus describes the model currently used for predictions
type ModelStatus struct {
	Available         bool              `json:"available"`
	TrainedAt         *time.Time        `json:"trained_at,omitempty"`
	Source            string            `json:"source,omitempty"`
	Outcome           *forecast.Outcome `json:"outcome,omitempty"`
	ConfidencePercent int               `json:"confidence_percent"`
	LowConfidence     bool              `json:"low_confidence"`
	LastError         string            `json:"last_error,omitempty"`
}

// PredictionResponse is a prediction with one readable line per variable
type PredictionResponse struct {
	forecast.Prediction
	TemperatureSummary string `json:"temperature_summary"`
	HumiditySummary    string `json:"humidity_summary"`
}

// ObservationsResponse is the body of GET /api/v1/observations
type ObservationsResponse struct {
	Observations []models.Observation `json:"observations"`
	Count        int                  `json:"count"`
	Source       string               `json:"source"`
}

// AlertsResponse is the body of GET /api/v1/alerts
type AlertsResponse struct {
	Alerts     []models.Alert      `json:"alerts"`
	Thresholds models.Thresholds   `json:"thresholds"`
	Latest     *models.Observation `json:"latest"`
}

// ErrorResponse is the JSON body of every error answer
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Minimum *int   `json:"minimum,omitempty"`
}

// LoginRequest is the body of POST /api/v1/auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token for protected endpoints
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
}
