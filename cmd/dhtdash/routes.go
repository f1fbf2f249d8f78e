package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/pusher"
)

// UserStore validates dashboard credentials
type UserStore interface {
	ValidateUser(ctx context.Context, username, password string) (*models.User, error)
}

// HistoryStore is the stored reading history
type HistoryStore interface {
	GetObservations(ctx context.Context, params models.ReadingQueryParams, loc *time.Location) (*models.ReadingsResponse, error)
	GetLatestObservation(ctx context.Context) (*models.SensorReading, error)
	CountObservations(ctx context.Context) (int, error)
}

// RouteDeps are the collaborators the HTTP layer needs. Feeds, Users,
// History, Ingestor and Pushers are optional; their routes answer 503 or
// are not registered when missing.
type RouteDeps struct {
	Config   *Config
	Source   Source
	Feeds    FeedFetcher
	Users    UserStore
	History  HistoryStore
	Ingestor *Ingestor
	Pushers  *pusher.Registry
	Trainer  *Trainer
	Models   *ModelStore
	Alerts   *AlertMonitor
	Metrics  *Metrics
	Health   func() string
}

// RouteManager handles all API routes
type RouteManager struct {
	RouteDeps
	Router *mux.Router
	now    func() time.Time
}

// NewRouteManager creates a new RouteManager instance
func NewRouteManager(deps RouteDeps) *RouteManager {
	return &RouteManager{
		RouteDeps: deps,
		Router:    mux.NewRouter(),
		now:       time.Now,
	}
}

// Setup configures all API routes
func (rm *RouteManager) Setup() {
	r := rm.Router
	r.Use(rm.corsMiddleware())
	r.Use(rm.metricsMiddleware)

	// mux only runs middleware on a match, so preflights need a route
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.HandleFunc("/health", rm.healthHandler).Methods("GET")
	if rm.Metrics != nil {
		r.Handle("/metrics", rm.Metrics.Handler()).Methods("GET")
	}

	rm.setupPusherEndpoints(r)

	// ThingSpeak proxy kept for the dashboard frontend
	r.HandleFunc("/api/feeds", rm.feedsHandler).Methods("GET")
	r.HandleFunc("/api/last", rm.lastHandler).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	rm.setupAPIRoutes(api)
}

// Handler wraps the router with access logging and panic recovery
func (rm *RouteManager) Handler() http.Handler {
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(
		handlers.CombinedLoggingHandler(os.Stdout, rm.Router),
	)
}

// setupPusherEndpoints registers dynamic pusher endpoints
func (rm *RouteManager) setupPusherEndpoints(r *mux.Router) {
	if rm.Pushers == nil || rm.Ingestor == nil {
		return
	}
	for _, p := range rm.Pushers.All() {
		endpoint := p.GetEndpoint()
		log.Printf("✓ Registering endpoint: %s for device type: %s", endpoint, p.GetDeviceType())
		r.HandleFunc(endpoint, rm.pushHandler(p)).Methods("GET", "POST")
	}
}

// setupAPIRoutes configures all API v1 routes
func (rm *RouteManager) setupAPIRoutes(api *mux.Router) {
	api.HandleFunc("/auth/login", rm.handleLogin).Methods("POST")

	api.HandleFunc("/observations", rm.observationsHandler).Methods("GET")
	api.HandleFunc("/readings", rm.readingsHandler).Methods("GET")
	api.HandleFunc("/stats", rm.statsHandler).Methods("GET")
	api.HandleFunc("/alerts", rm.alertsHandler).Methods("GET")
	api.HandleFunc("/export.csv", rm.exportHandler).Methods("GET")

	api.HandleFunc("/model", rm.modelHandler).Methods("GET")
	api.HandleFunc("/predict", rm.predictHandler).Methods("GET")

	// Protected endpoints (auth required)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(rm.JWTAuthMiddleware)

	protected.HandleFunc("/auth/me", rm.handleMe).Methods("GET")
	protected.HandleFunc("/model/train", rm.trainHandler).Methods("POST")
	protected.HandleFunc("/alerts/thresholds", rm.updateThresholdsHandler).Methods("PUT")
}
