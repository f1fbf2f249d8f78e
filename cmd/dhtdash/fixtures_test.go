package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/database"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/pusher"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/pusher/dht"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/stats"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/thingspeak"
)

const testSecret = "test-secret"

var testZone = time.FixedZone("BRT", -3*60*60)

// hourlySeries is n hourly observations from 10-03-2025 08:00 BRT with
// temperature 20 + 0.5 per hour and constant humidity 50
func hourlySeries(n int) []models.Observation {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, testZone)
	out := make([]models.Observation, n)
	for i := range out {
		out[i] = models.Observation{
			Time:        start.Add(time.Duration(i) * time.Hour).Format(models.TimeLayout),
			Temperature: models.Float(20 + 0.5*float64(i)),
			Humidity:    models.Float(50),
			EntryID:     i + 1,
		}
	}
	return out
}

type fakeSource struct {
	name         string
	observations []models.Observation
	err          error
}

func (f *fakeSource) Name() string {
	if f.name == "" {
		return SourceThingSpeak
	}
	return f.name
}

func (f *fakeSource) Observations(_ context.Context, results int) ([]models.Observation, error) {
	if f.err != nil {
		return nil, f.err
	}
	obs := f.observations
	if len(obs) > results {
		obs = obs[len(obs)-results:]
	}
	return obs, nil
}

type fakeFeeds struct {
	resp *thingspeak.FeedsResponse
	err  error
	last int
}

func (f *fakeFeeds) GetFeeds(_ context.Context, results int) (*thingspeak.FeedsResponse, error) {
	f.last = results
	return f.resp, f.err
}

func (f *fakeFeeds) GetLast(_ context.Context) (*thingspeak.Feed, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.resp.Feeds) == 0 {
		return nil, nil
	}
	return &f.resp.Feeds[len(f.resp.Feeds)-1], nil
}

type fakeUsers struct{}

func (fakeUsers) ValidateUser(_ context.Context, username, password string) (*models.User, error) {
	if username == "admin" && password == "secret" {
		return &models.User{ID: uuid.New(), Username: "admin"}, nil
	}
	return nil, database.ErrInvalidCredentials
}

type memoryStore struct {
	mu       sync.Mutex
	readings []models.SensorReading
	err      error
}

func (m *memoryStore) StoreObservation(_ context.Context, reading *models.SensorReading) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	reading.EntryID = len(m.readings) + 1
	m.readings = append(m.readings, *reading)
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []models.Alert
}

func (r *recordingNotifier) Notify(_ context.Context, alerts []models.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, alerts...)
	return nil
}

func (r *recordingNotifier) Close() error { return nil }

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.alerts)
}

type testEnv struct {
	rm       *RouteManager
	server   *httptest.Server
	source   *fakeSource
	feeds    *fakeFeeds
	store    *memoryStore
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T, observations []models.Observation) *testEnv {
	t.Helper()

	cfg := &Config{
		AllowedOrigins: []string{"http://localhost:5173"},
		Location:       testZone,
		DataSource:     SourceThingSpeak,
		TrainResults:   100,
		Thresholds:     stats.DefaultThresholds(),
		JWTSecret:      testSecret,
		PushAPIKey:     "write-key",
	}

	env := &testEnv{
		source:   &fakeSource{observations: observations},
		feeds:    &fakeFeeds{resp: &thingspeak.FeedsResponse{Channel: thingspeak.Channel{ID: 42}}},
		store:    &memoryStore{},
		notifier: &recordingNotifier{},
	}

	metrics := NewMetrics()
	alerts := NewAlertMonitor(cfg.Thresholds, env.notifier, metrics)
	modelStore := NewModelStore()

	pushers := pusher.NewRegistry()
	pushers.Register(dht.NewPusher(cfg.PushAPIKey))

	env.rm = NewRouteManager(RouteDeps{
		Config:   cfg,
		Source:   env.source,
		Feeds:    env.feeds,
		Users:    fakeUsers{},
		Ingestor: NewIngestor(env.store, alerts, metrics, cfg.Location),
		Pushers:  pushers,
		Trainer:  NewTrainer(env.source, modelStore, cfg.Location, cfg.TrainResults, metrics),
		Models:   modelStore,
		Alerts:   alerts,
		Metrics:  metrics,
	})
	env.rm.now = func() time.Time { return time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC) }
	env.rm.Setup()

	env.server = httptest.NewServer(env.rm.Router)
	t.Cleanup(env.server.Close)
	return env
}

func (e *testEnv) token(t *testing.T) string {
	t.Helper()
	token, _, err := GenerateJWT(&models.User{ID: uuid.New(), Username: "admin"}, testSecret, e.rm.now())
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, e.server.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request %s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}
