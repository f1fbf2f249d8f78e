package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/api"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/forecast"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/stats"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/thingspeak"
)

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func expectStatus(t *testing.T, resp *http.Response, status int) {
	t.Helper()
	if resp.StatusCode != status {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status %d, got %d: %s", status, resp.StatusCode, body)
	}
}

func TestHealthHandler(t *testing.T) {
	env := newTestEnv(t, hourlySeries(12))

	resp := env.do(t, "GET", "/health", "", "")
	expectStatus(t, resp, http.StatusOK)

	var health api.HealthStatus
	decode(t, resp, &health)
	if health.Status != "ok" || health.Source != SourceThingSpeak {
		t.Errorf("Unexpected health: %+v", health)
	}
	if health.ModelAvailable {
		t.Error("Expected no model before training")
	}
	if health.Timestamp != "2025-03-10T23:30:00Z" {
		t.Errorf("Expected injected clock in timestamp, got %s", health.Timestamp)
	}
}

func TestHealthHandler_Degraded(t *testing.T) {
	env := newTestEnv(t, nil)
	env.rm.Health = func() string { return "unhealthy" }

	var health api.HealthStatus
	decode(t, env.do(t, "GET", "/health", "", ""), &health)
	if health.Status != "degraded" || health.Database != "unhealthy" {
		t.Errorf("Expected degraded status, got %+v", health)
	}
}

func TestFeedsHandler(t *testing.T) {
	env := newTestEnv(t, nil)
	hum := "51.0"
	env.feeds.resp.Feeds = []thingspeak.Feed{{EntryID: 9, Field1: &hum, CreatedAt: time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)}}

	t.Run("default results", func(t *testing.T) {
		resp := env.do(t, "GET", "/api/feeds", "", "")
		expectStatus(t, resp, http.StatusOK)

		var body thingspeak.FeedsResponse
		decode(t, resp, &body)
		if env.feeds.last != 10 {
			t.Errorf("Expected default of 10 results, got %d", env.feeds.last)
		}
		if body.Channel.ID != 42 || len(body.Feeds) != 1 || body.Feeds[0].EntryID != 9 {
			t.Errorf("Unexpected proxied body: %+v", body)
		}
	})

	t.Run("explicit results", func(t *testing.T) {
		expectStatus(t, env.do(t, "GET", "/api/feeds?results=250", "", ""), http.StatusOK)
		if env.feeds.last != 250 {
			t.Errorf("Expected 250 results, got %d", env.feeds.last)
		}
	})

	t.Run("invalid results", func(t *testing.T) {
		expectStatus(t, env.do(t, "GET", "/api/feeds?results=abc", "", ""), http.StatusBadRequest)
		expectStatus(t, env.do(t, "GET", "/api/feeds?results=9000", "", ""), http.StatusBadRequest)
	})

	t.Run("upstream error", func(t *testing.T) {
		env.feeds.err = errors.New("timeout of 8000ms exceeded")
		defer func() { env.feeds.err = nil }()

		resp := env.do(t, "GET", "/api/feeds", "", "")
		expectStatus(t, resp, http.StatusInternalServerError)

		var body api.ErrorResponse
		decode(t, resp, &body)
		if body.Error != "could not fetch data from ThingSpeak" || body.Details != "timeout of 8000ms exceeded" {
			t.Errorf("Unexpected error body: %+v", body)
		}
	})
}

func TestFeedsHandler_NotConfigured(t *testing.T) {
	env := newTestEnv(t, nil)
	env.rm.Feeds = nil

	expectStatus(t, env.do(t, "GET", "/api/feeds", "", ""), http.StatusServiceUnavailable)
	expectStatus(t, env.do(t, "GET", "/api/last", "", ""), http.StatusServiceUnavailable)
}

func TestLastHandler(t *testing.T) {
	env := newTestEnv(t, nil)

	var empty map[string]*thingspeak.Feed
	decode(t, env.do(t, "GET", "/api/last", "", ""), &empty)
	if feed, ok := empty["last"]; !ok || feed != nil {
		t.Errorf("Expected {\"last\": null}, got %v", empty)
	}

	env.feeds.resp.Feeds = []thingspeak.Feed{{EntryID: 1}, {EntryID: 2}}
	var body map[string]*thingspeak.Feed
	decode(t, env.do(t, "GET", "/api/last", "", ""), &body)
	if body["last"] == nil || body["last"].EntryID != 2 {
		t.Errorf("Expected newest feed, got %v", body["last"])
	}
}

func TestObservationsHandler(t *testing.T) {
	env := newTestEnv(t, hourlySeries(12))

	resp := env.do(t, "GET", "/api/v1/observations?results=5", "", "")
	expectStatus(t, resp, http.StatusOK)

	var body api.ObservationsResponse
	decode(t, resp, &body)
	if body.Count != 5 || len(body.Observations) != 5 {
		t.Fatalf("Expected 5 observations, got %d", body.Count)
	}
	if body.Observations[0].EntryID != 8 || body.Observations[4].EntryID != 12 {
		t.Errorf("Expected newest five oldest first, got entries %d..%d",
			body.Observations[0].EntryID, body.Observations[4].EntryID)
	}
	if body.Observations[4].Time != "10-03-2025 19:00:00" {
		t.Errorf("Unexpected time %s", body.Observations[4].Time)
	}
}

func TestObservationsHandler_NaNField(t *testing.T) {
	env := newTestEnv(t, nil)
	hum, temp := "55", "nan"
	env.feeds.resp.Feeds = []thingspeak.Feed{
		{CreatedAt: time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC), EntryID: 1, Field1: &hum, Field2: &temp},
	}
	env.rm.Source = NewThingSpeakSource(env.feeds, testZone)

	resp := env.do(t, "GET", "/api/v1/observations", "", "")
	expectStatus(t, resp, http.StatusOK)

	var body api.ObservationsResponse
	decode(t, resp, &body)
	if len(body.Observations) != 1 {
		t.Fatalf("Expected one observation, got %d", len(body.Observations))
	}
	obs := body.Observations[0]
	if obs.Temperature != nil || obs.Humidity == nil || *obs.Humidity != 55 {
		t.Errorf("Expected null temperature and humidity 55, got %+v", obs)
	}
}

func TestWriteJSON_Unencodable(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]float64{"temp": math.NaN()})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
		t.Errorf("Expected a JSON error body, got %q", rec.Body.String())
	}
}

func TestObservationsHandler_Empty(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, "GET", "/api/v1/observations", "", "")
	expectStatus(t, resp, http.StatusOK)

	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), `"observations":[]`) {
		t.Errorf("Expected an empty array, got %s", raw)
	}
}

func TestObservationsHandler_SourceError(t *testing.T) {
	env := newTestEnv(t, nil)
	env.source.err = errors.New("connection refused")

	resp := env.do(t, "GET", "/api/v1/observations", "", "")
	expectStatus(t, resp, http.StatusBadGateway)

	var body api.ErrorResponse
	decode(t, resp, &body)
	if body.Details != "connection refused" {
		t.Errorf("Expected upstream details, got %+v", body)
	}
}

func TestStatsHandler(t *testing.T) {
	series := hourlySeries(12)
	series[3].Humidity = nil
	env := newTestEnv(t, series)

	var summary stats.Summary
	decode(t, env.do(t, "GET", "/api/v1/stats", "", ""), &summary)

	if summary.Window != 12 {
		t.Errorf("Expected window 12, got %d", summary.Window)
	}
	if summary.Temperature.Last == nil || *summary.Temperature.Last != 25.5 {
		t.Errorf("Expected last temperature 25.5, got %v", summary.Temperature.Last)
	}
	if summary.Temperature.Average == nil || *summary.Temperature.Average != 22.75 {
		t.Errorf("Expected average 22.75, got %v", summary.Temperature.Average)
	}
	if summary.Humidity.Count != 11 {
		t.Errorf("Expected missing humidity to be skipped, got count %d", summary.Humidity.Count)
	}
}

func TestExportHandler(t *testing.T) {
	series := hourlySeries(3)
	series[1].Temperature = nil
	env := newTestEnv(t, series)

	resp := env.do(t, "GET", "/api/v1/export.csv", "", "")
	expectStatus(t, resp, http.StatusOK)

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Expected text/csv, got %s", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "lecturas.csv") {
		t.Errorf("Expected lecturas.csv attachment, got %s", cd)
	}

	records, err := csv.NewReader(resp.Body).ReadAll()
	if err != nil {
		t.Fatalf("Invalid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("Expected header plus 3 rows, got %d", len(records))
	}
	if strings.Join(records[0], ",") != "time,temp,hum,entry_id" {
		t.Errorf("Unexpected header %v", records[0])
	}
	if records[2][1] != "" || records[2][2] != "50" {
		t.Errorf("Expected empty temperature cell, got %v", records[2])
	}
}

func TestAlertsHandler(t *testing.T) {
	env := newTestEnv(t, hourlySeries(12))

	var calm api.AlertsResponse
	decode(t, env.do(t, "GET", "/api/v1/alerts", "", ""), &calm)
	if len(calm.Alerts) != 0 {
		t.Errorf("Expected no alerts for 25.5°C/50%%, got %+v", calm.Alerts)
	}
	if calm.Latest == nil || calm.Latest.EntryID != 12 {
		t.Errorf("Expected latest observation 12, got %+v", calm.Latest)
	}

	env.source.observations = append(env.source.observations, models.Observation{
		Time: "10-03-2025 20:00:00", Temperature: models.Float(36.2), Humidity: models.Float(50), EntryID: 13,
	})

	var hot api.AlertsResponse
	decode(t, env.do(t, "GET", "/api/v1/alerts", "", ""), &hot)
	if len(hot.Alerts) != 1 {
		t.Fatalf("Expected one alert, got %+v", hot.Alerts)
	}
	if hot.Alerts[0].Severity != models.SeverityDanger || hot.Alerts[0].Metric != models.MetricTemperature {
		t.Errorf("Expected temperature danger alert, got %+v", hot.Alerts[0])
	}
	if env.notifier.count() != 0 {
		t.Error("Reading alerts must not notify")
	}
}

func TestUpdateThresholdsHandler(t *testing.T) {
	env := newTestEnv(t, hourlySeries(12))
	token := env.token(t)

	th := stats.DefaultThresholds()
	th.TempHigh = 25
	raw, _ := json.Marshal(th)

	expectStatus(t, env.do(t, "PUT", "/api/v1/alerts/thresholds", "", string(raw)), http.StatusUnauthorized)
	expectStatus(t, env.do(t, "PUT", "/api/v1/alerts/thresholds", "not-a-token", string(raw)), http.StatusUnauthorized)
	expectStatus(t, env.do(t, "PUT", "/api/v1/alerts/thresholds", token, "{"), http.StatusBadRequest)

	inverted := th
	inverted.TempLow = 40
	bad, _ := json.Marshal(inverted)
	expectStatus(t, env.do(t, "PUT", "/api/v1/alerts/thresholds", token, string(bad)), http.StatusBadRequest)

	expectStatus(t, env.do(t, "PUT", "/api/v1/alerts/thresholds", token, string(raw)), http.StatusOK)

	var body api.AlertsResponse
	decode(t, env.do(t, "GET", "/api/v1/alerts", "", ""), &body)
	if body.Thresholds.TempHigh != 25 {
		t.Errorf("Expected updated threshold, got %v", body.Thresholds.TempHigh)
	}
	if len(body.Alerts) != 1 || body.Alerts[0].Severity != models.SeverityWarning {
		t.Errorf("Expected a warning for 25.5°C above 25°C, got %+v", body.Alerts)
	}
}

func TestModelLifecycle(t *testing.T) {
	env := newTestEnv(t, hourlySeries(12))
	token := env.token(t)

	resp := env.do(t, "GET", "/api/v1/model", "", "")
	expectStatus(t, resp, http.StatusConflict)
	var unavailable api.ErrorResponse
	decode(t, resp, &unavailable)
	if unavailable.Error != forecast.ErrModelUnavailable.Error() {
		t.Errorf("Unexpected error %q", unavailable.Error)
	}

	expectStatus(t, env.do(t, "GET", "/api/v1/predict", "", ""), http.StatusConflict)
	expectStatus(t, env.do(t, "POST", "/api/v1/model/train", "", ""), http.StatusUnauthorized)

	resp = env.do(t, "POST", "/api/v1/model/train", token, "")
	expectStatus(t, resp, http.StatusOK)
	var trained api.ModelStatus
	decode(t, resp, &trained)
	if !trained.Available || trained.Outcome == nil {
		t.Fatalf("Expected available model, got %+v", trained)
	}
	if trained.Outcome.SampleCount != 12 || trained.ConfidencePercent != 100 || trained.Source != SourceThingSpeak {
		t.Errorf("Unexpected model status: samples=%d confidence=%d source=%s",
			trained.Outcome.SampleCount, trained.ConfidencePercent, trained.Source)
	}

	expectStatus(t, env.do(t, "GET", "/api/v1/model", "", ""), http.StatusOK)

	var health api.HealthStatus
	decode(t, env.do(t, "GET", "/health", "", ""), &health)
	if !health.ModelAvailable {
		t.Error("Expected health to report the trained model")
	}

	// 20:30 BRT now, so today at 22:00 is the same instant as the explicit one
	for _, path := range []string{
		"/api/v1/predict?days=0&hour=22",
		"/api/v1/predict?at=2025-03-10T22:00:00-03:00",
	} {
		t.Run(path, func(t *testing.T) {
			resp := env.do(t, "GET", path, "", "")
			expectStatus(t, resp, http.StatusOK)

			var p api.PredictionResponse
			decode(t, resp, &p)

			want := time.Date(2025, 3, 10, 22, 0, 0, 0, testZone)
			if !p.Target.Equal(want) {
				t.Errorf("Expected target %s, got %s", want, p.Target)
			}
			if math.Abs(p.Temperature.Predicted-27) > 1e-2 {
				t.Errorf("Expected about 27°C, got %v", p.Temperature.Predicted)
			}
			if p.Temperature.Direction != forecast.DirectionIncrease {
				t.Errorf("Expected increase, got %s", p.Temperature.Direction)
			}
			if p.Humidity.Direction != forecast.DirectionNegligible {
				t.Errorf("Expected negligible humidity change, got %s", p.Humidity.Direction)
			}
			if p.TemperatureSummary != "will rise about 1.5°C" {
				t.Errorf("Unexpected summary %q", p.TemperatureSummary)
			}
			if p.ConfidencePercent != 100 || p.LowConfidence {
				t.Errorf("Expected full confidence, got %d (low=%v)", p.ConfidencePercent, p.LowConfidence)
			}
		})
	}
}

func TestTrainHandler_InsufficientData(t *testing.T) {
	env := newTestEnv(t, hourlySeries(12))
	token := env.token(t)

	expectStatus(t, env.do(t, "POST", "/api/v1/model/train", token, ""), http.StatusOK)

	env.source.observations = hourlySeries(4)
	resp := env.do(t, "POST", "/api/v1/model/train", token, "")
	expectStatus(t, resp, http.StatusUnprocessableEntity)

	var body api.ErrorResponse
	decode(t, resp, &body)
	if body.Count == nil || *body.Count != 4 || body.Minimum == nil || *body.Minimum != forecast.MinSamples {
		t.Errorf("Expected count 4 and minimum %d, got %+v", forecast.MinSamples, body)
	}

	// A failed cycle leaves no model behind
	resp = env.do(t, "GET", "/api/v1/model", "", "")
	expectStatus(t, resp, http.StatusConflict)
	var unavailable api.ErrorResponse
	decode(t, resp, &unavailable)
	if !strings.Contains(unavailable.Details, "insufficient data") {
		t.Errorf("Expected last error in details, got %q", unavailable.Details)
	}
}

func TestTrainHandler_Degenerate(t *testing.T) {
	series := hourlySeries(12)
	for i := range series {
		series[i].Time = series[0].Time
	}
	env := newTestEnv(t, series)

	expectStatus(t, env.do(t, "POST", "/api/v1/model/train", env.token(t), ""), http.StatusUnprocessableEntity)
}

func TestTrainHandler_SourceError(t *testing.T) {
	env := newTestEnv(t, hourlySeries(12))
	token := env.token(t)
	expectStatus(t, env.do(t, "POST", "/api/v1/model/train", token, ""), http.StatusOK)

	env.source.err = errors.New("upstream down")
	expectStatus(t, env.do(t, "POST", "/api/v1/model/train", token, ""), http.StatusBadGateway)

	// The previous model survives a failed fetch
	expectStatus(t, env.do(t, "GET", "/api/v1/model", "", ""), http.StatusOK)
}

func TestPredictHandler_BadParams(t *testing.T) {
	env := newTestEnv(t, hourlySeries(12))
	expectStatus(t, env.do(t, "POST", "/api/v1/model/train", env.token(t), ""), http.StatusOK)

	for _, query := range []string{"hour=24", "hour=-1", "days=31", "days=x", "at=tomorrow"} {
		t.Run(query, func(t *testing.T) {
			expectStatus(t, env.do(t, "GET", "/api/v1/predict?"+query, "", ""), http.StatusBadRequest)
		})
	}
}

func TestPredictHandler_NoLatestReading(t *testing.T) {
	env := newTestEnv(t, hourlySeries(12))
	expectStatus(t, env.do(t, "POST", "/api/v1/model/train", env.token(t), ""), http.StatusOK)

	env.source.err = errors.New("upstream down")

	var p api.PredictionResponse
	decode(t, env.do(t, "GET", "/api/v1/predict?days=1&hour=12", "", ""), &p)
	if p.Temperature.Direction != forecast.DirectionUnknown || p.Temperature.Last != nil {
		t.Errorf("Expected unknown direction without a reading, got %+v", p.Temperature)
	}
	if p.HumiditySummary != "no recent reading to compare against" {
		t.Errorf("Unexpected summary %q", p.HumiditySummary)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t, nil)

	expectStatus(t, env.do(t, "POST", "/api/v1/auth/login", "", `{"username":"admin","password":"nope"}`), http.StatusUnauthorized)
	expectStatus(t, env.do(t, "POST", "/api/v1/auth/login", "", `not json`), http.StatusBadRequest)

	resp := env.do(t, "POST", "/api/v1/auth/login", "", `{"username":"admin","password":"secret"}`)
	expectStatus(t, resp, http.StatusOK)
	var login api.LoginResponse
	decode(t, resp, &login)
	if login.Token == "" || login.Username != "admin" {
		t.Fatalf("Unexpected login response: %+v", login)
	}

	resp = env.do(t, "GET", "/api/v1/auth/me", login.Token, "")
	expectStatus(t, resp, http.StatusOK)
	var me UserInfo
	decode(t, resp, &me)
	if me.Username != "admin" {
		t.Errorf("Expected admin, got %s", me.Username)
	}
}

func TestLogin_NoUserStore(t *testing.T) {
	env := newTestEnv(t, nil)
	env.rm.Users = nil

	expectStatus(t, env.do(t, "POST", "/api/v1/auth/login", "", `{"username":"admin","password":"secret"}`), http.StatusServiceUnavailable)
}

func TestPushHandler(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, "GET", "/update?api_key=write-key&field1=55&field2=36.5", "", "")
	expectStatus(t, resp, http.StatusOK)
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "1" {
		t.Errorf("Expected entry id 1, got %q", body)
	}

	if len(env.store.readings) != 1 {
		t.Fatalf("Expected one stored reading, got %d", len(env.store.readings))
	}
	stored := env.store.readings[0]
	if *stored.Humidity != 55 || *stored.Temperature != 36.5 {
		t.Errorf("Expected field1=humidity and field2=temperature, got %+v", stored)
	}
	if env.notifier.count() != 1 {
		t.Errorf("Expected one danger alert for 36.5°C, got %d", env.notifier.count())
	}

	expectStatus(t, env.do(t, "POST", "/update?api_key=wrong&field1=55", "", ""), http.StatusUnauthorized)
	expectStatus(t, env.do(t, "POST", "/update?api_key=write-key", "", ""), http.StatusBadRequest)
}

func TestPushHandler_NaNField(t *testing.T) {
	env := newTestEnv(t, nil)

	expectStatus(t, env.do(t, "GET", "/update?api_key=write-key&field1=55&field2=nan", "", ""), http.StatusOK)
	if len(env.store.readings) != 1 {
		t.Fatalf("Expected one stored reading, got %d", len(env.store.readings))
	}
	stored := env.store.readings[0]
	if stored.Temperature != nil || stored.Humidity == nil || *stored.Humidity != 55 {
		t.Errorf("Expected nan temperature stored as nil, got %+v", stored)
	}

	expectStatus(t, env.do(t, "GET", "/update?api_key=write-key&field1=nan&field2=nan", "", ""), http.StatusBadRequest)
}

func TestPushHandler_StoreError(t *testing.T) {
	env := newTestEnv(t, nil)
	env.store.err = errors.New("disk full")

	expectStatus(t, env.do(t, "GET", "/update?api_key=write-key&field2=21", "", ""), http.StatusInternalServerError)
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t, nil)

	req, _ := http.NewRequest("OPTIONS", env.server.URL+"/api/v1/model", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Preflight failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Expected allowed origin echoed, got %q", got)
	}

	req, _ = http.NewRequest("GET", env.server.URL+"/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp2.Body.Close()
	if got := resp2.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no CORS header for unknown origin, got %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, hourlySeries(12))

	expectStatus(t, env.do(t, "GET", "/health", "", ""), http.StatusOK)
	expectStatus(t, env.do(t, "POST", "/api/v1/model/train", env.token(t), ""), http.StatusOK)

	resp := env.do(t, "GET", "/metrics", "", "")
	expectStatus(t, resp, http.StatusOK)
	raw, _ := io.ReadAll(resp.Body)
	body := string(raw)

	for _, want := range []string{
		`dhtdash_http_requests_total{route="/health",status="200"} 1`,
		`dhtdash_trainings_total{result="ok"} 1`,
		`dhtdash_model_samples 12`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected metrics to contain %q", want)
		}
	}
}
