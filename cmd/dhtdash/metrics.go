package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes server counters on /metrics. A nil *Metrics records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	ingestedTotal     *prometheus.CounterVec
	alertsTotal       *prometheus.CounterVec
	trainingsTotal    *prometheus.CounterVec
	modelR2           *prometheus.GaugeVec
	modelSamples      prometheus.Gauge
	modelTrainedAt    prometheus.Gauge
}

// NewMetrics creates the dashboard collectors on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dhtdash_http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dhtdash_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		ingestedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dhtdash_readings_ingested_total",
			Help: "Readings stored per ingest path.",
		}, []string{"source"}),
		alertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dhtdash_alerts_total",
			Help: "Alerts raised by metric and severity.",
		}, []string{"metric", "severity"}),
		trainingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dhtdash_trainings_total",
			Help: "Training cycles by result.",
		}, []string{"result"}),
		modelR2: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dhtdash_model_r_squared",
			Help: "R² of the current model per variable, 0 when no model is available.",
		}, []string{"variable"}),
		modelSamples: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dhtdash_model_samples",
			Help: "Observations used by the current model.",
		}),
		modelTrainedAt: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dhtdash_model_trained_timestamp_seconds",
			Help: "Unix time the current model was trained.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.httpRequestsTotal,
		m.httpDuration,
		m.ingestedTotal,
		m.alertsTotal,
		m.trainingsTotal,
		m.modelR2,
		m.modelSamples,
		m.modelTrainedAt,
	)

	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler records request count and duration under route
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		if m != nil {
			m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
			m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}
	})
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Ingested(source string, n int) {
	if m == nil {
		return
	}
	m.ingestedTotal.WithLabelValues(source).Add(float64(n))
}

func (m *Metrics) Alerts(alerts []models.Alert) {
	if m == nil {
		return
	}
	for _, a := range alerts {
		m.alertsTotal.WithLabelValues(a.Metric, a.Severity).Inc()
	}
}

func (m *Metrics) Training(result string) {
	if m == nil {
		return
	}
	m.trainingsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ModelTrained(snapshot *ModelSnapshot) {
	if m == nil {
		return
	}
	m.modelR2.WithLabelValues(models.MetricTemperature).Set(snapshot.Outcome.TemperatureR2)
	m.modelR2.WithLabelValues(models.MetricHumidity).Set(snapshot.Outcome.HumidityR2)
	m.modelSamples.Set(float64(snapshot.Outcome.SampleCount))
	m.modelTrainedAt.Set(float64(snapshot.TrainedAt.Unix()))
}

func (m *Metrics) ModelCleared() {
	if m == nil {
		return
	}
	m.modelR2.WithLabelValues(models.MetricTemperature).Set(0)
	m.modelR2.WithLabelValues(models.MetricHumidity).Set(0)
	m.modelSamples.Set(0)
}
