package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/stats"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/thingspeak"
)

// Data sources the dashboard can read observations from
const (
	SourceThingSpeak = "thingspeak"
	SourceDatabase   = "database"
)

// Config holds the server settings read from the environment.
// Database settings (DB_*) are read by the database package itself.
type Config struct {
	Port           string
	AllowedOrigins []string

	ChannelID         string
	ReadKey           string
	ThingSpeakBaseURL string
	ThingSpeakTimeout time.Duration

	Location   *time.Location
	DataSource string

	RedisAddr string
	RedisDB   int
	CacheTTL  time.Duration

	KafkaBrokers    []string
	KafkaAlertTopic string
	MQTTBroker      string
	MQTTTopic       string

	PullInterval    time.Duration
	RetrainInterval time.Duration
	TrainResults    int

	Thresholds models.Thresholds

	JWTSecret  string
	PushAPIKey string
}

// LoadConfig reads the configuration from environment variables
func LoadConfig() (*Config, error) {
	zone := getEnv("DISPLAY_TIMEZONE", "America/Sao_Paulo")
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", zone, err)
	}

	cfg := &Config{
		Port:              getEnv("SERVER_PORT", "5000"),
		AllowedOrigins:    splitList(getEnv("SERVER_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		ChannelID:         getEnv("THINGSPEAK_CHANNEL_ID", ""),
		ReadKey:           getEnv("THINGSPEAK_READ_KEY", ""),
		ThingSpeakBaseURL: getEnv("THINGSPEAK_BASE_URL", thingspeak.DefaultBaseURL),
		Location:          loc,
		DataSource:        strings.ToLower(getEnv("DATA_SOURCE", SourceThingSpeak)),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		KafkaBrokers:      splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaAlertTopic:   getEnv("KAFKA_ALERT_TOPIC", "dht22.alerts"),
		MQTTBroker:        getEnv("MQTT_BROKER", ""),
		MQTTTopic:         getEnv("MQTT_TOPIC", "dht22/readings"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		PushAPIKey:        getEnv("PUSH_API_KEY", ""),
	}

	if cfg.ThingSpeakTimeout, err = getEnvDuration("THINGSPEAK_TIMEOUT", thingspeak.DefaultTimeout); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getEnvDuration("CACHE_TTL", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.PullInterval, err = getEnvDuration("PULL_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.RetrainInterval, err = getEnvDuration("RETRAIN_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.TrainResults, err = getEnvInt("TRAIN_RESULTS", 100); err != nil {
		return nil, err
	}
	if cfg.TrainResults < 1 || cfg.TrainResults > thingspeak.MaxResults {
		return nil, fmt.Errorf("TRAIN_RESULTS must be between 1 and %d", thingspeak.MaxResults)
	}

	switch cfg.DataSource {
	case SourceThingSpeak:
		if cfg.ChannelID == "" {
			return nil, fmt.Errorf("THINGSPEAK_CHANNEL_ID is required when DATA_SOURCE=%s", SourceThingSpeak)
		}
	case SourceDatabase:
	default:
		return nil, fmt.Errorf("invalid DATA_SOURCE %q (valid: %s, %s)", cfg.DataSource, SourceThingSpeak, SourceDatabase)
	}

	if cfg.Thresholds, err = loadThresholds(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadThresholds overrides the default alert bounds with ALERT_* variables
func loadThresholds() (models.Thresholds, error) {
	th := stats.DefaultThresholds()
	fields := []struct {
		key string
		dst *float64
	}{
		{"ALERT_TEMP_HIGH", &th.TempHigh},
		{"ALERT_TEMP_LOW", &th.TempLow},
		{"ALERT_TEMP_CRITICAL_HIGH", &th.TempCriticalHigh},
		{"ALERT_TEMP_CRITICAL_LOW", &th.TempCriticalLow},
		{"ALERT_HUM_HIGH", &th.HumHigh},
		{"ALERT_HUM_LOW", &th.HumLow},
		{"ALERT_HUM_CRITICAL_HIGH", &th.HumCriticalHigh},
		{"ALERT_HUM_CRITICAL_LOW", &th.HumCriticalLow},
	}

	for _, f := range fields {
		raw := getEnv(f.key, "")
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return th, fmt.Errorf("invalid %s %q: %w", f.key, raw, err)
		}
		*f.dst = v
	}

	if err := th.Validate(); err != nil {
		return th, fmt.Errorf("invalid alert thresholds: %w", err)
	}
	return th, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

// getEnvDuration accepts Go durations ("30s") or plain seconds ("30")
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
