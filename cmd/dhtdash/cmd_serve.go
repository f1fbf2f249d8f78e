package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/database"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/notify"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/puller"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/pusher"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/pusher/dht"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/pusher/mqtt"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/thingspeak"
)

// pullResults is how many feed entries each pull fetches
const pullResults = 20

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	Long:  `Start the dashboard server: HTTP API, ThingSpeak puller, push ingest and periodic model retraining.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	if cfg.JWTSecret == "" || cfg.JWTSecret == "change_me_in_production" {
		return errors.New("JWT_SECRET environment variable is not set or has an invalid value")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	metrics := NewMetrics()

	notifier := newNotifier(cfg)
	defer notifier.Close()

	alerts := NewAlertMonitor(cfg.Thresholds, notifier, metrics)
	modelStore := NewModelStore()
	trainer := NewTrainer(a.source, modelStore, cfg.Location, cfg.TrainResults, metrics)

	var store ObservationStore
	var pullStore puller.Store
	if a.db != nil {
		store = a.db
		pullStore = a.db
	}
	ingestor := NewIngestor(store, alerts, metrics, cfg.Location)

	// Push ingest needs somewhere to put the readings
	pushers := pusher.NewRegistry()
	if a.db != nil {
		if err := pushers.Register(dht.NewPusher(cfg.PushAPIKey)); err != nil {
			return err
		}
	}

	pullerRegistry := puller.NewPullerRegistry()
	if a.feeds != nil {
		pullerRegistry.Register(thingspeak.NewPuller(a.feeds, pullResults))
	}
	pullerService := puller.NewPullerService(pullStore, pullerRegistry, cfg.PullInterval)
	pullerService.OnPull(ingestor.AfterPull)
	pullerService.Start()
	defer pullerService.Stop()

	go trainer.Run(ctx, cfg.RetrainInterval)

	var subscriber *mqtt.Subscriber
	if cfg.MQTTBroker != "" && a.db != nil {
		subscriber, err = startSubscriber(cfg, ingestor)
		if err != nil {
			return err
		}
		defer subscriber.Stop()
	}

	deps := RouteDeps{
		Config:   cfg,
		Source:   a.source,
		Feeds:    a.feedFetcher(),
		Ingestor: ingestor,
		Pushers:  pushers,
		Trainer:  trainer,
		Models:   modelStore,
		Alerts:   alerts,
		Metrics:  metrics,
	}
	if a.db != nil {
		deps.Users = a.db
		deps.History = a.db
		deps.Health = func() string { return describeHealth(a.db.Health()) }
	}

	routeManager := NewRouteManager(deps)
	routeManager.Setup()

	addr := ":" + cfg.Port
	server := &http.Server{
		Handler:      routeManager.Handler(),
		Addr:         addr,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Shutdown signal received")

		cancel()
		pullerService.Stop()
		if subscriber != nil {
			subscriber.Stop()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting dhtdash server on %s (source: %s)...", addr, a.source.Name())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// newNotifier publishes alerts to Kafka when brokers are configured and
// logs them otherwise. Only severity changes are forwarded.
func newNotifier(cfg *Config) notify.Notifier {
	if len(cfg.KafkaBrokers) > 0 {
		log.Printf("✓ Publishing alerts to Kafka topic %s", cfg.KafkaAlertTopic)
		return notify.NewChangeFilter(notify.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaAlertTopic))
	}
	return notify.NewChangeFilter(notify.LogNotifier{})
}

func startSubscriber(cfg *Config, ingestor *Ingestor) (*mqtt.Subscriber, error) {
	hostname, _ := os.Hostname()
	client, err := mqtt.NewClient(cfg.MQTTBroker, "dhtdash-"+hostname)
	if err != nil {
		return nil, err
	}

	subscriber := mqtt.NewSubscriber(client, cfg.MQTTTopic, func(ctx context.Context, reading models.SensorReading) error {
		_, err := ingestor.Ingest(ctx, "mqtt", reading)
		return err
	})
	if err := subscriber.Start(); err != nil {
		client.Disconnect(250)
		return nil, err
	}
	return subscriber, nil
}

// describeHealth renders the database status for /health
func describeHealth(h database.HealthStatus) string {
	switch {
	case h.Healthy:
		return "ok"
	case h.LastError != "":
		return "unhealthy: " + h.LastError
	default:
		return "unhealthy"
	}
}
