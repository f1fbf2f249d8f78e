package main

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/database"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/thingspeak"
)

// app holds the collaborators shared by the commands
type app struct {
	cfg    *Config
	db     *database.DatabaseManager
	redis  *redis.Client
	feeds  *thingspeak.Client
	source Source
}

// newApp connects what cfg asks for. The database is opened for
// DATA_SOURCE=database or whenever DATABASE_URL or DB_HOST is set.
func newApp(ctx context.Context, cfg *Config) (*app, error) {
	a := &app{cfg: cfg}

	if cfg.DataSource == SourceDatabase || getEnv("DATABASE_URL", "") != "" || getEnv("DB_HOST", "") != "" {
		db, err := openDatabase()
		if err != nil {
			return nil, err
		}
		a.db = db
	}

	if cfg.ChannelID != "" {
		opts := []thingspeak.ClientOption{
			thingspeak.WithBaseURL(cfg.ThingSpeakBaseURL),
			thingspeak.WithTimeout(cfg.ThingSpeakTimeout),
		}

		if cfg.RedisAddr != "" {
			client, err := thingspeak.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisDB)
			if err != nil {
				log.Printf("⚠ Redis unavailable, ThingSpeak responses will not be cached: %v", err)
			} else {
				a.redis = client
				opts = append(opts, thingspeak.WithCache(thingspeak.NewRedisCache(client), cfg.CacheTTL))
				log.Printf("✓ Caching ThingSpeak responses in Redis at %s for %s", cfg.RedisAddr, cfg.CacheTTL)
			}
		}

		a.feeds = thingspeak.NewClient(cfg.ChannelID, cfg.ReadKey, opts...)
	}

	switch cfg.DataSource {
	case SourceDatabase:
		a.source = NewDatabaseSource(a.db, cfg.Location)
	default:
		a.source = NewThingSpeakSource(a.feeds, cfg.Location)
	}

	return a, nil
}

// feedFetcher returns the ThingSpeak client as an interface, nil when unset
func (a *app) feedFetcher() FeedFetcher {
	if a.feeds == nil {
		return nil
	}
	return a.feeds
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Printf("⚠ Failed to close Redis client: %v", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Printf("⚠ Failed to close database: %v", err)
		}
	}
}

// openDatabase connects to Postgres and runs the migrations
func openDatabase() (*database.DatabaseManager, error) {
	dbManager, err := database.NewDatabaseManager()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := dbManager.Init(); err != nil {
		dbManager.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return dbManager, nil
}
