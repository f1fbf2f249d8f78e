package main

import (
	"context"
	"fmt"
	"time"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/thingspeak"
)

// Source yields formatted observations, oldest first
type Source interface {
	Name() string
	Observations(ctx context.Context, results int) ([]models.Observation, error)
}

// FeedFetcher is the raw ThingSpeak proxy side of the dashboard
type FeedFetcher interface {
	GetFeeds(ctx context.Context, results int) (*thingspeak.FeedsResponse, error)
	GetLast(ctx context.Context) (*thingspeak.Feed, error)
}

type thingSpeakSource struct {
	client FeedFetcher
	loc    *time.Location
}

// NewThingSpeakSource reads observations straight from the channel feed
func NewThingSpeakSource(client FeedFetcher, loc *time.Location) Source {
	return &thingSpeakSource{client: client, loc: loc}
}

func (s *thingSpeakSource) Name() string { return SourceThingSpeak }

func (s *thingSpeakSource) Observations(ctx context.Context, results int) ([]models.Observation, error) {
	resp, err := s.client.GetFeeds(ctx, results)
	if err != nil {
		return nil, err
	}
	return thingspeak.FormatFeeds(resp.Feeds, s.loc), nil
}

// ReadingStore is the database side of the dashboard
type ReadingStore interface {
	GetRecentObservations(ctx context.Context, n int) ([]models.SensorReading, error)
}

type databaseSource struct {
	store ReadingStore
	loc   *time.Location
}

// NewDatabaseSource reads observations stored by the puller and push ingest
func NewDatabaseSource(store ReadingStore, loc *time.Location) Source {
	return &databaseSource{store: store, loc: loc}
}

func (s *databaseSource) Name() string { return SourceDatabase }

func (s *databaseSource) Observations(ctx context.Context, results int) ([]models.Observation, error) {
	readings, err := s.store.GetRecentObservations(ctx, results)
	if err != nil {
		return nil, fmt.Errorf("failed to load observations: %w", err)
	}

	observations := make([]models.Observation, len(readings))
	for i, r := range readings {
		observations[i] = r.Observation(s.loc)
	}
	return observations, nil
}
