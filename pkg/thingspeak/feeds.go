package thingspeak

import (
	"sort"
	"time"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
)

// Channel is the channel header returned with every feeds request
type Channel struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Latitude    string    `json:"latitude,omitempty"`
	Longitude   string    `json:"longitude,omitempty"`
	Field1      string    `json:"field1,omitempty"`
	Field2      string    `json:"field2,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	LastEntryID int       `json:"last_entry_id"`
}

// Feed is one channel entry. The DHT22 firmware writes humidity to field1
// and temperature to field2; either may be null or empty.
type Feed struct {
	CreatedAt time.Time `json:"created_at"`
	EntryID   int       `json:"entry_id"`
	Field1    *string   `json:"field1"`
	Field2    *string   `json:"field2"`
}

// FeedsResponse is the body of GET /channels/{id}/feeds.json
type FeedsResponse struct {
	Channel Channel `json:"channel"`
	Feeds   []Feed  `json:"feeds"`
}

// Humidity returns field1 as a number, nil when empty or not numeric
func (f Feed) Humidity() *float64 {
	return parseField(f.Field1)
}

// Temperature returns field2 as a number, nil when empty or not numeric
func (f Feed) Temperature() *float64 {
	return parseField(f.Field2)
}

// Reading converts the feed into a storable reading
func (f Feed) Reading() models.SensorReading {
	return models.SensorReading{
		EntryID:     f.EntryID,
		Temperature: f.Temperature(),
		Humidity:    f.Humidity(),
		DateUTC:     f.CreatedAt.UTC(),
	}
}

// Observation renders the feed with its timestamp in loc
func (f Feed) Observation(loc *time.Location) models.Observation {
	return f.Reading().Observation(loc)
}

// FormatFeeds converts feeds into observations ordered oldest to newest,
// so the last element is the most recent reading.
func FormatFeeds(feeds []Feed, loc *time.Location) []models.Observation {
	sorted := make([]Feed, len(feeds))
	copy(sorted, feeds)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	observations := make([]models.Observation, len(sorted))
	for i, f := range sorted {
		observations[i] = f.Observation(loc)
	}
	return observations
}

// Readings converts feeds into storable readings
func Readings(feeds []Feed) []models.SensorReading {
	readings := make([]models.SensorReading, len(feeds))
	for i, f := range feeds {
		readings[i] = f.Reading()
	}
	return readings
}

func parseField(field *string) *float64 {
	if field == nil {
		return nil
	}
	return models.ParseValue(*field)
}
