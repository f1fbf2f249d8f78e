package thingspeak

import (
	"context"
	"fmt"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
)

// ProviderType identifies the ThingSpeak puller
const ProviderType = "thingspeak"

// Puller fetches the newest channel entries for storage
type Puller struct {
	client  *Client
	results int
}

// NewPuller pulls the newest results entries on every call
func NewPuller(client *Client, results int) *Puller {
	return &Puller{client: client, results: results}
}

func (p *Puller) GetProviderType() string {
	return ProviderType
}

func (p *Puller) Pull(ctx context.Context) ([]models.SensorReading, error) {
	resp, err := p.client.GetFeeds(ctx, p.results)
	if err != nil {
		return nil, fmt.Errorf("failed to pull channel %s: %w", p.client.ChannelID(), err)
	}
	return Readings(resp.Feeds), nil
}
