package dht

import (
	"crypto/subtle"
	"net/url"
	"time"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/pusher"
)

// Pusher accepts the ThingSpeak-style update the ESP8266 firmware sends:
// /update?api_key=KEY&field1=<humidity>&field2=<temperature>
type Pusher struct {
	apiKey string
	now    func() time.Time
}

// NewPusher creates a pusher that requires apiKey on every update.
// An empty key disables the check.
func NewPusher(apiKey string) *Pusher {
	return &Pusher{apiKey: apiKey, now: time.Now}
}

// GetEndpoint returns the endpoint path for the firmware
func (p *Pusher) GetEndpoint() string {
	return "/update"
}

// GetDeviceType returns the device type identifier
func (p *Pusher) GetDeviceType() string {
	return "esp8266-dht22"
}

// Parse validates the write key and reads field1/field2. created_at
// (RFC3339) is optional and defaults to the time of the request.
func (p *Pusher) Parse(params url.Values) (*models.SensorReading, error) {
	if p.apiKey != "" && subtle.ConstantTimeCompare([]byte(params.Get("api_key")), []byte(p.apiKey)) != 1 {
		return nil, pusher.ErrUnauthorized
	}

	reading := &models.SensorReading{
		Humidity:    models.ParseValue(params.Get("field1")),
		Temperature: models.ParseValue(params.Get("field2")),
		DateUTC:     p.now().UTC(),
	}
	if reading.Humidity == nil && reading.Temperature == nil {
		return nil, pusher.ErrNoReadings
	}

	if s := params.Get("created_at"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			reading.DateUTC = t.UTC()
		}
	}

	return reading, nil
}
