package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/pusher"
)

// Message is the JSON payload the firmware publishes. Values may be
// numbers, null or strings such as "23.4" or "nan".
type Message struct {
	Temperature json.RawMessage `json:"temperature"`
	Humidity    json.RawMessage `json:"humidity"`
	EntryID     int             `json:"entry_id,omitempty"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
}

// Handler receives every decoded reading
type Handler func(ctx context.Context, reading models.SensorReading) error

// Subscriber consumes readings published to an MQTT topic
type Subscriber struct {
	client  paho.Client
	topic   string
	qos     byte
	handler Handler
	timeout time.Duration

	stopOnce sync.Once
}

// NewClient connects to broker with the given client id
func NewClient(broker, clientID string) (paho.Client, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", broker, token.Error())
	}
	return client, nil
}

// NewSubscriber creates a subscriber that passes readings on topic to handler
func NewSubscriber(client paho.Client, topic string, handler Handler) *Subscriber {
	return &Subscriber{
		client:  client,
		topic:   topic,
		qos:     1,
		handler: handler,
		timeout: 10 * time.Second,
	}
}

// Start subscribes to the topic
func (s *Subscriber) Start() error {
	token := s.client.Subscribe(s.topic, s.qos, s.onMessage)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.topic, token.Error())
	}
	log.Printf("✓ Subscribed to MQTT topic %s", s.topic)
	return nil
}

// Stop unsubscribes and disconnects. Calls after the first are no-ops.
func (s *Subscriber) Stop() {
	s.stopOnce.Do(func() {
		if token := s.client.Unsubscribe(s.topic); token.Wait() && token.Error() != nil {
			log.Printf("⚠ Failed to unsubscribe from %s: %v", s.topic, token.Error())
		}
		s.client.Disconnect(250)
		log.Println("✓ MQTT subscriber stopped")
	})
}

func (s *Subscriber) onMessage(_ paho.Client, msg paho.Message) {
	reading, err := DecodeMessage(msg.Payload(), time.Now())
	if err != nil {
		log.Printf("❌ Dropping MQTT message on %s: %v", msg.Topic(), err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.handler(ctx, *reading); err != nil {
		log.Printf("❌ Failed to handle MQTT reading: %v", err)
	}
}

// DecodeMessage parses a payload into a reading stamped with now unless
// the payload carries created_at
func DecodeMessage(payload []byte, now time.Time) (*models.SensorReading, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}
	reading := &models.SensorReading{
		EntryID:     msg.EntryID,
		Temperature: decodeValue(msg.Temperature),
		Humidity:    decodeValue(msg.Humidity),
		DateUTC:     now.UTC(),
	}
	if reading.Temperature == nil && reading.Humidity == nil {
		return nil, pusher.ErrNoReadings
	}
	if msg.CreatedAt != nil && !msg.CreatedAt.IsZero() {
		reading.DateUTC = msg.CreatedAt.UTC()
	}
	return reading, nil
}

// decodeValue turns a raw JSON value into a finite float, nil otherwise
func decodeValue(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return models.ParseValue(text)
	}
	return models.ParseValue(string(raw))
}

// IsNoReadings reports whether err means the payload held no values
func IsNoReadings(err error) bool {
	return errors.Is(err, pusher.ErrNoReadings)
}
