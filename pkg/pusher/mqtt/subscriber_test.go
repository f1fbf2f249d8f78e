package mqtt

import (
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// countingClient records teardown calls; other paho.Client methods are unused
type countingClient struct {
	paho.Client
	unsubscribes int
	disconnects  int
}

func (c *countingClient) Unsubscribe(topics ...string) paho.Token {
	c.unsubscribes++
	return &paho.DummyToken{}
}

func (c *countingClient) Disconnect(quiesce uint) {
	c.disconnects++
}

func TestDecodeMessage(t *testing.T) {
	now := time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)

	reading, err := DecodeMessage([]byte(`{"temperature": 22.4, "humidity": 51}`), now)
	if err != nil {
		t.Fatalf("DecodeMessage failed: %v", err)
	}
	if reading.Temperature == nil || *reading.Temperature != 22.4 {
		t.Errorf("Expected temperature 22.4, got %v", reading.Temperature)
	}
	if reading.Humidity == nil || *reading.Humidity != 51 {
		t.Errorf("Expected humidity 51, got %v", reading.Humidity)
	}
	if !reading.DateUTC.Equal(now) || reading.EntryID != 0 {
		t.Errorf("Expected receive time and no entry id, got %s / %d", reading.DateUTC, reading.EntryID)
	}
}

func TestDecodeMessage_WithMetadata(t *testing.T) {
	reading, err := DecodeMessage([]byte(`{"temperature": null, "humidity": 40, "entry_id": 17, "created_at": "2025-03-10T08:00:00-03:00"}`), time.Now())
	if err != nil {
		t.Fatalf("DecodeMessage failed: %v", err)
	}
	if reading.Temperature != nil {
		t.Error("Expected null temperature to stay nil")
	}
	if reading.EntryID != 17 {
		t.Errorf("Expected entry id 17, got %d", reading.EntryID)
	}
	if !reading.DateUTC.Equal(time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected created_at to be used, got %s", reading.DateUTC)
	}
}

func TestDecodeMessage_Invalid(t *testing.T) {
	if _, err := DecodeMessage([]byte(`not json`), time.Now()); err == nil {
		t.Error("Expected error for invalid JSON")
	}

	_, err := DecodeMessage([]byte(`{"pressure": 1013}`), time.Now())
	if !IsNoReadings(err) {
		t.Errorf("Expected no-readings error, got %v", err)
	}
}

func TestDecodeMessage_StringValues(t *testing.T) {
	reading, err := DecodeMessage([]byte(`{"temperature": "nan", "humidity": 51}`), time.Now())
	if err != nil {
		t.Fatalf("DecodeMessage failed: %v", err)
	}
	if reading.Temperature != nil {
		t.Errorf("Expected nan temperature to be nil, got %v", *reading.Temperature)
	}
	if reading.Humidity == nil || *reading.Humidity != 51 {
		t.Errorf("Expected humidity 51, got %v", reading.Humidity)
	}

	reading, err = DecodeMessage([]byte(`{"temperature": "22.5"}`), time.Now())
	if err != nil {
		t.Fatalf("DecodeMessage failed: %v", err)
	}
	if reading.Temperature == nil || *reading.Temperature != 22.5 {
		t.Errorf("Expected quoted temperature 22.5, got %v", reading.Temperature)
	}

	_, err = DecodeMessage([]byte(`{"temperature": "nan", "humidity": null}`), time.Now())
	if !IsNoReadings(err) {
		t.Errorf("Expected no-readings error, got %v", err)
	}
}

func TestSubscriber_StopTwice(t *testing.T) {
	client := &countingClient{}
	s := NewSubscriber(client, "dht22/readings", nil)

	s.Stop()
	s.Stop()

	if client.unsubscribes != 1 || client.disconnects != 1 {
		t.Errorf("Expected one unsubscribe and one disconnect, got %d and %d", client.unsubscribes, client.disconnects)
	}
}
