package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
)

func TestWriteCSV(t *testing.T) {
	observations := []models.Observation{
		{Time: "10-03-2025 08:00:00", Temperature: models.Float(21.5), Humidity: models.Float(48), EntryID: 1},
		{Time: "10-03-2025 08:00:30", Temperature: nil, Humidity: models.Float(48.25), EntryID: 2},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, observations); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	expected := "time,temp,hum,entry_id\n" +
		"10-03-2025 08:00:00,21.5,48,1\n" +
		"10-03-2025 08:00:30,,48.25,2\n"
	if buf.String() != expected {
		t.Errorf("Unexpected CSV output:\n%s\nwant:\n%s", buf.String(), expected)
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if buf.String() != "time,temp,hum,entry_id\n" {
		t.Errorf("Expected header only, got %q", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCSV_WriterError(t *testing.T) {
	err := WriteCSV(failingWriter{}, []models.Observation{{Time: "x", EntryID: 1}})
	if err == nil {
		t.Fatal("Expected error from failing writer")
	}
}
