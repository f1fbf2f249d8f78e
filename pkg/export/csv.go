package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
)

// FileName is the download name the dashboard offers
const FileName = "lecturas.csv"

// Header is the CSV column row
var Header = []string{"time", "temp", "hum", "entry_id"}

// WriteCSV writes observations as CSV with a header row.
// Missing values are written as empty cells.
func WriteCSV(w io.Writer, observations []models.Observation) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, obs := range observations {
		record := []string{
			obs.Time,
			formatValue(obs.Temperature),
			formatValue(obs.Humidity),
			strconv.Itoa(obs.EntryID),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write entry %d: %w", obs.EntryID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
