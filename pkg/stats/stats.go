package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
)

// Series summarises one variable over a window of observations.
// Pointers are nil when the window holds no value for the variable.
type Series struct {
	Last    *float64 `json:"last"`
	Average *float64 `json:"average"`
	Min     *float64 `json:"min"`
	Max     *float64 `json:"max"`
	StdDev  *float64 `json:"std_dev"`
	Count   int      `json:"count"`
}

// Summary is the stat card data for a window of observations
type Summary struct {
	Temperature Series `json:"temperature"`
	Humidity    Series `json:"humidity"`
	Window      int    `json:"window"`
}

// Summarize computes the summary of observations, which must be ordered
// oldest to newest. Missing values are skipped rather than counted as zero.
func Summarize(observations []models.Observation) Summary {
	temps := make([]float64, 0, len(observations))
	hums := make([]float64, 0, len(observations))
	for _, obs := range observations {
		if v, ok := value(obs.Temperature); ok {
			temps = append(temps, v)
		}
		if v, ok := value(obs.Humidity); ok {
			hums = append(hums, v)
		}
	}

	return Summary{
		Temperature: summarizeSeries(temps),
		Humidity:    summarizeSeries(hums),
		Window:      len(observations),
	}
}

func summarizeSeries(values []float64) Series {
	s := Series{Count: len(values)}
	if len(values) == 0 {
		return s
	}

	mean, std := stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		std = 0
	}
	s.Last = ptr(values[len(values)-1])
	s.Average = ptr(round2(mean))
	s.Min = ptr(floats.Min(values))
	s.Max = ptr(floats.Max(values))
	s.StdDev = ptr(round2(std))
	return s
}
