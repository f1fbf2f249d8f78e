package stats

import (
	"fmt"
	"time"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
)

// DefaultThresholds are the comfort ranges the dashboard charts shade
func DefaultThresholds() models.Thresholds {
	return models.Thresholds{
		TempLow:          15,
		TempHigh:         30,
		TempCriticalLow:  10,
		TempCriticalHigh: 35,
		HumLow:           30,
		HumHigh:          70,
		HumCriticalLow:   20,
		HumCriticalHigh:  85,
	}
}

type bounds struct {
	metric    string
	unit      string
	low, high float64
	critLow   float64
	critHigh  float64
}

// Evaluate checks obs against th and returns one alert per violated metric.
// A missing reading raises an info alert; in-range readings raise nothing.
func Evaluate(obs models.Observation, th models.Thresholds, now time.Time) []models.Alert {
	var alerts []models.Alert

	checks := []struct {
		value *float64
		b     bounds
	}{
		{obs.Temperature, bounds{models.MetricTemperature, "°C", th.TempLow, th.TempHigh, th.TempCriticalLow, th.TempCriticalHigh}},
		{obs.Humidity, bounds{models.MetricHumidity, "%", th.HumLow, th.HumHigh, th.HumCriticalLow, th.HumCriticalHigh}},
	}

	for _, c := range checks {
		if alert, ok := check(c.value, c.b); ok {
			alert.EntryID = obs.EntryID
			alert.RaisedAt = now
			alerts = append(alerts, alert)
		}
	}

	return alerts
}

func check(v *float64, b bounds) (models.Alert, bool) {
	value, ok := value(v)
	if !ok {
		return models.Alert{
			Severity: models.SeverityInfo,
			Metric:   b.metric,
			Message:  fmt.Sprintf("no %s reading in the latest sample", b.metric),
		}, true
	}

	alert := models.Alert{Metric: b.metric, Value: value}
	switch {
	case value > b.critHigh:
		alert.Severity, alert.Threshold = models.SeverityDanger, b.critHigh
		alert.Message = fmt.Sprintf("%s critically high: %.1f%s (limit %.1f%s)", b.metric, value, b.unit, b.critHigh, b.unit)
	case value < b.critLow:
		alert.Severity, alert.Threshold = models.SeverityDanger, b.critLow
		alert.Message = fmt.Sprintf("%s critically low: %.1f%s (limit %.1f%s)", b.metric, value, b.unit, b.critLow, b.unit)
	case value > b.high:
		alert.Severity, alert.Threshold = models.SeverityWarning, b.high
		alert.Message = fmt.Sprintf("%s above range: %.1f%s (max %.1f%s)", b.metric, value, b.unit, b.high, b.unit)
	case value < b.low:
		alert.Severity, alert.Threshold = models.SeverityWarning, b.low
		alert.Message = fmt.Sprintf("%s below range: %.1f%s (min %.1f%s)", b.metric, value, b.unit, b.low, b.unit)
	default:
		return models.Alert{}, false
	}
	return alert, true
}
