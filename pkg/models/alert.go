package models

import (
	"fmt"
	"time"
)

// Severity constants used by alerts
const (
	SeverityDanger  = "danger"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Metric names
const (
	MetricTemperature = "temperature"
	MetricHumidity    = "humidity"
)

// Alert is a threshold violation raised for the latest observation
type Alert struct {
	Severity  string    `json:"severity"`
	Metric    string    `json:"metric"`
	Message   string    `json:"message"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
	EntryID   int       `json:"entry_id"`
	RaisedAt  time.Time `json:"raised_at"`
}

// Thresholds holds the static bounds alerts are checked against.
// Values beyond a Critical bound raise danger, beyond a plain bound raise warning.
type Thresholds struct {
	TempHigh         float64 `json:"temp_high"`
	TempLow          float64 `json:"temp_low"`
	TempCriticalHigh float64 `json:"temp_critical_high"`
	TempCriticalLow  float64 `json:"temp_critical_low"`
	HumHigh          float64 `json:"hum_high"`
	HumLow           float64 `json:"hum_low"`
	HumCriticalHigh  float64 `json:"hum_critical_high"`
	HumCriticalLow   float64 `json:"hum_critical_low"`
}

// Validate checks that the bounds are ordered critical-low <= low < high <= critical-high
func (t Thresholds) Validate() error {
	if t.TempLow >= t.TempHigh {
		return fmt.Errorf("temp_low (%.1f) must be below temp_high (%.1f)", t.TempLow, t.TempHigh)
	}
	if t.TempCriticalLow > t.TempLow || t.TempCriticalHigh < t.TempHigh {
		return fmt.Errorf("temperature critical bounds must enclose the warning bounds")
	}
	if t.HumLow >= t.HumHigh {
		return fmt.Errorf("hum_low (%.1f) must be below hum_high (%.1f)", t.HumLow, t.HumHigh)
	}
	if t.HumCriticalLow > t.HumLow || t.HumCriticalHigh < t.HumHigh {
		return fmt.Errorf("humidity critical bounds must enclose the warning bounds")
	}
	if t.HumCriticalLow < 0 || t.HumCriticalHigh > 100 {
		return fmt.Errorf("humidity bounds must stay within 0-100")
	}
	return nil
}
