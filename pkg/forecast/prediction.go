package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
)

// Direction is the qualitative movement of a predicted value against the last reading
type Direction string

const (
	DirectionNegligible Direction = "negligible"
	DirectionIncrease   Direction = "increase"
	DirectionDecrease   Direction = "decrease"
	DirectionUnknown    Direction = "unknown"
)

// Deltas below these magnitudes are reported as negligible
const (
	TemperatureDeltaThreshold = 0.5
	HumidityDeltaThreshold    = 2.0
)

// LowQuality is the R² (and confidence fraction) under which a fit is flagged as weak
const LowQuality = 0.3

// Trend is the prediction for one variable
type Trend struct {
	Predicted float64   `json:"predicted"`
	Last      *float64  `json:"last"`
	Delta     *float64  `json:"delta"`
	Direction Direction `json:"direction"`
	Unit      string    `json:"unit"`
}

// Summary describes the trend in one short sentence
func (t Trend) Summary() string {
	switch {
	case t.Direction == DirectionNegligible:
		return "will stay about the same"
	case t.Delta == nil:
		return "no recent reading to compare against"
	case t.Direction == DirectionIncrease:
		return fmt.Sprintf("will rise about %.1f%s", *t.Delta, t.Unit)
	case t.Direction == DirectionDecrease:
		return fmt.Sprintf("will fall about %.1f%s", math.Abs(*t.Delta), t.Unit)
	default:
		return "no recent reading to compare against"
	}
}

// Prediction is a point forecast for both variables at one instant.
//
// Confidence is the mean of the two training R² values times 100. It is a
// heuristic for how well straight lines explained the history, not a
// statistical confidence interval.
type Prediction struct {
	Target            time.Time `json:"target"`
	Temperature       Trend     `json:"temperature"`
	Humidity          Trend     `json:"humidity"`
	Confidence        float64   `json:"confidence"`
	ConfidencePercent int       `json:"confidence_percent"`
	LowConfidence     bool      `json:"low_confidence"`
}

// PredictAt evaluates both models of outcome at target and compares the
// result with last, the most recent observation.
// It returns ErrModelUnavailable when outcome is nil.
func PredictAt(outcome *Outcome, target time.Time, last models.Observation) (*Prediction, error) {
	if outcome == nil {
		return nil, ErrModelUnavailable
	}

	x := Millis(target)
	confidence := outcome.Confidence()

	return &Prediction{
		Target:            target,
		Temperature:       newTrend(outcome.TemperatureModel.Predict(x), last.Temperature, TemperatureDeltaThreshold, "°C"),
		Humidity:          newTrend(outcome.HumidityModel.Predict(x), last.Humidity, HumidityDeltaThreshold, "%"),
		Confidence:        confidence,
		ConfidencePercent: int(math.Round(confidence)),
		LowConfidence:     outcome.LowConfidence(),
	}, nil
}

// Classify maps a delta to a direction given the negligible band
func Classify(delta, threshold float64) Direction {
	switch {
	case math.Abs(delta) < threshold:
		return DirectionNegligible
	case delta > 0:
		return DirectionIncrease
	default:
		return DirectionDecrease
	}
}

// TargetInstant is daysAhead days after now's local date, at hour:00 in loc
func TargetInstant(now time.Time, daysAhead, hour int, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day()+daysAhead, hour, 0, 0, 0, loc)
}

func newTrend(predicted float64, last *float64, threshold float64, unit string) Trend {
	trend := Trend{Predicted: predicted, Direction: DirectionUnknown, Unit: unit}
	if last == nil || math.IsNaN(*last) {
		return trend
	}

	lastValue := *last
	delta := predicted - lastValue
	trend.Last = &lastValue
	trend.Delta = &delta
	trend.Direction = Classify(delta, threshold)
	return trend
}
