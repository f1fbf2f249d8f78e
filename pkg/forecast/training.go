package forecast

import (
	"time"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
)

// MinSamples is the smallest training set Train accepts
const MinSamples = 10

// Sample is one cleaned observation ready for fitting
type Sample struct {
	At          time.Time
	X           float64
	Temperature float64
	Humidity    float64
}

// TrainingSet is the ordered, filtered subset of observations used for fitting.
// Every sample has a parsed instant and both readings present.
type TrainingSet []Sample

// NewTrainingSet parses observation timestamps in loc and keeps only rows with
// a valid timestamp and both readings. Dropped rows are not reported; input
// order is preserved.
func NewTrainingSet(observations []models.Observation, loc *time.Location) TrainingSet {
	set := make(TrainingSet, 0, len(observations))
	for _, obs := range observations {
		if !obs.HasValues() {
			continue
		}
		at, err := obs.ParseTime(loc)
		if err != nil {
			continue
		}
		set = append(set, Sample{
			At:          at,
			X:           Millis(at),
			Temperature: *obs.Temperature,
			Humidity:    *obs.Humidity,
		})
	}
	return set
}

// TemperaturePoints returns the (instant, temperature) pairs
func (s TrainingSet) TemperaturePoints() []Point {
	points := make([]Point, len(s))
	for i, sample := range s {
		points[i] = Point{X: sample.X, Y: sample.Temperature}
	}
	return points
}

// HumidityPoints returns the (instant, humidity) pairs
func (s TrainingSet) HumidityPoints() []Point {
	points := make([]Point, len(s))
	for i, sample := range s {
		points[i] = Point{X: sample.X, Y: sample.Humidity}
	}
	return points
}

// Outcome is the result of one successful training cycle. It is never mutated;
// retraining yields a new Outcome.
type Outcome struct {
	TemperatureModel Model     `json:"temperature_model"`
	HumidityModel    Model     `json:"humidity_model"`
	TemperatureR2    float64   `json:"temperature_r2"`
	HumidityR2       float64   `json:"humidity_r2"`
	TemperatureRMSE  float64   `json:"temperature_rmse"`
	HumidityRMSE     float64   `json:"humidity_rmse"`
	SampleCount      int       `json:"sample_count"`
	FirstSample      time.Time `json:"first_sample"`
	LastSample       time.Time `json:"last_sample"`
}

// Confidence is the mean of both R² values as a percentage
func (o *Outcome) Confidence() float64 {
	return (o.TemperatureR2 + o.HumidityR2) / 2 * 100
}

// LowConfidence reports a confidence under LowQuality
func (o *Outcome) LowConfidence() bool {
	return o.Confidence() < LowQuality*100
}

// Train runs a full training cycle over raw observations.
// It returns an *InsufficientDataError when fewer than MinSamples rows survive
// filtering and ErrDegenerateInput when either line cannot be fitted.
func Train(observations []models.Observation, loc *time.Location) (*Outcome, error) {
	return TrainSet(NewTrainingSet(observations, loc))
}

// TrainSet is Train over an already built training set
func TrainSet(set TrainingSet) (*Outcome, error) {
	if len(set) < MinSamples {
		return nil, &InsufficientDataError{Count: len(set), Minimum: MinSamples}
	}

	tempPoints := set.TemperaturePoints()
	humPoints := set.HumidityPoints()

	tempModel, ok := Fit(tempPoints)
	if !ok {
		return nil, ErrDegenerateInput
	}
	humModel, ok := Fit(humPoints)
	if !ok {
		return nil, ErrDegenerateInput
	}

	return &Outcome{
		TemperatureModel: tempModel,
		HumidityModel:    humModel,
		TemperatureR2:    RSquared(tempPoints, tempModel),
		HumidityR2:       RSquared(humPoints, humModel),
		TemperatureRMSE:  RMSE(tempPoints, tempModel),
		HumidityRMSE:     RMSE(humPoints, humModel),
		SampleCount:      len(set),
		FirstSample:      set[0].At,
		LastSample:       set[len(set)-1].At,
	}, nil
}

// Millis converts an instant to the x coordinate used for fitting
func Millis(t time.Time) float64 {
	return float64(t.UnixMilli())
}
