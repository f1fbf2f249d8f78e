package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/api"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/forecast"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
)

const (
	defaultPredictDays = 1
	defaultPredictHour = 12
	maxPredictDays     = 30
)

// modelHandler reports the statistics of the current model
func (rm *RouteManager) modelHandler(w http.ResponseWriter, r *http.Request) {
	status := rm.Models.Status()
	if !status.Available {
		writeError(w, http.StatusConflict, forecast.ErrModelUnavailable.Error(), status.LastError)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// trainHandler runs a training cycle on demand
func (rm *RouteManager) trainHandler(w http.ResponseWriter, r *http.Request) {
	results, err := parseResults(r, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	if _, err := rm.Trainer.Train(r.Context(), results); err != nil {
		var insufficient *forecast.InsufficientDataError
		switch {
		case errors.As(err, &insufficient):
			writeJSON(w, http.StatusUnprocessableEntity, api.ErrorResponse{
				Error:   err.Error(),
				Count:   &insufficient.Count,
				Minimum: &insufficient.Minimum,
			})
		case errors.Is(err, forecast.ErrDegenerateInput):
			writeError(w, http.StatusUnprocessableEntity, err.Error(), "")
		default:
			log.Printf("❌ Training failed: %v", err)
			writeError(w, http.StatusBadGateway, "training failed", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, rm.Models.Status())
}

// predictHandler forecasts both variables at ?at=RFC3339 or at
// ?days=D&hour=H in the display zone
func (rm *RouteManager) predictHandler(w http.ResponseWriter, r *http.Request) {
	target, err := rm.parseTarget(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	outcome := rm.Models.Outcome()
	if outcome == nil {
		writeError(w, http.StatusConflict, forecast.ErrModelUnavailable.Error(), rm.Models.Status().LastError)
		return
	}

	var last models.Observation
	if observations, err := rm.Source.Observations(r.Context(), 1); err != nil {
		log.Printf("⚠ No latest observation to compare prediction against: %v", err)
	} else if len(observations) > 0 {
		last = observations[len(observations)-1]
	}

	prediction, err := forecast.PredictAt(outcome, target, last)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error(), "")
		return
	}

	writeJSON(w, http.StatusOK, api.PredictionResponse{
		Prediction:         *prediction,
		TemperatureSummary: prediction.Temperature.Summary(),
		HumiditySummary:    prediction.Humidity.Summary(),
	})
}

func (rm *RouteManager) parseTarget(r *http.Request) (time.Time, error) {
	q := r.URL.Query()

	if at := q.Get("at"); at != "" {
		target, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return time.Time{}, fmt.Errorf("at must be an RFC3339 timestamp")
		}
		return target, nil
	}

	days, err := intParam(q.Get("days"), defaultPredictDays, 0, maxPredictDays, "days")
	if err != nil {
		return time.Time{}, err
	}
	hour, err := intParam(q.Get("hour"), defaultPredictHour, 0, 23, "hour")
	if err != nil {
		return time.Time{}, err
	}

	return forecast.TargetInstant(rm.now(), days, hour, rm.Config.Location), nil
}

func intParam(raw string, def, lo, hi int, name string) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, fmt.Errorf("%s must be an integer between %d and %d", name, lo, hi)
	}
	return v, nil
}
