package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/stats"
)

// GetModel returns the state of the current model
func (c *Client) GetModel(ctx context.Context) (*ModelStatus, error) {
	var status ModelStatus
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/model", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Train asks the server to retrain on its newest results observations
func (c *Client) Train(ctx context.Context, results int) (*ModelStatus, error) {
	path := "/api/v1/model/train"
	if results > 0 {
		path += "?results=" + strconv.Itoa(results)
	}

	var status ModelStatus
	if err := c.doRequest(ctx, http.MethodPost, path, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Predict requests a forecast daysAhead days from today at hour:00 server time
func (c *Client) Predict(ctx context.Context, daysAhead, hour int) (*PredictionResponse, error) {
	params := url.Values{}
	params.Set("days", strconv.Itoa(daysAhead))
	params.Set("hour", strconv.Itoa(hour))
	return c.predict(ctx, params)
}

// PredictAt requests a forecast for an exact instant
func (c *Client) PredictAt(ctx context.Context, at time.Time) (*PredictionResponse, error) {
	params := url.Values{}
	params.Set("at", at.Format(time.RFC3339))
	return c.predict(ctx, params)
}

func (c *Client) predict(ctx context.Context, params url.Values) (*PredictionResponse, error) {
	var prediction PredictionResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/predict?"+params.Encode(), nil, &prediction); err != nil {
		return nil, err
	}
	return &prediction, nil
}

// GetObservations returns the newest results observations, oldest first
func (c *Client) GetObservations(ctx context.Context, results int) (*ObservationsResponse, error) {
	var resp ObservationsResponse
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/v1/observations?results=%d", results), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetStats returns the stat card summary over the newest results observations
func (c *Client) GetStats(ctx context.Context, results int) (*stats.Summary, error) {
	var summary stats.Summary
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/v1/stats?results=%d", results), nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetAlerts returns the alerts raised by the latest observation
func (c *Client) GetAlerts(ctx context.Context) (*AlertsResponse, error) {
	var resp AlertsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/alerts", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
