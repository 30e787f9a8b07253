// Package openmeteo fetches historical daily maximum temperatures from the
// Open-Meteo archive API.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
	"github.com/couchcryptid/climate-risk-engine/internal/observability"
)

// Fixed two-year lookback window for temperature trends. The window is part
// of the scoring contract: heat risk compares against the same reference
// period for every location.
const (
	startDate = "2022-01-01"
	endDate   = "2023-12-31"
)

// Client implements analysis.TemperatureProvider.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an Open-Meteo archive client with a bounded timeout.
func NewClient(timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://archive-api.open-meteo.com/v1/archive",
		logger:  logger,
		metrics: metrics,
	}
}

// FetchTemperatureSeries returns the daily maximum temperature series for
// the fixed lookback window, in chronological order. The caller treats an
// error as an empty series.
func (c *Client) FetchTemperatureSeries(ctx context.Context, coords domain.Coordinates) ([]float64, error) {
	params := url.Values{
		"latitude":   {strconv.FormatFloat(coords.Latitude, 'f', -1, 64)},
		"longitude":  {strconv.FormatFloat(coords.Longitude, 'f', -1, 64)},
		"start_date": {startDate},
		"end_date":   {endDate},
		"daily":      {"temperature_2m_max"},
		"timezone":   {"GMT"},
	}

	start := time.Now()
	series, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.ProviderDuration.WithLabelValues("open_meteo").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ProviderRequests.WithLabelValues("open_meteo", "error").Inc()
		return nil, err
	}
	c.metrics.ProviderRequests.WithLabelValues("open_meteo", "success").Inc()
	return series, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("temperature archive request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return payload.Daily.TemperatureMax, nil
}

// Open-Meteo API response types. The series nests under a "daily" object
// keyed by the requested field name.

type response struct {
	Daily daily `json:"daily"`
}

type daily struct {
	TemperatureMax []float64 `json:"temperature_2m_max"`
}
