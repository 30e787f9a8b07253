// Package openelevation looks up terrain elevation via the Open-Elevation API.
package openelevation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
	"github.com/couchcryptid/climate-risk-engine/internal/observability"
)

// Client implements analysis.ElevationProvider.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an Open-Elevation client with a bounded timeout.
func NewClient(timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.open-elevation.com/api/v1/lookup",
		logger:  logger,
		metrics: metrics,
	}
}

// FetchElevation returns the elevation in meters for a single point. The
// caller substitutes the documented fallback on error.
func (c *Client) FetchElevation(ctx context.Context, coords domain.Coordinates) (float64, error) {
	params := url.Values{
		"locations": {fmt.Sprintf("%f,%f", coords.Latitude, coords.Longitude)},
	}

	start := time.Now()
	elevation, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.ProviderDuration.WithLabelValues("open_elevation").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ProviderRequests.WithLabelValues("open_elevation", "error").Inc()
		return 0, err
	}
	c.metrics.ProviderRequests.WithLabelValues("open_elevation", "success").Inc()
	return elevation, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("elevation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("open-elevation API error: status %d: %s", resp.StatusCode, body)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	if len(payload.Results) == 0 {
		return 0, fmt.Errorf("open-elevation returned no results")
	}

	return payload.Results[0].Elevation, nil
}

// Open-Elevation API response types.

type response struct {
	Results []result `json:"results"`
}

type result struct {
	Elevation float64 `json:"elevation"`
}
