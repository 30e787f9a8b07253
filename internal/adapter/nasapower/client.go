// Package nasapower fetches daily precipitation history from the NASA POWER
// agroclimatology API.
package nasapower

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
	"github.com/couchcryptid/climate-risk-engine/internal/observability"
)

// Fixed lookback year for precipitation. NASA POWER uses compact YYYYMMDD
// dates, unlike the weather archive's ISO dates.
const (
	startDate = "20230101"
	endDate   = "20231231"

	// precipParameter is the total corrected precipitation parameter code.
	precipParameter = "PRECTOTCORR"
)

// Client implements analysis.PrecipitationProvider.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a NASA POWER client with a bounded timeout.
func NewClient(timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://power.larc.nasa.gov/api/temporal/daily/point",
		logger:  logger,
		metrics: metrics,
	}
}

// FetchPrecipitationSeries returns daily precipitation values for the fixed
// lookback year, ordered by day key. The caller treats an error as an
// empty series.
func (c *Client) FetchPrecipitationSeries(ctx context.Context, coords domain.Coordinates) ([]float64, error) {
	params := url.Values{
		"latitude":   {strconv.FormatFloat(coords.Latitude, 'f', -1, 64)},
		"longitude":  {strconv.FormatFloat(coords.Longitude, 'f', -1, 64)},
		"start":      {startDate},
		"end":        {endDate},
		"parameters": {precipParameter},
		"community":  {"AG"},
		"format":     {"JSON"},
	}

	start := time.Now()
	series, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.ProviderDuration.WithLabelValues("nasa_power").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ProviderRequests.WithLabelValues("nasa_power", "error").Inc()
		return nil, err
	}
	c.metrics.ProviderRequests.WithLabelValues("nasa_power", "success").Inc()
	return series, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("precipitation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("nasa power API error: status %d: %s", resp.StatusCode, body)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	dailyPrecip := payload.Properties.Parameter[precipParameter]
	if dailyPrecip == nil {
		return nil, fmt.Errorf("nasa power response missing %s parameter", precipParameter)
	}

	// The payload maps YYYYMMDD day keys to values; sort keys to restore
	// chronological order.
	days := make([]string, 0, len(dailyPrecip))
	for day := range dailyPrecip {
		days = append(days, day)
	}
	sort.Strings(days)

	series := make([]float64, 0, len(days))
	for _, day := range days {
		series = append(series, dailyPrecip[day])
	}
	return series, nil
}

// NASA POWER API response types. The series nests under
// properties.parameter.<PARAM> as a day-keyed mapping.

type response struct {
	Properties properties `json:"properties"`
}

type properties struct {
	Parameter map[string]map[string]float64 `json:"parameter"`
}
