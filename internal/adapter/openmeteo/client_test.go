package openmeteo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
	"github.com/couchcryptid/climate-risk-engine/internal/observability"
)

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:    observability.NewMetricsForTesting(),
	}
}

func TestClient_FetchTemperatureSeries_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "29.3013", q.Get("latitude"))
		assert.Equal(t, "-94.7977", q.Get("longitude"))
		assert.Equal(t, "2022-01-01", q.Get("start_date"))
		assert.Equal(t, "2023-12-31", q.Get("end_date"))
		assert.Equal(t, "temperature_2m_max", q.Get("daily"))
		assert.Equal(t, "GMT", q.Get("timezone"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"daily":{"time":["2022-01-01","2022-01-02","2022-01-03"],"temperature_2m_max":[18.4,21.1,25.3]}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	series, err := c.FetchTemperatureSeries(context.Background(), domain.Coordinates{Latitude: 29.3013, Longitude: -94.7977})
	require.NoError(t, err)
	assert.Equal(t, []float64{18.4, 21.1, 25.3}, series)
}

func TestClient_FetchTemperatureSeries_MissingDailyBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":true,"reason":"out of range"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	series, err := c.FetchTemperatureSeries(context.Background(), domain.Coordinates{})
	require.NoError(t, err)
	assert.Empty(t, series, "absent daily block decodes as an empty series")
}

func TestClient_FetchTemperatureSeries_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"reason":"invalid coordinates"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.FetchTemperatureSeries(context.Background(), domain.Coordinates{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestClient_FetchTemperatureSeries_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"daily":`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.FetchTemperatureSeries(context.Background(), domain.Coordinates{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_FetchTemperatureSeries_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.FetchTemperatureSeries(context.Background(), domain.Coordinates{})
	require.Error(t, err)
}
