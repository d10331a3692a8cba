package providers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AzadehZam/ev-station-finder/internal/geo"
	"github.com/AzadehZam/ev-station-finder/internal/observability"
	"github.com/AzadehZam/ev-station-finder/internal/stations"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fastBackoff keeps retry tests quick.
func fastBackoff() BackoffConfig {
	return BackoffConfig{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}
}

const stationsBody = `{"success": true, "data": [
	{"id": "st-001", "name": "Downtown Fast Charge", "location": [-123.1210, 49.2850], "rating": 4.5},
	{"id": "bad-record", "location": [-123.0]},
	{"id": "st-002", "name": "Metrotown Supercharger", "location": [-122.9805, 49.2488], "rating": 4.7}
]}`

func TestClientFetchDecodesEnvelope(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(stationsBody))
	}))
	defer srv.Close()

	metrics := observability.NewMetricsForTesting()
	client := NewClient(srv.Client(), srv.URL, "secret-token", testLogger(), metrics)

	near := geo.Point{Lat: 49.2827, Lng: -123.1207}
	got, err := client.Fetch(context.Background(), stations.Query{
		Near:           &near,
		RadiusKm:       25,
		SearchText:     "charge",
		ConnectorTypes: []string{stations.ConnectorCCS, stations.ConnectorTesla},
	})
	require.NoError(t, err)

	// The malformed middle record is dropped, the rest survive.
	require.Len(t, got, 2)
	assert.Equal(t, "st-001", got[0].ID)
	assert.Equal(t, "st-002", got[1].ID)
	assert.InDelta(t, 49.2850, got[0].Location.Lat, 1e-9)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.DecodeRejects))

	assert.Equal(t, "/api/stations", gotPath)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "49.2827", gotQuery.Get("lat"))
	assert.Equal(t, "-123.1207", gotQuery.Get("lng"))
	assert.Equal(t, "25", gotQuery.Get("radius"))
	assert.Equal(t, "charge", gotQuery.Get("search"))
	assert.Equal(t, "CCS,Tesla", gotQuery.Get("connectorTypes"))
}

func TestClientFetchReportsEnvelopeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "error": "directory offline"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "", testLogger(), observability.NewMetricsForTesting())

	_, err := client.Fetch(context.Background(), stations.Query{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory offline")
}

func TestClientFetchRetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"success": true, "data": []}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "", testLogger(), observability.NewMetricsForTesting())
	client.httpCfg.Backoff = fastBackoff()

	got, err := client.Fetch(context.Background(), stations.Query{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClientFetchExhaustsRetries(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "", testLogger(), observability.NewMetricsForTesting())
	client.httpCfg.Backoff = fastBackoff()

	_, err := client.Fetch(context.Background(), stations.Query{})
	require.ErrorIs(t, err, errServerError)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClientTokenLifecycle(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"success": true, "data": []}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "alpha", testLogger(), observability.NewMetricsForTesting())

	_, err := client.Fetch(context.Background(), stations.Query{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer alpha", gotAuth)

	client.SetToken("beta")
	_, err = client.Fetch(context.Background(), stations.Query{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer beta", gotAuth)

	client.ClearToken()
	_, err = client.Fetch(context.Background(), stations.Query{})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}
