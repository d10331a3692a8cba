package locate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/kelvins/geocoder"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AzadehZam/ev-station-finder/internal/geo"
	"github.com/AzadehZam/ev-station-finder/internal/observability"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func stubResolver(geocode func(geocoder.Address) (geocoder.Location, error)) (*GoogleResolver, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	return &GoogleResolver{geocode: geocode, logger: testLogger(), metrics: metrics}, metrics
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  geocoder.Address
	}{
		{"city only", "Burnaby", geocoder.Address{City: "Burnaby"}},
		{"city and state", "Burnaby, BC", geocoder.Address{City: "Burnaby", State: "BC"}},
		{"street city state", "4700 Kingsway, Burnaby, BC", geocoder.Address{Street: "4700 Kingsway", City: "Burnaby", State: "BC"}},
		{"extra parts fold into street", "Suite 200, 4700 Kingsway, Burnaby, BC", geocoder.Address{Street: "Suite 200, 4700 Kingsway", City: "Burnaby", State: "BC"}},
		{"whitespace trimmed", "  Burnaby ,  BC ", geocoder.Address{City: "Burnaby", State: "BC"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAddress(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAddressEmpty(t *testing.T) {
	for _, query := range []string{"", "   ", ",,"} {
		_, err := parseAddress(query)
		assert.ErrorIs(t, err, errEmptyQuery, "query %q", query)
	}
}

func TestResolveReturnsPoint(t *testing.T) {
	var gotAddr geocoder.Address
	r, metrics := stubResolver(func(a geocoder.Address) (geocoder.Location, error) {
		gotAddr = a
		return geocoder.Location{Latitude: 49.2488, Longitude: -122.9805}, nil
	})

	p, err := r.Resolve(context.Background(), "Metrotown, Burnaby, BC")
	require.NoError(t, err)
	assert.Equal(t, geo.Point{Lat: 49.2488, Lng: -122.9805}, p)
	assert.Equal(t, geocoder.Address{Street: "Metrotown", City: "Burnaby", State: "BC"}, gotAddr)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.GeocodeRequests.WithLabelValues("success")))
}

func TestResolveGeocoderError(t *testing.T) {
	r, metrics := stubResolver(func(geocoder.Address) (geocoder.Location, error) {
		return geocoder.Location{}, errors.New("quota exceeded")
	})

	_, err := r.Resolve(context.Background(), "Burnaby")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.GeocodeRequests.WithLabelValues("error")))
}

func TestResolveRejectsOutOfRangeCoordinates(t *testing.T) {
	r, _ := stubResolver(func(geocoder.Address) (geocoder.Location, error) {
		return geocoder.Location{Latitude: 200, Longitude: 0}, nil
	})

	_, err := r.Resolve(context.Background(), "Burnaby")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestResolveCanceledContext(t *testing.T) {
	r, _ := stubResolver(func(geocoder.Address) (geocoder.Location, error) {
		t.Fatal("geocode must not be called after cancellation")
		return geocoder.Location{}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx, "Burnaby")
	require.ErrorIs(t, err, context.Canceled)
}

func TestResolveOrDefaultNilResolver(t *testing.T) {
	metrics := observability.NewMetricsForTesting()

	p, warning := ResolveOrDefault(context.Background(), nil, "Burnaby", testLogger(), metrics)
	assert.Equal(t, DefaultLocation, p)
	assert.NotEmpty(t, warning)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.GeocodeRequests.WithLabelValues("fallback")))
}

func TestResolveOrDefaultFallsBackOnError(t *testing.T) {
	r, metrics := stubResolver(func(geocoder.Address) (geocoder.Location, error) {
		return geocoder.Location{}, errors.New("no results")
	})

	p, warning := ResolveOrDefault(context.Background(), r, "Nowhereville", testLogger(), metrics)
	assert.Equal(t, DefaultLocation, p)
	assert.Contains(t, warning, "Nowhereville")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.GeocodeRequests.WithLabelValues("fallback")))
}

func TestResolveOrDefaultSuccess(t *testing.T) {
	r, _ := stubResolver(func(geocoder.Address) (geocoder.Location, error) {
		return geocoder.Location{Latitude: 49.3165, Longitude: -123.0720}, nil
	})

	p, warning := ResolveOrDefault(context.Background(), r, "Lonsdale Quay, North Vancouver, BC", testLogger(), observability.NewMetricsForTesting())
	assert.Equal(t, geo.Point{Lat: 49.3165, Lng: -123.0720}, p)
	assert.Empty(t, warning)
}
