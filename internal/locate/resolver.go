// Package locate turns free-form place queries into coordinates and
// supplies the fallback location when no usable position is available.
package locate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelvins/geocoder"

	"github.com/AzadehZam/ev-station-finder/internal/geo"
	"github.com/AzadehZam/ev-station-finder/internal/observability"
)

// DefaultLocation is downtown Vancouver, used whenever the caller has
// no position: geolocation denied in the client, no coordinates on the
// request, or a failed place lookup.
var DefaultLocation = geo.Point{Lat: 49.2827, Lng: -123.1207}

var errEmptyQuery = errors.New("empty location query")

// Resolver turns a place description into a coordinate.
type Resolver interface {
	Resolve(ctx context.Context, query string) (geo.Point, error)
}

// GoogleResolver resolves place queries through the Google geocoding
// API. The underlying library takes no context, so cancellation is
// only honored between calls.
type GoogleResolver struct {
	geocode func(geocoder.Address) (geocoder.Location, error)
	logger  *slog.Logger
	metrics *observability.Metrics
}

func NewGoogleResolver(apiKey string, logger *slog.Logger, metrics *observability.Metrics) *GoogleResolver {
	geocoder.ApiKey = apiKey
	return &GoogleResolver{
		geocode: geocoder.Geocoding,
		logger:  logger,
		metrics: metrics,
	}
}

func (r *GoogleResolver) Resolve(ctx context.Context, query string) (geo.Point, error) {
	if err := ctx.Err(); err != nil {
		return geo.Point{}, err
	}
	addr, err := parseAddress(query)
	if err != nil {
		return geo.Point{}, err
	}

	loc, err := r.geocode(addr)
	if err != nil {
		r.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return geo.Point{}, fmt.Errorf("geocode %q: %w", query, err)
	}

	p := geo.Point{Lat: loc.Latitude, Lng: loc.Longitude}
	if !p.Valid() {
		r.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return geo.Point{}, fmt.Errorf("geocode %q: coordinates out of range", query)
	}

	r.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	r.logger.Debug("resolved place query", "query", query, "lat", p.Lat, "lng", p.Lng)
	return p, nil
}

// parseAddress maps a comma-separated query onto the geocoder's
// address fields: "City", "City, State", or "Street, City, State".
func parseAddress(query string) (geocoder.Address, error) {
	parts := strings.Split(query, ",")
	fields := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			fields = append(fields, p)
		}
	}

	switch n := len(fields); {
	case n == 0:
		return geocoder.Address{}, errEmptyQuery
	case n == 1:
		return geocoder.Address{City: fields[0]}, nil
	case n == 2:
		return geocoder.Address{City: fields[0], State: fields[1]}, nil
	default:
		return geocoder.Address{
			Street: strings.Join(fields[:n-2], ", "),
			City:   fields[n-2],
			State:  fields[n-1],
		}, nil
	}
}

// ResolveOrDefault resolves the query, falling back to
// DefaultLocation when no resolver is configured or the lookup fails.
// The returned warning is empty on success and human-readable
// otherwise, so HTTP handlers can pass it straight to the client.
func ResolveOrDefault(ctx context.Context, r Resolver, query string, logger *slog.Logger, metrics *observability.Metrics) (geo.Point, string) {
	if r == nil {
		metrics.GeocodeRequests.WithLabelValues("fallback").Inc()
		return DefaultLocation, "location lookup is not configured; showing the default area"
	}

	p, err := r.Resolve(ctx, query)
	if err != nil {
		logger.Warn("place lookup failed", "query", query, "error", err)
		metrics.GeocodeRequests.WithLabelValues("fallback").Inc()
		return DefaultLocation, fmt.Sprintf("could not locate %q; showing the default area", query)
	}
	return p, ""
}
