package stations

import (
	"context"

	"github.com/AzadehZam/ev-station-finder/internal/geo"
)

// Query narrows a source fetch where the upstream supports it. Sources
// that cannot narrow may ignore it; the search pipeline filters the
// result either way.
type Query struct {
	Near           *geo.Point
	RadiusKm       float64
	SearchText     string
	ConnectorTypes []string
}

// Source produces the station collection committed into a snapshot.
// A fetch returns the full collection for its query; snapshots are
// replaced wholesale, never merged.
type Source interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]Station, error)
}
