package stations

import (
	"strings"

	"github.com/AzadehZam/ev-station-finder/internal/geo"
)

// priceCapPerKwh maps per-kWh prices onto the 0..1 slider scale.
const priceCapPerKwh = 1.0

// SearchResult is one row of a search: the station plus its derived
// display fields. Derived fields are recomputed on every run and never
// written back to the snapshot. DistanceKm is nil when no user
// location is known, in which case Distance is empty too.
type SearchResult struct {
	Station
	Availability Availability `json:"availability"`
	Distance     string       `json:"distance,omitempty"`
	DistanceKm   *float64     `json:"distanceValueKm,omitempty"`
}

// NormalizedPrice maps a per-kWh price onto [0,1], clamping at both
// ends.
func NormalizedPrice(perKwh float64) float64 {
	p := perKwh / priceCapPerKwh
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

// Filter applies the criteria to the station list in a fixed order:
// text, connector types, rating, price, then distance. Distance is
// evaluated only for stations that survive the cheaper predicates, and
// skipped entirely when user is nil. The input list is never mutated.
func Filter(list []Station, c Criteria, user *geo.Point) []SearchResult {
	results := make([]SearchResult, 0, len(list))

	for _, st := range list {
		if c.SearchText != "" && !st.matchesText(c.SearchText) {
			continue
		}
		if !st.hasAnyConnector(c.ConnectorTypes) {
			continue
		}
		if st.Rating < c.MinRating {
			continue
		}
		p := NormalizedPrice(st.Pricing.PerKwh)
		if p < c.PriceRange[0] || p > c.PriceRange[1] {
			continue
		}

		res := SearchResult{
			Station:      st,
			Availability: ClassifyAvailability(st.AvailablePorts, st.TotalPorts),
		}

		if user != nil {
			d := geo.Distance(*user, st.Location)
			if c.MaxDistanceKm > 0 && d > c.MaxDistanceKm {
				continue
			}
			res.DistanceKm = &d
		}

		results = append(results, res)
	}

	return results
}

// matchesText checks the query against name, street, city, state, and
// amenity tags.
func (s Station) matchesText(query string) bool {
	if matchesAny(query, s.Name, s.Address.Street, s.Address.City, s.Address.State) {
		return true
	}
	return matchesAny(query, s.Amenities...)
}

// hasAnyConnector reports whether the station offers at least one of
// the wanted plug types. An empty want list matches everything; a
// listed connector matches regardless of how many of its ports are
// free.
func (s Station) hasAnyConnector(want []string) bool {
	if len(want) == 0 {
		return true
	}
	for _, conn := range s.Connectors {
		for _, w := range want {
			if strings.EqualFold(conn.Type, w) {
				return true
			}
		}
	}
	return false
}
