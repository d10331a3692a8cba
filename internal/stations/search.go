package stations

import (
	"github.com/AzadehZam/ev-station-finder/internal/geo"
)

// Search runs the full pipeline: filter, rank, then distance display
// formatting. The kilometre figure computed by the filter is handed to
// the deployment's display unit as-is; the historical frontend labeled
// it with the miles convention and that behavior is preserved when the
// unit is miles.
func Search(list []Station, c Criteria, user *geo.Point, unit geo.DisplayUnit) []SearchResult {
	results := Filter(list, c, user)
	Rank(results, c.Sort)

	for i := range results {
		if results[i].DistanceKm != nil {
			results[i].Distance = unit.Format(*results[i].DistanceKm)
		}
	}

	return results
}
