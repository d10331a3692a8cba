package stations

import (
	"math"
	"sort"
)

// Rank orders results in place with a stable sort so stations that
// compare equal keep their snapshot order. Distance sorts ascending
// with unknown distances last, price ascending, rating descending.
func Rank(results []SearchResult, key SortKey) {
	sort.SliceStable(results, func(i, j int) bool {
		switch key {
		case SortByPrice:
			return results[i].Pricing.PerKwh < results[j].Pricing.PerKwh
		case SortByRating:
			return results[i].Rating > results[j].Rating
		default:
			return distanceOrInf(results[i]) < distanceOrInf(results[j])
		}
	})
}

func distanceOrInf(r SearchResult) float64 {
	if r.DistanceKm == nil {
		return math.Inf(1)
	}
	return *r.DistanceKm
}
