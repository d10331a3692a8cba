package stations

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AzadehZam/ev-station-finder/internal/geo"
)

func TestSearchRanksAndFormats(t *testing.T) {
	user := testUserLocation

	c := DefaultCriteria()
	c.Sort = SortByPrice
	c.PriceRange = [2]float64{0, 0.45}

	results := Search(testStations(), c, &user, geo.UnitMiles)

	require.Equal(t, []string{"st-003", "st-001", "st-002"}, resultIDs(results))
	for _, res := range results {
		require.NotNil(t, res.DistanceKm)
		assert.NotEmpty(t, res.Distance)
	}
}

// The kilometre figure from the pipeline is labeled with the miles
// convention, matching the longstanding frontend display. Downtown
// Vancouver to Metrotown reads as a number between 8 and 12.
func TestSearchDistanceDisplayConvention(t *testing.T) {
	user := testUserLocation

	c := DefaultCriteria()
	c.SearchText = "Metrotown"

	results := Search(testStations(), c, &user, geo.UnitMiles)

	require.Len(t, results, 1)
	res := results[0]
	require.NotNil(t, res.DistanceKm)
	assert.Greater(t, *res.DistanceKm, 8.0)
	assert.Less(t, *res.DistanceKm, 12.0)

	require.True(t, strings.HasSuffix(res.Distance, " mi"), "got %q", res.Distance)
	shown, err := strconv.ParseFloat(strings.TrimSuffix(res.Distance, " mi"), 64)
	require.NoError(t, err)
	assert.Greater(t, shown, 8.0)
	assert.Less(t, shown, 12.0)
}

func TestSearchMetricDisplay(t *testing.T) {
	user := geo.Point{Lat: 49.2850, Lng: -123.1210}

	c := DefaultCriteria()
	c.SearchText = "Downtown"

	results := Search(testStations(), c, &user, geo.UnitKilometers)

	require.Len(t, results, 1)
	// Standing at the station itself.
	assert.Equal(t, "0 m", results[0].Distance)
}

func TestSearchWithoutLocationOmitsDistance(t *testing.T) {
	results := Search(testStations(), DefaultCriteria(), nil, geo.UnitMiles)

	require.NotEmpty(t, results)
	for _, res := range results {
		assert.Nil(t, res.DistanceKm)
		assert.Empty(t, res.Distance)
	}
}
