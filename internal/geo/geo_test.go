package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	downtownVancouver = Point{Lat: 49.2827, Lng: -123.1207}
	metrotownBurnaby  = Point{Lat: 49.2488, Lng: -122.9805}
)

func TestDistanceSamePointIsZero(t *testing.T) {
	assert.Zero(t, Distance(downtownVancouver, downtownVancouver))
}

func TestDistanceIsSymmetric(t *testing.T) {
	pairs := []struct {
		name string
		a, b Point
	}{
		{"vancouver-burnaby", downtownVancouver, metrotownBurnaby},
		{"across equator", Point{Lat: 1.5, Lng: 10}, Point{Lat: -1.5, Lng: -10}},
		{"across antimeridian", Point{Lat: 52, Lng: 179.9}, Point{Lat: 52, Lng: -179.9}},
	}

	for _, tc := range pairs {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, Distance(tc.a, tc.b), Distance(tc.b, tc.a), 1e-9)
		})
	}
}

func TestDistanceKnownValues(t *testing.T) {
	// One degree of longitude on the equator is ~111.19 km.
	gotEquator := Distance(Point{Lat: 0, Lng: 0}, Point{Lat: 0, Lng: 1})
	assert.InDelta(t, 111.19, gotEquator, 0.05)

	gotVancouver := Distance(downtownVancouver, metrotownBurnaby)
	assert.InDelta(t, 10.85, gotVancouver, 0.2)
}

func TestPointFromLngLatTransposesWireOrder(t *testing.T) {
	p := PointFromLngLat(-123.1207, 49.2827)

	assert.Equal(t, 49.2827, p.Lat)
	assert.Equal(t, -123.1207, p.Lng)
}

func TestPointValid(t *testing.T) {
	tests := []struct {
		name  string
		point Point
		want  bool
	}{
		{"downtown vancouver", downtownVancouver, true},
		{"poles", Point{Lat: 90, Lng: 180}, true},
		{"latitude out of range", Point{Lat: 91, Lng: 0}, false},
		{"longitude out of range", Point{Lat: 0, Lng: -180.5}, false},
		{"transposed pair out of range", Point{Lat: -123.1207, Lng: 49.2827}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.point.Valid())
		})
	}
}
