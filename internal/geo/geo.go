package geo

import "math"

const earthRadiusKm = 6371.0

// Point is a geographic coordinate pair in decimal degrees.
type Point struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

// PointFromLngLat builds a Point from a longitude-first pair.
// The station feed stores coordinates in that order, so every wire
// value must pass through here; nowhere else is allowed to swap them.
func PointFromLngLat(lng, lat float64) Point {
	return Point{Lat: lat, Lng: lng}
}

// Valid reports whether both coordinates are inside their ranges.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Distance returns the great-circle distance between two points in
// kilometers, using the haversine formula. Inputs are not range
// checked; callers validate coordinates at the decode boundary.
func Distance(a, b Point) float64 {
	lat1 := degreesToRadians(a.Lat)
	lat2 := degreesToRadians(b.Lat)
	deltaLat := degreesToRadians(b.Lat - a.Lat)
	deltaLng := degreesToRadians(b.Lng - a.Lng)

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
