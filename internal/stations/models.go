package stations

import (
	"github.com/AzadehZam/ev-station-finder/internal/geo"
)

// Common connector plug types found in the upstream directory. The
// field is free-form; these cover the values the filter UI offers.
const (
	ConnectorCCS     = "CCS"
	ConnectorCHAdeMO = "CHAdeMO"
	ConnectorType2   = "Type 2"
	ConnectorTesla   = "Tesla"
	ConnectorJ1772   = "J-1772"
)

// Address locates a station postally.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country"`
}

// Connector describes one plug type offered at a station.
type Connector struct {
	Type      string  `json:"type"`
	PowerKw   float64 `json:"power"`
	Count     int     `json:"count"`
	Available int     `json:"available"`
}

// Pricing is the station's energy tariff.
type Pricing struct {
	PerKwh   float64 `json:"perKwh"`
	Currency string  `json:"currency"`
}

// Station is one charging site in the snapshot. AvailablePorts is
// assumed not to exceed TotalPorts; the upstream owns that invariant
// and the classifier tolerates violations.
type Station struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Address        Address     `json:"address"`
	Location       geo.Point   `json:"location"`
	Connectors     []Connector `json:"connectorTypes"`
	Pricing        Pricing     `json:"pricing"`
	TotalPorts     int         `json:"totalPorts"`
	AvailablePorts int         `json:"availablePorts"`
	Rating         float64     `json:"rating"`
	Amenities      []string    `json:"amenities,omitempty"`
}

// SortKey selects the primary ranking dimension.
type SortKey string

const (
	SortByDistance SortKey = "distance"
	SortByPrice    SortKey = "price"
	SortByRating   SortKey = "rating"
)

// Criteria captures one search request against the snapshot.
// MaxDistanceKm of zero or less means unlimited; PriceRange bounds are
// on the normalized 0..1 scale, both inclusive.
type Criteria struct {
	SearchText     string     `json:"searchText"`
	ConnectorTypes []string   `json:"connectorTypes"`
	MaxDistanceKm  float64    `json:"maxDistanceKm"`
	PriceRange     [2]float64 `json:"priceRange"`
	MinRating      float64    `json:"minRating"`
	Sort           SortKey    `json:"sortBy"`
}

// DefaultCriteria matches every station and ranks by distance.
func DefaultCriteria() Criteria {
	return Criteria{
		PriceRange: [2]float64{0, 1},
		Sort:       SortByDistance,
	}
}
