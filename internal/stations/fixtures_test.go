package stations

import (
	"github.com/AzadehZam/ev-station-finder/internal/geo"
)

var testUserLocation = geo.Point{Lat: 49.2827, Lng: -123.1207}

// testStations returns a fixed snapshot around Vancouver, BC. Station
// order matters: several tests assert that ties keep this order.
func testStations() []Station {
	return []Station{
		{
			ID:   "st-001",
			Name: "Downtown Fast Charge",
			Address: Address{
				Street: "1055 W Georgia St", City: "Vancouver", State: "BC", Country: "CA",
			},
			Location: geo.Point{Lat: 49.2850, Lng: -123.1210},
			Connectors: []Connector{
				{Type: ConnectorCCS, PowerKw: 50, Count: 2, Available: 1},
				{Type: ConnectorCHAdeMO, PowerKw: 50, Count: 1, Available: 1},
			},
			Pricing:        Pricing{PerKwh: 0.35, Currency: "CAD"},
			TotalPorts:     3,
			AvailablePorts: 2,
			Rating:         4.5,
			Amenities:      []string{"restroom", "coffee", "wifi"},
		},
		{
			ID:   "st-002",
			Name: "Metrotown Supercharger",
			Address: Address{
				Street: "4700 Kingsway", City: "Burnaby", State: "BC", Country: "CA",
			},
			Location: geo.Point{Lat: 49.2488, Lng: -122.9805},
			Connectors: []Connector{
				{Type: ConnectorTesla, PowerKw: 250, Count: 3, Available: 0},
			},
			Pricing:        Pricing{PerKwh: 0.40, Currency: "CAD"},
			TotalPorts:     3,
			AvailablePorts: 0,
			Rating:         4.7,
		},
		{
			ID:   "st-003",
			Name: "Commercial Drive Charging Hub",
			Address: Address{
				Street: "1750 Commercial Dr", City: "Vancouver", State: "BC", Country: "CA",
			},
			Location: geo.Point{Lat: 49.2690, Lng: -123.0700},
			Connectors: []Connector{
				{Type: ConnectorType2, PowerKw: 22, Count: 2, Available: 1},
				{Type: ConnectorJ1772, PowerKw: 7, Count: 1, Available: 0},
			},
			Pricing:        Pricing{PerKwh: 0.25, Currency: "CAD"},
			TotalPorts:     3,
			AvailablePorts: 1,
			Rating:         3.9,
			Amenities:      []string{"parking"},
		},
		{
			ID:   "st-004",
			Name: "Lonsdale Quay Chargers",
			Address: Address{
				Street: "123 Carrie Cates Ct", City: "North Vancouver", State: "BC", Country: "CA",
			},
			Location: geo.Point{Lat: 49.3095, Lng: -123.0827},
			Connectors: []Connector{
				{Type: ConnectorCCS, PowerKw: 100, Count: 2, Available: 2},
			},
			Pricing:        Pricing{PerKwh: 0.55, Currency: "CAD"},
			TotalPorts:     2,
			AvailablePorts: 2,
			Rating:         4.1,
		},
		{
			ID:   "st-005",
			Name: "Airport Plaza Charging",
			Address: Address{
				Street: "3880 Grant McConachie Way", City: "Richmond", State: "BC", Country: "CA",
			},
			Location: geo.Point{Lat: 49.1950, Lng: -123.1780},
			Connectors: []Connector{
				{Type: ConnectorCCS, PowerKw: 150, Count: 2, Available: 2},
				{Type: ConnectorTesla, PowerKw: 250, Count: 2, Available: 1},
			},
			Pricing:        Pricing{PerKwh: 1.45, Currency: "CAD"},
			TotalPorts:     4,
			AvailablePorts: 3,
			Rating:         2.8,
			Amenities:      []string{"restroom", "shopping"},
		},
	}
}

func resultIDs(results []SearchResult) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	return ids
}
