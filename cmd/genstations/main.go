// Command genstations generates a deterministic station fixture in the
// wire format the station source reads: a success/data envelope whose
// location pairs are (longitude, latitude).
//
// Usage:
//
//	go run ./cmd/genstations -n 40 -seed 7 -out data/fixtures/stations.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/AzadehZam/ev-station-finder/internal/stations"
)

// wireStation mirrors the upstream record shape, with the provider's
// longitude-first coordinate order.
type wireStation struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Address        wireAddress     `json:"address"`
	Location       [2]float64      `json:"location"`
	ConnectorTypes []wireConnector `json:"connectorTypes"`
	Pricing        wirePricing     `json:"pricing"`
	TotalPorts     int             `json:"totalPorts"`
	AvailablePorts int             `json:"availablePorts"`
	Rating         float64         `json:"rating"`
	Amenities      []string        `json:"amenities,omitempty"`
}

type wireAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

type wireConnector struct {
	Type      string  `json:"type"`
	Power     float64 `json:"power"`
	Count     int     `json:"count"`
	Available int     `json:"available"`
}

type wirePricing struct {
	PerKwh   float64 `json:"perKwh"`
	Currency string  `json:"currency"`
}

var (
	namePrefixes = []string{
		"Downtown", "Harbourview", "Metrotown", "Commercial Drive",
		"Lonsdale", "Granville", "Kitsilano", "Airport Plaza",
		"Brentwood", "Oakridge", "Gastown", "Yaletown",
	}
	nameSuffixes = []string{
		"Fast Charge", "Supercharger", "Charging Hub",
		"EV Station", "Power Point", "Chargers",
	}
	streets = []string{
		"Robson St", "Kingsway", "Commercial Dr", "Lonsdale Ave",
		"Granville St", "W 4th Ave", "Hastings St", "Main St",
	}
	cities         = []string{"Vancouver", "Burnaby", "Richmond", "North Vancouver", "Surrey"}
	connectorKinds = []string{"CCS", "CHAdeMO", "Type 2", "Tesla", "J-1772"}
	connectorPower = map[string]float64{
		"CCS": 150, "CHAdeMO": 50, "Type 2": 22, "Tesla": 250, "J-1772": 7,
	}
	amenityPool = []string{"cafe", "wifi", "restroom", "shopping", "covered", "24h"}
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	n := flag.Int("n", 25, "number of stations")
	lat := flag.Float64("lat", 49.2827, "center latitude")
	lng := flag.Float64("lng", -123.1207, "center longitude")
	spread := flag.Float64("spread", 0.15, "max coordinate offset in degrees")
	seed := flag.Int64("seed", 1, "random seed")
	out := flag.String("out", "", "output path for the fixture JSON")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *n <= 0 {
		return fmt.Errorf("-n must be positive")
	}

	rng := rand.New(rand.NewSource(*seed))
	records := make([]wireStation, 0, *n)
	for i := 0; i < *n; i++ {
		records = append(records, randomStation(rng, i+1, *lat, *lng, *spread))
	}

	envelope := map[string]any{
		"success": true,
		"data":    records,
	}
	if err := writeJSON(*out, envelope); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote %d stations: %s", len(records), *out)

	printStats(records)
	return nil
}

func randomStation(rng *rand.Rand, i int, lat, lng, spread float64) wireStation {
	var connectors []wireConnector
	total, available := 0, 0
	for _, k := range rng.Perm(len(connectorKinds))[:1+rng.Intn(3)] {
		kind := connectorKinds[k]
		count := 1 + rng.Intn(3)
		avail := rng.Intn(count + 1)
		connectors = append(connectors, wireConnector{
			Type:      kind,
			Power:     connectorPower[kind],
			Count:     count,
			Available: avail,
		})
		total += count
		available += avail
	}

	price := round2(0.20 + rng.Float64()*0.60)
	if rng.Intn(8) == 0 {
		// The occasional premium site lands above the slider cap.
		price = round2(1.0 + rng.Float64()*0.5)
	}

	var amenities []string
	for _, a := range amenityPool {
		if rng.Intn(3) == 0 {
			amenities = append(amenities, a)
		}
	}

	return wireStation{
		ID:   fmt.Sprintf("st-%03d", i),
		Name: pick(rng, namePrefixes) + " " + pick(rng, nameSuffixes),
		Address: wireAddress{
			Street:  fmt.Sprintf("%d %s", 100+rng.Intn(4900), pick(rng, streets)),
			City:    pick(rng, cities),
			State:   "BC",
			Country: "CA",
		},
		// Longitude first, matching the provider feed.
		Location: [2]float64{
			round6(lng + (rng.Float64()*2-1)*spread),
			round6(lat + (rng.Float64()*2-1)*spread),
		},
		ConnectorTypes: connectors,
		Pricing:        wirePricing{PerKwh: price, Currency: "CAD"},
		TotalPorts:     total,
		AvailablePorts: available,
		Rating:         math.Round((2.5+rng.Float64()*2.5)*10) / 10,
		Amenities:      amenities,
	}
}

func pick(rng *rand.Rand, pool []string) string {
	return pool[rng.Intn(len(pool))]
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// printStats summarizes the fixture so test expectations can be
// updated without re-deriving them by hand.
func printStats(records []wireStation) {
	buckets := map[stations.Availability]int{}
	connectors := map[string]int{}
	minPrice, maxPrice := math.Inf(1), math.Inf(-1)

	for i := range records {
		r := &records[i]
		buckets[stations.ClassifyAvailability(r.AvailablePorts, r.TotalPorts)]++
		for _, c := range r.ConnectorTypes {
			connectors[c.Type]++
		}
		if r.Pricing.PerKwh < minPrice {
			minPrice = r.Pricing.PerKwh
		}
		if r.Pricing.PerKwh > maxPrice {
			maxPrice = r.Pricing.PerKwh
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(records))
	fmt.Printf("Availability: available=%d, limited=%d, unavailable=%d\n",
		buckets[stations.Available], buckets[stations.Limited], buckets[stations.Unavailable])
	fmt.Printf("Connectors: ")
	for _, kind := range connectorKinds {
		fmt.Printf("%s=%d ", kind, connectors[kind])
	}
	fmt.Println()
	fmt.Printf("Price range: %.2f - %.2f CAD/kWh\n", minPrice, maxPrice)
}
