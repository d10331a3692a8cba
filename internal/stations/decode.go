package stations

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/AzadehZam/ev-station-finder/internal/geo"
)

var validate = validator.New()

// wireStation mirrors one record of the upstream directory. Location
// arrives in provider order, longitude first.
type wireStation struct {
	ID             string          `json:"id" validate:"required"`
	Name           string          `json:"name" validate:"required"`
	Address        Address         `json:"address"`
	Location       []float64       `json:"location" validate:"len=2"`
	Connectors     []wireConnector `json:"connectorTypes" validate:"dive"`
	Pricing        Pricing         `json:"pricing"`
	TotalPorts     int             `json:"totalPorts" validate:"gte=0"`
	AvailablePorts int             `json:"availablePorts" validate:"gte=0"`
	Rating         float64         `json:"rating" validate:"gte=0,lte=5"`
	Amenities      []string        `json:"amenities"`
}

type wireConnector struct {
	Type      string  `json:"type" validate:"required"`
	PowerKw   float64 `json:"power" validate:"gte=0"`
	Count     int     `json:"count" validate:"gte=0"`
	Available int     `json:"available" validate:"gte=0"`
}

// DecodeStations parses raw directory records, dropping any that are
// malformed or fail validation. It returns the decoded stations plus
// one error per rejected record; a reject never fails the batch.
func DecodeStations(records []json.RawMessage) ([]Station, []error) {
	out := make([]Station, 0, len(records))
	var rejects []error

	for i, raw := range records {
		st, err := decodeStation(raw)
		if err != nil {
			rejects = append(rejects, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		out = append(out, st)
	}

	return out, rejects
}

func decodeStation(raw json.RawMessage) (Station, error) {
	var w wireStation
	if err := json.Unmarshal(raw, &w); err != nil {
		return Station{}, fmt.Errorf("unmarshal station: %w", err)
	}
	if err := validate.Struct(w); err != nil {
		return Station{}, fmt.Errorf("validate station %q: %w", w.ID, err)
	}

	loc := geo.PointFromLngLat(w.Location[0], w.Location[1])
	if !loc.Valid() {
		return Station{}, fmt.Errorf("station %q: coordinates out of range", w.ID)
	}

	connectors := make([]Connector, 0, len(w.Connectors))
	for _, c := range w.Connectors {
		connectors = append(connectors, Connector(c))
	}

	return Station{
		ID:             w.ID,
		Name:           w.Name,
		Address:        w.Address,
		Location:       loc,
		Connectors:     connectors,
		Pricing:        w.Pricing,
		TotalPorts:     w.TotalPorts,
		AvailablePorts: w.AvailablePorts,
		Rating:         w.Rating,
		Amenities:      w.Amenities,
	}, nil
}
