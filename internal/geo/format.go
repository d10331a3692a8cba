package geo

import (
	"fmt"
	"math"
)

// DisplayUnit selects the convention used to render distance strings.
type DisplayUnit string

const (
	UnitMiles      DisplayUnit = "miles"
	UnitKilometers DisplayUnit = "km"
)

// ParseDisplayUnit maps a config value onto a DisplayUnit.
func ParseDisplayUnit(s string) (DisplayUnit, error) {
	switch s {
	case "miles", "mi":
		return UnitMiles, nil
	case "km", "kilometers":
		return UnitKilometers, nil
	default:
		return "", fmt.Errorf("unknown display unit %q", s)
	}
}

// Format renders the figure using the unit's convention. The figure is
// taken to already be in the unit's frame; no conversion happens here.
func (u DisplayUnit) Format(v float64) string {
	if u == UnitKilometers {
		return FormatKilometers(v)
	}
	return FormatMiles(v)
}

// FormatMiles renders a distance figure in the miles convention:
// fractions of a unit are shown in whole feet, anything from one unit
// up as one-decimal miles. Zero renders as "0 ft".
func FormatMiles(v float64) string {
	if v < 1 {
		return fmt.Sprintf("%d ft", int(math.Round(v*5280)))
	}
	return fmt.Sprintf("%.1f mi", v)
}

// FormatKilometers renders a distance figure in the metric convention:
// fractions of a unit are shown in whole meters, anything from one
// unit up as one-decimal kilometers. Zero renders as "0 m".
func FormatKilometers(v float64) string {
	if v < 1 {
		return fmt.Sprintf("%d m", int(math.Round(v*1000)))
	}
	return fmt.Sprintf("%.1f km", v)
}
