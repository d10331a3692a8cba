package stations

// Availability is the three-level port status shown on map markers.
type Availability string

const (
	Available   Availability = "available"
	Limited     Availability = "limited"
	Unavailable Availability = "unavailable"
)

// ClassifyAvailability buckets a station by its share of free ports.
// No free ports is always unavailable, including stations that report
// zero ports total.
func ClassifyAvailability(available, total int) Availability {
	if available <= 0 || total <= 0 {
		return Unavailable
	}
	if float64(available)/float64(total) > 0.5 {
		return Available
	}
	return Limited
}
