// Package stations models EV charging stations and implements the
// search pipeline that turns a station snapshot into a ranked result
// list.
//
// # Wire Conventions
//
// The upstream directory wraps every response in a success/data/error
// envelope and stores each station's coordinates in provider order,
// longitude first:
//
//	"location": [-123.1207, 49.2827]  →  lng=-123.1207, lat=49.2827
//
// [DecodeStations] is the only place that reordering happens; decoded
// records carry a [geo.Point] with named fields from then on. Records
// that fail validation are dropped individually so one malformed entry
// never takes down a snapshot.
//
// # Availability
//
// Stations are bucketed by the share of free charging ports:
//
//	no free ports        → unavailable
//	more than half free  → available
//	otherwise            → limited
//
// A station reporting zero total ports counts as unavailable.
//
// # Price Normalization
//
// Per-kWh prices are mapped onto the 0..1 slider scale used by the
// price filter by dividing by 1.00/kWh and clamping at 1. Both range
// bounds are inclusive.
//
// # Pipeline Order
//
// [Filter] applies predicates cheapest first: text, connector types,
// rating, price, then distance. Distance is computed only for stations
// that survive the earlier predicates, and only when a user location
// is known. [Rank] sorts with a stable order so equal keys keep their
// snapshot positions, and [Search] combines both with display
// formatting.
package stations
