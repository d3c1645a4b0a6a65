package models

import "encoding/json"

// TravelMode selects the distance API travel mode parameter.
type TravelMode string

const (
	TravelModeDriving   TravelMode = "driving"
	TravelModeWalking   TravelMode = "walking"
	TravelModeBicycling TravelMode = "bicycling"
)

// RouteRestriction selects the distance API avoid parameter. An empty value
// means no restriction.
type RouteRestriction string

const (
	RestrictionNone     RouteRestriction = ""
	RestrictionTolls    RouteRestriction = "tolls"
	RestrictionHighways RouteRestriction = "highways"
	RestrictionFerries  RouteRestriction = "ferries"
	RestrictionIndoor   RouteRestriction = "indoor"
)

// DistanceUnit selects the unit distances are converted to and matched in.
type DistanceUnit string

const (
	UnitMetric   DistanceUnit = "metric"
	UnitImperial DistanceUnit = "imperial"
)

// Suffix returns the display suffix for the unit.
func (u DistanceUnit) Suffix() string {
	if u == UnitImperial {
		return "mi"
	}
	return "km"
}

// PreferredRoute picks the comparator used when the distance API returns
// several route candidates.
type PreferredRoute string

const (
	ShortestDistance PreferredRoute = "shortest_distance"
	LongestDistance  PreferredRoute = "longest_distance"
	ShortestDuration PreferredRoute = "shortest_duration"
	LongestDuration  PreferredRoute = "longest_duration"
)

// DistanceQuery carries everything that shapes a single distance API call.
// It is built once per calculation and never mutated afterwards; the cache
// fingerprint is derived from it.
type DistanceQuery struct {
	Origin         string           `json:"origin"`
	Destination    string           `json:"destination"`
	TravelMode     TravelMode       `json:"travel_mode"`
	Restriction    RouteRestriction `json:"route_restriction"`
	Unit           DistanceUnit     `json:"distance_unit"`
	PreferredRoute PreferredRoute   `json:"preferred_route"`
	Language       string           `json:"language"`
	RoundUp        bool             `json:"round_up"`
}

// RouteCandidate is one route returned by the distance API, with the
// distance already converted to the configured unit.
type RouteCandidate struct {
	Distance     float64 `json:"distance"`
	DistanceText string  `json:"distance_text"`
	Duration     int     `json:"duration"`
	DurationText string  `json:"duration_text"`
}

// DistanceResult is the outcome of a successful distance query: the chosen
// route plus the raw provider payload kept for diagnostics.
type DistanceResult struct {
	Distance     float64         `json:"distance"`
	DistanceText string          `json:"distance_text"`
	Duration     int             `json:"duration"`
	DurationText string          `json:"duration_text"`
	Response     json.RawMessage `json:"response,omitempty"`
}
