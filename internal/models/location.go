package models

import (
	"strconv"
	"strings"
)

// Coordinate is a latitude/longitude pair used for the store origin and,
// when the address picker is enabled, for the customer destination.
type Coordinate struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

// IsZero reports whether the coordinate has not been set.
func (c Coordinate) IsZero() bool {
	return c.Lat == 0 && c.Lng == 0
}

// LocationString renders the coordinate in the "lat,lng" form the distance
// API expects for origins and destinations.
func (c Coordinate) LocationString() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

// Address is a structured mailing address. Country-specific required-field
// rules and postcode formats are enforced by the checkout platform before a
// quote request reaches this service.
type Address struct {
	Address1 string `json:"address_1"`
	Address2 string `json:"address_2"`
	City     string `json:"city"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

// IsZero reports whether every address field is empty.
func (a Address) IsZero() bool {
	return a == Address{}
}

// LocationString joins the non-empty address parts, most specific first, into
// the formatted string the distance API geocodes.
func (a Address) LocationString() string {
	parts := make([]string, 0, 6)
	for _, part := range []string{a.Address1, a.Address2, a.City, a.State, a.Postcode, a.Country} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, strings.TrimSpace(part))
		}
	}
	return strings.Join(parts, ",")
}
