package models

import "time"

// MethodSettings is the immutable configuration of one shipping method
// instance. A copy is passed into every calculation call; nothing mutates it
// after construction.
type MethodSettings struct {
	ShippingLabel       string
	APIKey              string
	Origin              Coordinate
	TravelMode          TravelMode
	RouteRestriction    RouteRestriction
	DistanceUnit        DistanceUnit
	PreferredRoute      PreferredRoute
	RoundUpDistance     bool
	ShowDistance        bool
	EnableAddressPicker bool
	Language            string
	DebugMode           bool
	ProLicense          bool
	CacheTTL            time.Duration
}
