package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLocation is returned when the shipping origin or destination
	// is missing or could not be resolved to a usable location string.
	ErrInvalidLocation = errors.New("origin and destination must both be set")

	// ErrNoCandidates is returned when route selection is invoked with an
	// empty candidate list. This is not expected after response filtering.
	ErrNoCandidates = errors.New("no route candidates to choose from")

	// ErrEmptyTable is returned when zero rows survive rate table validation.
	ErrEmptyTable = errors.New("shipping rates table is empty")

	// ErrFeatureGated is returned when a feature that requires the pro
	// license is used without one.
	ErrFeatureGated = errors.New("feature is only available in the pro version")
)

// TransportError wraps a network-level failure while contacting the
// distance API: connection refused, DNS failure, timeout and the like.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("distance api request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError is returned when the distance API response body is
// empty or cannot be decoded as JSON.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("distance api response is malformed: %s", e.Reason)
}

// ProviderError is returned when the distance API answers with a top-level
// status other than OK.
type ProviderError struct {
	Status  string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("distance api response error: %s - %s", e.Status, e.Message)
	}
	return fmt.Sprintf("distance api response error: %s", e.Status)
}

// NoRouteError is returned when the response contained no usable route
// element. Status holds the first recognized per-element error code, or is
// empty when no known code was seen.
type NoRouteError struct {
	Status string
}

func (e *NoRouteError) Error() string {
	switch e.Status {
	case "NOT_FOUND":
		return "origin and/or destination of this pairing could not be geocoded"
	case "ZERO_RESULTS":
		return "no route could be found between the origin and destination"
	case "MAX_ROUTE_LENGTH_EXCEEDED":
		return "requested route is too long and cannot be processed"
	default:
		return "no results found"
	}
}

// NoMatchError is returned when a distance falls outside every bin of the
// rate table.
type NoMatchError struct {
	Distance float64
	Unit     DistanceUnit
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no shipping rates defined within distance range: %g %s", e.Distance, e.Unit.Suffix())
}

// FieldValidationError reports a single invalid rate table field. Row is
// 1-based so the message matches what the configurator sees in the form.
type FieldValidationError struct {
	Row     int
	Field   string
	Message string
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("table rates row %d: %s %s", e.Row, e.Field, e.Message)
}

// DuplicateRuleError reports a rate table row whose shipping rules
// combination collides with an earlier row.
type DuplicateRuleError struct {
	Row       int
	Conflicts string
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("shipping rules combination for each row must be unique, duplicate found at row %d: %s", e.Row, e.Conflicts)
}
