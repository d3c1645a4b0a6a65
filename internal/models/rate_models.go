package models

import "time"

// RateType determines whether a class rate is charged flat or multiplied by
// the travelled distance.
type RateType string

const (
	RateFixed    RateType = "fixed"
	RateFlexible RateType = "flexible"
)

// TotalCostType determines how per-item unit costs are aggregated into the
// order total.
type TotalCostType string

const (
	FlatHighest           TotalCostType = "flat__highest"
	FlatAverage           TotalCostType = "flat__average"
	FlatLowest            TotalCostType = "flat__lowest"
	ProgressivePerClass   TotalCostType = "progressive__per_shipping_class"
	ProgressivePerProduct TotalCostType = "progressive__per_product"
	ProgressivePerItem    TotalCostType = "progressive__per_item"
	TotalCostFormula      TotalCostType = "formula"
)

// RawRateRow is one rate table row exactly as submitted by the settings
// form: field name to string value.
type RawRateRow map[string]string

// RuleKey is the identity tuple of a rate rule. Two rows with an equal key
// describe the same rule and may not coexist in one table. Sorting is
// lexicographic in field declaration order, MaxDistance first.
type RuleKey struct {
	MaxDistance      float64
	MinOrderQuantity int
	MaxOrderQuantity int
	MinOrderAmount   float64
	MaxOrderAmount   float64
}

// Less orders keys lexicographically with MaxDistance taking precedence.
func (k RuleKey) Less(other RuleKey) bool {
	if k.MaxDistance != other.MaxDistance {
		return k.MaxDistance < other.MaxDistance
	}
	if k.MinOrderQuantity != other.MinOrderQuantity {
		return k.MinOrderQuantity < other.MinOrderQuantity
	}
	if k.MaxOrderQuantity != other.MaxOrderQuantity {
		return k.MaxOrderQuantity < other.MaxOrderQuantity
	}
	if k.MinOrderAmount != other.MinOrderAmount {
		return k.MinOrderAmount < other.MinOrderAmount
	}
	return k.MaxOrderAmount < other.MaxOrderAmount
}

// RateRule is one validated row of the rate table. MaxDistance is the upper
// bound of a half-open distance bin; the order quantity/amount bounds take
// part in the rule identity (zero means unset). ClassRates maps shipping
// class id to a monetary rate, with class 0 as the default rate.
type RateRule struct {
	MaxDistance      float64         `json:"max_distance" validate:"gt=0"`
	MinOrderQuantity int             `json:"min_order_quantity" validate:"min=0"`
	MaxOrderQuantity int             `json:"max_order_quantity" validate:"min=0"`
	MinOrderAmount   float64         `json:"min_order_amount" validate:"min=0"`
	MaxOrderAmount   float64         `json:"max_order_amount" validate:"min=0"`
	RateType         RateType        `json:"rate_type" validate:"oneof=fixed flexible"`
	ClassRates       map[int]float64 `json:"class_rates" validate:"required"`
	Surcharge        float64         `json:"surcharge" validate:"min=0"`
	TotalCostType    TotalCostType   `json:"total_cost_type" validate:"oneof=flat__highest flat__average flat__lowest progressive__per_shipping_class progressive__per_product progressive__per_item formula"`
	ShippingLabel    string          `json:"shipping_label"`
}

// Key returns the rule identity tuple.
func (r RateRule) Key() RuleKey {
	return RuleKey{
		MaxDistance:      r.MaxDistance,
		MinOrderQuantity: r.MinOrderQuantity,
		MaxOrderQuantity: r.MaxOrderQuantity,
		MinOrderAmount:   r.MinOrderAmount,
		MaxOrderAmount:   r.MaxOrderAmount,
	}
}

// RateTable is a canonically sorted sequence of rate rules. It is rebuilt in
// full on every settings save and read-only at calculation time.
type RateTable []RateRule

// CostBreakdown is the result of applying a rate rule to a package.
type CostBreakdown struct {
	Total      float64            `json:"total"`
	PerClass   map[int]float64    `json:"per_class"`
	PerProduct map[string]float64 `json:"per_product"`
	Label      string             `json:"label,omitempty"`
}

// Quote is the rate record handed back to the order platform to register as
// a shipping rate line item.
type Quote struct {
	ID        string         `json:"id"`
	Label     string         `json:"label"`
	Cost      float64        `json:"cost"`
	Breakdown CostBreakdown  `json:"breakdown"`
	Distance  DistanceResult `json:"distance"`
	CreatedAt time.Time      `json:"created_at"`
}

// QuoteRequest is the payload the order platform submits to obtain a
// shipping quote. The destination coordinate is optional and only honored
// when the address picker is enabled.
type QuoteRequest struct {
	Destination           Address       `json:"destination"`
	DestinationCoordinate *Coordinate   `json:"destination_coordinate,omitempty"`
	Items                 []PackageItem `json:"items" validate:"required,min=1,dive"`
}

// RateTableRequest is the payload of a settings save: the raw table rows to
// validate and persist as the new table.
type RateTableRequest struct {
	Rows []RawRateRow `json:"rows" validate:"required,min=1"`
}
