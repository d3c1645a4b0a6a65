package rates

import (
	"distance-shipping/internal/models"
)

// ResolveOptions carries the typed extension points of cost computation.
// Both hooks are optional.
type ResolveOptions struct {
	// CostOverride, when set and returning true, replaces the aggregated
	// cost of the matched rule before the surcharge is added.
	CostOverride func(rule models.RateRule, dist float64) (float64, bool)

	// FormulaEvaluator computes the total for rules with the "formula"
	// total cost type. Without it (or without the pro license) such rules
	// fail with ErrFeatureGated.
	FormulaEvaluator func(rule models.RateRule, pkg models.Package, dist float64) (float64, error)
}

// FindRule scans the sorted table for the distance bin containing dist. The
// table partitions the distance axis into ascending half-open intervals
// bounded by each row's MaxDistance; the running offset starts at zero and
// advances to the row's bound after every row, matched or not. Only
// MaxDistance takes part in the scan even though the rule identity carries
// order quantity/amount bounds as well.
func FindRule(dist float64, unit models.DistanceUnit, table models.RateTable) (models.RateRule, error) {
	offset := 0.0
	for _, rule := range table {
		if dist > offset && dist <= rule.MaxDistance {
			return rule, nil
		}
		offset = rule.MaxDistance
	}
	return models.RateRule{}, &models.NoMatchError{Distance: dist, Unit: unit}
}

// ComputeCost applies a matched rule to the package contents and returns the
// monetary breakdown. Flexible rates are multiplied by the travelled
// distance; the aggregation strategy is the rule's total cost type; the
// rule surcharge is a flat addition on top.
func ComputeCost(rule models.RateRule, pkg models.Package, dist float64, pro bool, opts ResolveOptions) (models.CostBreakdown, error) {
	if opts.CostOverride != nil {
		if cost, ok := opts.CostOverride(rule, dist); ok {
			return models.CostBreakdown{
				Total: cost + rule.Surcharge,
				Label: rule.ShippingLabel,
			}, nil
		}
	}

	perClass := make(map[int]float64)
	perProduct := make(map[string]float64)
	for _, item := range pkg.Items {
		cost := unitCost(rule, item.ShippingClassID, dist)
		perClass[item.ShippingClassID] = cost
		perProduct[item.ProductID] = cost
	}

	var total float64
	switch rule.TotalCostType {
	case models.FlatHighest:
		for _, cost := range perClass {
			if cost > total {
				total = cost
			}
		}
	case models.FlatAverage:
		if len(perClass) > 0 {
			sum := 0.0
			for _, cost := range perClass {
				sum += cost
			}
			total = sum / float64(len(perClass))
		}
	case models.FlatLowest:
		first := true
		for _, cost := range perClass {
			if first || cost < total {
				total = cost
				first = false
			}
		}
	case models.ProgressivePerClass:
		for _, cost := range perClass {
			total += cost
		}
	case models.ProgressivePerProduct:
		for _, cost := range perProduct {
			total += cost
		}
	case models.ProgressivePerItem:
		for _, item := range pkg.Items {
			total += unitCost(rule, item.ShippingClassID, dist) * float64(item.Quantity)
		}
	case models.TotalCostFormula:
		if !pro || opts.FormulaEvaluator == nil {
			return models.CostBreakdown{}, models.ErrFeatureGated
		}
		evaluated, err := opts.FormulaEvaluator(rule, pkg, dist)
		if err != nil {
			return models.CostBreakdown{}, err
		}
		total = evaluated
	}

	return models.CostBreakdown{
		Total:      total + rule.Surcharge,
		PerClass:   perClass,
		PerProduct: perProduct,
		Label:      rule.ShippingLabel,
	}, nil
}

// unitCost resolves the effective per-unit cost of a shipping class: the
// class's own rate when the rule defines one, the default class 0 rate
// otherwise. Flexible rules charge per distance unit.
func unitCost(rule models.RateRule, classID int, dist float64) float64 {
	rate, ok := rule.ClassRates[classID]
	if !ok || rate == 0 {
		rate = rule.ClassRates[0]
	}
	if rule.RateType == models.RateFlexible {
		rate *= dist
	}
	return rate
}
