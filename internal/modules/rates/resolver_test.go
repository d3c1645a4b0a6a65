package rates

import (
	"errors"
	"math"
	"testing"

	"distance-shipping/internal/models"
)

func binTable() models.RateTable {
	return models.RateTable{
		{MaxDistance: 10, RateType: models.RateFixed, ClassRates: map[int]float64{0: 1}, TotalCostType: models.FlatHighest},
		{MaxDistance: 25, RateType: models.RateFixed, ClassRates: map[int]float64{0: 2}, TotalCostType: models.FlatHighest},
		{MaxDistance: 50, RateType: models.RateFixed, ClassRates: map[int]float64{0: 3}, TotalCostType: models.FlatHighest},
	}
}

func TestFindRule(t *testing.T) {
	table := binTable()

	cases := []struct {
		dist     float64
		wantRate float64
	}{
		{0.1, 1},
		{10, 1},
		{10.01, 2},
		{25, 2},
		{25.5, 3},
		{50, 3},
	}

	for _, tc := range cases {
		rule, err := FindRule(tc.dist, models.UnitMetric, table)
		if err != nil {
			t.Errorf("FindRule(%v): %v", tc.dist, err)
			continue
		}
		if rule.ClassRates[0] != tc.wantRate {
			t.Errorf("FindRule(%v) matched rate %v, want %v", tc.dist, rule.ClassRates[0], tc.wantRate)
		}
	}
}

func TestFindRuleNoMatch(t *testing.T) {
	table := binTable()

	for _, dist := range []float64{0, 50.01, 1000} {
		_, err := FindRule(dist, models.UnitMetric, table)
		var noMatch *models.NoMatchError
		if !errors.As(err, &noMatch) {
			t.Errorf("FindRule(%v) error = %v, want *models.NoMatchError", dist, err)
		}
	}

	_, err := FindRule(5, models.UnitImperial, nil)
	var noMatch *models.NoMatchError
	if !errors.As(err, &noMatch) {
		t.Fatalf("empty table error = %v, want *models.NoMatchError", err)
	}
	if noMatch.Unit != models.UnitImperial {
		t.Errorf("NoMatchError.Unit = %q, want the query unit", noMatch.Unit)
	}
}

func threeItemPackage() models.Package {
	return models.Package{Items: []models.PackageItem{
		{ProductID: "a", ShippingClassID: 0, Quantity: 2, UnitPrice: 10},
		{ProductID: "b", ShippingClassID: 0, Quantity: 2, UnitPrice: 10},
		{ProductID: "c", ShippingClassID: 0, Quantity: 2, UnitPrice: 10},
	}}
}

func TestComputeCostPerItemFixed(t *testing.T) {
	rule := models.RateRule{
		RateType:      models.RateFixed,
		ClassRates:    map[int]float64{0: 10},
		Surcharge:     5,
		TotalCostType: models.ProgressivePerItem,
	}

	breakdown, err := ComputeCost(rule, threeItemPackage(), 4, false, ResolveOptions{})
	if err != nil {
		t.Fatalf("ComputeCost: %v", err)
	}
	if breakdown.Total != 65 {
		t.Errorf("Total = %v, want 65 (10 per item, 6 items, 5 surcharge)", breakdown.Total)
	}
}

func TestComputeCostPerItemFlexible(t *testing.T) {
	rule := models.RateRule{
		RateType:      models.RateFlexible,
		ClassRates:    map[int]float64{0: 10},
		Surcharge:     5,
		TotalCostType: models.ProgressivePerItem,
	}

	breakdown, err := ComputeCost(rule, threeItemPackage(), 4, false, ResolveOptions{})
	if err != nil {
		t.Fatalf("ComputeCost: %v", err)
	}
	if breakdown.Total != 245 {
		t.Errorf("Total = %v, want 245 (40 per item over 4 units of distance, 6 items, 5 surcharge)", breakdown.Total)
	}
}

func mixedClassPackage() models.Package {
	return models.Package{Items: []models.PackageItem{
		{ProductID: "a", ShippingClassID: 1, Quantity: 1, UnitPrice: 10},
		{ProductID: "b", ShippingClassID: 2, Quantity: 1, UnitPrice: 10},
	}}
}

func TestComputeCostFlatStrategies(t *testing.T) {
	rule := models.RateRule{
		RateType:   models.RateFixed,
		ClassRates: map[int]float64{0: 10, 1: 20},
	}

	cases := []struct {
		costType models.TotalCostType
		want     float64
	}{
		{models.FlatHighest, 20},
		{models.FlatLowest, 10},
		{models.FlatAverage, 15},
	}

	for _, tc := range cases {
		rule.TotalCostType = tc.costType
		breakdown, err := ComputeCost(rule, mixedClassPackage(), 4, false, ResolveOptions{})
		if err != nil {
			t.Fatalf("ComputeCost(%s): %v", tc.costType, err)
		}
		if breakdown.Total != tc.want {
			t.Errorf("ComputeCost(%s).Total = %v, want %v", tc.costType, breakdown.Total, tc.want)
		}
	}
}

func TestComputeCostProgressiveStrategies(t *testing.T) {
	rule := models.RateRule{
		RateType:   models.RateFixed,
		ClassRates: map[int]float64{0: 10, 1: 20},
	}

	rule.TotalCostType = models.ProgressivePerClass
	breakdown, err := ComputeCost(rule, mixedClassPackage(), 4, false, ResolveOptions{})
	if err != nil {
		t.Fatalf("ComputeCost: %v", err)
	}
	if breakdown.Total != 30 {
		t.Errorf("per class Total = %v, want 30 (20 for class 1, 10 for class 2)", breakdown.Total)
	}

	pkg := models.Package{Items: []models.PackageItem{
		{ProductID: "a", ShippingClassID: 1, Quantity: 3, UnitPrice: 10},
		{ProductID: "b", ShippingClassID: 1, Quantity: 1, UnitPrice: 10},
	}}
	rule.TotalCostType = models.ProgressivePerProduct
	breakdown, err = ComputeCost(rule, pkg, 4, false, ResolveOptions{})
	if err != nil {
		t.Fatalf("ComputeCost: %v", err)
	}
	if breakdown.Total != 40 {
		t.Errorf("per product Total = %v, want 40 (20 per distinct product)", breakdown.Total)
	}
}

func TestComputeCostClassFallback(t *testing.T) {
	rule := models.RateRule{
		RateType:      models.RateFixed,
		ClassRates:    map[int]float64{0: 10, 1: 0},
		TotalCostType: models.FlatHighest,
	}
	pkg := models.Package{Items: []models.PackageItem{
		{ProductID: "a", ShippingClassID: 1, Quantity: 1, UnitPrice: 10},
		{ProductID: "b", ShippingClassID: 7, Quantity: 1, UnitPrice: 10},
	}}

	breakdown, err := ComputeCost(rule, pkg, 4, false, ResolveOptions{})
	if err != nil {
		t.Fatalf("ComputeCost: %v", err)
	}
	if breakdown.PerClass[1] != 10 {
		t.Errorf("zero class rate did not fall back to class 0: %v", breakdown.PerClass[1])
	}
	if breakdown.PerClass[7] != 10 {
		t.Errorf("unknown class did not fall back to class 0: %v", breakdown.PerClass[7])
	}
}

func TestComputeCostFormulaGating(t *testing.T) {
	rule := models.RateRule{
		RateType:      models.RateFixed,
		ClassRates:    map[int]float64{0: 10},
		Surcharge:     2,
		TotalCostType: models.TotalCostFormula,
	}
	pkg := threeItemPackage()

	evaluator := func(rule models.RateRule, pkg models.Package, dist float64) (float64, error) {
		return dist * 7, nil
	}

	if _, err := ComputeCost(rule, pkg, 4, false, ResolveOptions{FormulaEvaluator: evaluator}); !errors.Is(err, models.ErrFeatureGated) {
		t.Errorf("formula without pro license: error = %v, want ErrFeatureGated", err)
	}
	if _, err := ComputeCost(rule, pkg, 4, true, ResolveOptions{}); !errors.Is(err, models.ErrFeatureGated) {
		t.Errorf("formula without evaluator: error = %v, want ErrFeatureGated", err)
	}

	breakdown, err := ComputeCost(rule, pkg, 4, true, ResolveOptions{FormulaEvaluator: evaluator})
	if err != nil {
		t.Fatalf("ComputeCost: %v", err)
	}
	if breakdown.Total != 30 {
		t.Errorf("Total = %v, want 30 (evaluated 28 plus surcharge 2)", breakdown.Total)
	}
}

func TestComputeCostOverride(t *testing.T) {
	rule := models.RateRule{
		RateType:      models.RateFixed,
		ClassRates:    map[int]float64{0: 10},
		Surcharge:     5,
		TotalCostType: models.ProgressivePerItem,
	}

	opts := ResolveOptions{CostOverride: func(rule models.RateRule, dist float64) (float64, bool) {
		return 100, true
	}}
	breakdown, err := ComputeCost(rule, threeItemPackage(), 4, false, opts)
	if err != nil {
		t.Fatalf("ComputeCost: %v", err)
	}
	if breakdown.Total != 105 {
		t.Errorf("Total = %v, want the override plus surcharge 105", breakdown.Total)
	}

	opts.CostOverride = func(rule models.RateRule, dist float64) (float64, bool) { return 0, false }
	breakdown, err = ComputeCost(rule, threeItemPackage(), 4, false, opts)
	if err != nil {
		t.Fatalf("ComputeCost: %v", err)
	}
	if breakdown.Total != 65 {
		t.Errorf("declined override changed the computed total: %v", breakdown.Total)
	}
}

func TestComputeCostEmptyPackage(t *testing.T) {
	rule := models.RateRule{
		RateType:      models.RateFixed,
		ClassRates:    map[int]float64{0: 10},
		Surcharge:     3,
		TotalCostType: models.FlatAverage,
	}

	breakdown, err := ComputeCost(rule, models.Package{}, 4, false, ResolveOptions{})
	if err != nil {
		t.Fatalf("ComputeCost: %v", err)
	}
	if math.IsNaN(breakdown.Total) {
		t.Fatal("empty package produced NaN")
	}
	if breakdown.Total != 3 {
		t.Errorf("Total = %v, want just the surcharge", breakdown.Total)
	}
}
