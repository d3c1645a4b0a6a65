package rates

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"distance-shipping/internal/models"

	"github.com/go-playground/validator/v10"
)

// fieldKind is the closed set of rate-row field validators. Dispatch happens
// on this tag, never on a field-type name string.
type fieldKind int

const (
	kindNumber fieldKind = iota
	kindSelect
	kindText
)

// ruleField describes one known rate-rule field and its constraints.
type ruleField struct {
	key          string
	title        string
	kind         fieldKind
	required     bool
	pro          bool
	integer      bool
	min          *float64
	minExclusive bool
	options      []string
	defaultValue string
}

func floatPtr(v float64) *float64 { return &v }

var baseRuleFields = []ruleField{
	{
		key:          "max_distance",
		title:        "Maximum Distances",
		kind:         kindNumber,
		required:     true,
		min:          floatPtr(0),
		minExclusive: true,
		defaultValue: "1",
	},
	{
		key:          "min_order_quantity",
		title:        "Minimum Order Quantity",
		kind:         kindNumber,
		pro:          true,
		integer:      true,
		min:          floatPtr(0),
		defaultValue: "0",
	},
	{
		key:          "max_order_quantity",
		title:        "Maximum Order Quantity",
		kind:         kindNumber,
		pro:          true,
		integer:      true,
		min:          floatPtr(0),
		defaultValue: "0",
	},
	{
		key:          "min_order_amount",
		title:        "Minimum Order Amount",
		kind:         kindNumber,
		pro:          true,
		min:          floatPtr(0),
		defaultValue: "0",
	},
	{
		key:          "max_order_amount",
		title:        "Maximum Order Amount",
		kind:         kindNumber,
		pro:          true,
		min:          floatPtr(0),
		defaultValue: "0",
	},
	{
		key:          "rate_type",
		title:        "Rate Type",
		kind:         kindSelect,
		required:     true,
		options:      []string{"fixed", "flexible"},
		defaultValue: "fixed",
	},
	{
		key:          "class_0",
		title:        "Shipping Rate",
		kind:         kindNumber,
		required:     true,
		min:          floatPtr(0),
		defaultValue: "0",
	},
	{
		key:          "surcharge",
		title:        "Surcharge",
		kind:         kindNumber,
		min:          floatPtr(0),
		defaultValue: "0",
	},
	{
		key:      "total_cost_type",
		title:    "Total Cost Type",
		kind:     kindSelect,
		required: true,
		options: []string{
			"flat__highest",
			"flat__average",
			"flat__lowest",
			"progressive__per_shipping_class",
			"progressive__per_product",
			"progressive__per_item",
			"formula",
		},
		defaultValue: "flat__highest",
	},
	{
		key:   "shipping_label",
		title: "Label",
		kind:  kindText,
	},
}

// Validator parses raw rate table rows into a canonical, sorted RateTable.
// It runs once per settings save and guarantees the resolver always works
// on a well-formed table.
type Validator struct {
	fields   []ruleField
	pro      bool
	validate *validator.Validate
}

// NewValidator creates a table validator. shippingClassIDs lists the
// platform's product shipping classes, each of which gets an optional
// per-class override rate field next to the default class_0 rate.
func NewValidator(shippingClassIDs []int, pro bool) *Validator {
	fields := make([]ruleField, 0, len(baseRuleFields)+len(shippingClassIDs))
	for _, f := range baseRuleFields {
		fields = append(fields, f)
		if f.key != "class_0" {
			continue
		}
		for _, classID := range shippingClassIDs {
			fields = append(fields, ruleField{
				key:   fmt.Sprintf("class_%d", classID),
				title: fmt.Sprintf("Shipping Class %d Rate", classID),
				kind:  kindNumber,
				min:   floatPtr(0),
			})
		}
	}

	return &Validator{
		fields:   fields,
		pro:      pro,
		validate: validator.New(),
	}
}

// Validate checks every raw row, drops invalid ones and returns the
// canonical table plus the full list of errors. Field errors never abort
// the pass: the configurator gets all problems reported at once.
func (v *Validator) Validate(rows []models.RawRateRow) (models.RateTable, []error) {
	var errs []error
	var table models.RateTable
	seen := make(map[models.RuleKey]struct{})

	for i, raw := range rows {
		rule, rowErrs := v.parseRow(i+1, raw)
		if len(rowErrs) > 0 {
			errs = append(errs, rowErrs...)
			continue
		}

		key := rule.Key()
		if _, dup := seen[key]; dup {
			errs = append(errs, &models.DuplicateRuleError{Row: i + 1, Conflicts: describeKey(key)})
			continue
		}
		seen[key] = struct{}{}
		table = append(table, rule)
	}

	if len(table) == 0 {
		errs = append(errs, models.ErrEmptyTable)
		return nil, errs
	}

	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Key().Less(table[j].Key())
	})

	return table, errs
}

// parseRow coerces and validates a single raw row. Every field error is
// collected; the row is only usable when the error list comes back empty.
func (v *Validator) parseRow(row int, raw models.RawRateRow) (models.RateRule, []error) {
	var errs []error
	rule := models.RateRule{ClassRates: make(map[int]float64)}

	for _, field := range v.fields {
		value := strings.TrimSpace(raw[field.key])
		if value == "" {
			value = field.defaultValue
		}

		if value == "" {
			if field.required {
				errs = append(errs, fieldError(row, field.title, "field is required"))
			}
			continue
		}

		if field.pro && !v.pro && value != field.defaultValue {
			errs = append(errs, fieldError(row, field.title, "field value is only changeable in the pro version"))
			continue
		}

		switch field.kind {
		case kindNumber:
			number, err := strconv.ParseFloat(value, 64)
			if err != nil {
				errs = append(errs, fieldError(row, field.title, "field value must be numeric"))
				continue
			}
			if field.integer && number != math.Trunc(number) {
				errs = append(errs, fieldError(row, field.title, "field value must be an integer"))
				continue
			}
			if field.min != nil {
				if field.minExclusive && number <= *field.min {
					errs = append(errs, fieldError(row, field.title, fmt.Sprintf("field value must be greater than %g", *field.min)))
					continue
				}
				if !field.minExclusive && number < *field.min {
					errs = append(errs, fieldError(row, field.title, fmt.Sprintf("field value cannot be lower than %g", *field.min)))
					continue
				}
			}
			assignNumber(&rule, field.key, number)

		case kindSelect:
			if !containsOption(field.options, value) {
				errs = append(errs, fieldError(row, field.title, "field value selected does not exist"))
				continue
			}
			if field.key == "total_cost_type" && value == "formula" && !v.pro {
				errs = append(errs, fieldError(row, field.title, `"formula" option is only available in the pro version`))
				continue
			}
			assignSelect(&rule, field.key, value)

		case kindText:
			rule.ShippingLabel = value
		}
	}

	if len(errs) > 0 {
		return models.RateRule{}, errs
	}

	if err := v.validate.Struct(rule); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fieldError(row, fe.Field(), fmt.Sprintf("field failed the %q constraint", fe.Tag())))
			}
		} else {
			errs = append(errs, fieldError(row, "row", err.Error()))
		}
		return models.RateRule{}, errs
	}

	return rule, nil
}

func assignNumber(rule *models.RateRule, key string, number float64) {
	switch key {
	case "max_distance":
		rule.MaxDistance = number
	case "min_order_quantity":
		rule.MinOrderQuantity = int(number)
	case "max_order_quantity":
		rule.MaxOrderQuantity = int(number)
	case "min_order_amount":
		rule.MinOrderAmount = number
	case "max_order_amount":
		rule.MaxOrderAmount = number
	case "surcharge":
		rule.Surcharge = number
	default:
		if classID, ok := classFieldID(key); ok {
			rule.ClassRates[classID] = number
		}
	}
}

func assignSelect(rule *models.RateRule, key, value string) {
	switch key {
	case "rate_type":
		rule.RateType = models.RateType(value)
	case "total_cost_type":
		rule.TotalCostType = models.TotalCostType(value)
	}
}

// classFieldID extracts N from a "class_N" field key.
func classFieldID(key string) (int, bool) {
	if !strings.HasPrefix(key, "class_") {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimPrefix(key, "class_"))
	if err != nil {
		return 0, false
	}
	return id, true
}

func containsOption(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}

func fieldError(row int, title, message string) *models.FieldValidationError {
	return &models.FieldValidationError{Row: row, Field: title, Message: message}
}

// describeKey names the conflicting rule values for duplicate reporting.
func describeKey(key models.RuleKey) string {
	return fmt.Sprintf(
		"Maximum Distances: %g, Minimum Order Quantity: %d, Maximum Order Quantity: %d, Minimum Order Amount: %g, Maximum Order Amount: %g",
		key.MaxDistance, key.MinOrderQuantity, key.MaxOrderQuantity, key.MinOrderAmount, key.MaxOrderAmount,
	)
}
