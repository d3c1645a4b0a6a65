package distance

import (
	"math"
	"regexp"
	"strconv"

	"distance-shipping/internal/models"
)

// Conversion factors from raw API meters to the configured unit.
const (
	kilometersPerMeter = 0.001
	milesPerMeter      = 0.000621371
)

// ToUnit converts raw meters to the configured unit, rounded to one decimal
// place half away from zero.
func ToUnit(meters float64, unit models.DistanceUnit) float64 {
	factor := kilometersPerMeter
	if unit == models.UnitImperial {
		factor = milesPerMeter
	}
	return math.Round(meters*factor*10) / 10
}

var numericRunes = regexp.MustCompile(`[0-9.,]`)

// RoundUp applies the round-up-distance policy: the distance is raised to
// the next integer and the display text keeps only its unit suffix.
func RoundUp(dist float64, text string) (float64, string) {
	rounded := math.Ceil(dist)
	suffix := numericRunes.ReplaceAllString(text, "")
	return rounded, strconv.FormatFloat(rounded, 'f', -1, 64) + suffix
}
