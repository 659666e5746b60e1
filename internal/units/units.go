// Package units converts between raw gram weights and named catalog portion
// units.
package units

import (
	"math"

	"github.com/mkowalik/dailybite/internal/domain"
)

// Round2 rounds to two decimal places, the precision quantities are displayed
// and stored with.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ToGrams converts a quantity value in the given unit to grams. A nil unit
// means the value already is grams.
func ToGrams(value float64, unit *domain.Unit) float64 {
	if unit == nil {
		return value
	}
	return value * unit.Grams
}

// QuantityGrams converts a tagged quantity to grams.
func QuantityGrams(q domain.Quantity) float64 {
	return ToGrams(q.Value, q.Unit)
}

// Convert re-expresses a quantity given in one unit as a value in another
// unit, preserving the total gram weight up to two-decimal rounding. A nil
// unit on either side means grams.
//
// Each conversion rounds to what the user sees, so chaining conversions can
// accumulate small drift. That is a known property of the stored rounded
// values, not something to correct here by carrying an unrounded accumulator.
func Convert(value float64, from, to *domain.Unit) float64 {
	totalGrams := ToGrams(value, from)
	divisor := 1.0
	if to != nil {
		divisor = to.Grams
	}
	return Round2(totalGrams / divisor)
}
