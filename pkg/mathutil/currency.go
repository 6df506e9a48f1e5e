// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/dream-calc/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent foreign currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// TruncateToUnit truncates an amount down to the nearest multiple of unit,
// i.e. floor(val/unit)*unit on the raw product. A product that lands just
// below a multiple, such as 12059.999999999998, truncates to the lower one.
func TruncateToUnit(val float64, unit int64) float64 {
	if unit <= 0 || !IsFinite(val) {
		return val
	}
	u := float64(unit)
	return math.Floor(val/u) * u
}

// TruncateToTen truncates an amount down to the nearest 10 won.
func TruncateToTen(val float64) float64 {
	return TruncateToUnit(val, constants.TruncationUnit)
}

// IsFinite reports whether val is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Min returns the minimum of two float64 values
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// PercentToDecimal converts a percentage such as 3.5 into 0.035.
func PercentToDecimal(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}
