// Package format renders amounts the way the calculators present them: whole
// won, ko-KR digit grouping, and a currency symbol or 원 suffix.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WonSuffix is appended to won amounts.
const WonSuffix = "원"

var printer = message.NewPrinter(language.Korean)

// maxPrinted is the largest magnitude the printer can take as an int64.
var maxPrinted = decimal.NewFromInt(math.MaxInt64)

// Number floors value to an integer and groups its digits (e.g. "2,085,600").
// NaN and infinite values render as "0".
func Number(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "0"
	}
	floored := decimal.NewFromFloat(value).Floor()
	if floored.Abs().LessThanOrEqual(maxPrinted) {
		return printer.Sprintf("%d", floored.IntPart())
	}
	if floored.IsNegative() {
		return "-" + groupDigits(floored.Neg().String())
	}
	return groupDigits(floored.String())
}

// KRW renders a won amount (e.g. "2,085,600원").
func KRW(value float64) string {
	return Number(value) + WonSuffix
}

// Foreign renders a foreign amount behind its symbol (e.g. "$1,000").
func Foreign(symbol string, value float64) string {
	return symbol + Number(value)
}

// Percent renders a percentage without trailing zeros (e.g. "3.5%").
func Percent(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64) + "%"
}

// Fixed returns value with two decimals and separators (e.g. "-1,234.56"),
// for exports that keep sub-won precision.
func Fixed(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	return sign + formatPositive(math.Abs(amount))
}

func formatPositive(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	return groupDigits(intPart) + "." + decPart
}

// groupDigits inserts a comma every three digits of an unsigned integer string.
func groupDigits(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var builder strings.Builder
	for i, digit := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(digit)
	}
	return builder.String()
}
