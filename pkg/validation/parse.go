package validation

import (
	"fmt"
	"strconv"
	"strings"
)

// amountSuffixes are unit markers users commonly type after an amount.
var amountSuffixes = []string{"원", "%", "개월", "시간", "일"}

// ParseAmount converts user-entered numeric text such as "1,000,000원" into a
// float64. Thousands separators, surrounding spaces and a trailing unit marker
// are ignored. Empty text parses as zero.
func ParseAmount(text string) (float64, error) {
	cleaned := strings.TrimSpace(text)
	for _, suffix := range amountSuffixes {
		cleaned = strings.TrimSuffix(cleaned, suffix)
	}
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, nil
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: cannot parse %q as a number", ErrNonFinite, text)
	}
	if err := RequireFinite("amount", value); err != nil {
		return 0, err
	}
	return value, nil
}

// ParseCount converts user-entered text into a whole count such as a number of
// months or dependents.
func ParseCount(text string) (int, error) {
	value, err := ParseAmount(text)
	if err != nil {
		return 0, err
	}
	if value != float64(int(value)) {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrInvalidInput, text)
	}
	return int(value), nil
}
