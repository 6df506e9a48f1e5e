// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/dream-calc/pkg/constants"
)

const (
	// RateTimestampLayout is the layout of the rate source's update timestamp.
	RateTimestampLayout = constants.RateTimestampLayout

	// DisplayDateLayout is the date format used for presenting updates.
	DisplayDateLayout = constants.DisplayDateLayout
)

// fallbackLayouts are tried after RateTimestampLayout.
var fallbackLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
}

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseRateTimestamp parses the time_last_update_utc value of the rate source
// and returns it in UTC.
func ParseRateTimestamp(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty rate timestamp")
	}

	t, err := time.Parse(RateTimestampLayout, trimmed)
	if err == nil {
		return t.UTC(), nil
	}
	for _, layout := range fallbackLayouts {
		if parsed, layoutErr := time.Parse(layout, trimmed); layoutErr == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse rate timestamp %q: %w", value, err)
}

// FormatDate formats a timestamp for display, or returns an empty string for
// nil, which stands for "no live update".
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DisplayDateLayout)
}
