package validation

import (
	"errors"
	"fmt"

	"github.com/iwvelando/dream-calc/pkg/mathutil"
)

var (
	// ErrInvalidInput marks an out-of-domain input such as a zero-length loan
	// term or a negative principal.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNonFinite marks a NaN or infinite input, typically produced by
	// malformed numeric text upstream of the calculators.
	ErrNonFinite = errors.New("non-finite input")

	// ErrRateFetch marks a failed live exchange-rate fetch. It is recovered by
	// the resolver and never returned to callers.
	ErrRateFetch = errors.New("exchange rate fetch failed")
)

// RequireFinite rejects NaN and infinite values.
func RequireFinite(field string, value float64) error {
	if !mathutil.IsFinite(value) {
		return fmt.Errorf("%w: %s is %v", ErrNonFinite, field, value)
	}
	return nil
}

// RequireNonNegative rejects non-finite and negative values.
func RequireNonNegative(field string, value float64) error {
	if err := RequireFinite(field, value); err != nil {
		return err
	}
	if value < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidInput, field, value)
	}
	return nil
}

// RequirePositive rejects non-finite values and values not strictly above zero.
func RequirePositive(field string, value float64) error {
	if err := RequireFinite(field, value); err != nil {
		return err
	}
	if value <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidInput, field, value)
	}
	return nil
}

// RequireRange rejects non-finite values and values outside [min, max].
func RequireRange(field string, value, min, max float64) error {
	if err := RequireFinite(field, value); err != nil {
		return err
	}
	if value < min || value > max {
		return fmt.Errorf("%w: %s must be between %v and %v, got %v", ErrInvalidInput, field, min, max, value)
	}
	return nil
}

// RequireMinInt rejects integers below min.
func RequireMinInt(field string, value, min int) error {
	if value < min {
		return fmt.Errorf("%w: %s must be at least %d, got %d", ErrInvalidInput, field, min, value)
	}
	return nil
}

// RequireMaxInt rejects integers above max.
func RequireMaxInt(field string, value, max int) error {
	if value > max {
		return fmt.Errorf("%w: %s must be at most %d, got %d", ErrInvalidInput, field, max, value)
	}
	return nil
}

// FirstError returns the first non-nil error, which keeps the field checks of
// an input record on one readable line each.
func FirstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
