// Package savings projects the maturity value of a deposit after the interest
// withholding tax.
package savings

import (
	"fmt"
	"math"

	"github.com/iwvelando/dream-calc/pkg/constants"
	"github.com/iwvelando/dream-calc/pkg/mathutil"
	"github.com/iwvelando/dream-calc/pkg/validation"
)

// Compounding modes.
const (
	Simple          = "simple"
	MonthlyCompound = "monthly-compound"
)

// Input holds the deposit terms.
type Input struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	TermMonths        int     `json:"termMonths"`
	Compounding       string  `json:"compounding"`
}

// Params holds the tax applied to interest income.
type Params struct {
	InterestTaxRate float64
}

// DefaultParams returns the 15.4% interest withholding rate.
func DefaultParams() Params {
	return Params{InterestTaxRate: constants.InterestTaxRate}
}

// Result holds the pre-tax interest, the withheld tax and the amount paid out
// at maturity.
type Result struct {
	Interest float64 `json:"interest"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Validate checks the input against its domain.
func (in Input) Validate() error {
	if in.Compounding != Simple && in.Compounding != MonthlyCompound {
		return fmt.Errorf("%w: compounding must be %q or %q, got %q",
			validation.ErrInvalidInput, Simple, MonthlyCompound, in.Compounding)
	}
	return validation.FirstError(
		validation.RequireNonNegative("principal", in.Principal),
		validation.RequireNonNegative("annual rate", in.AnnualRatePercent),
		validation.RequireMinInt("term months", in.TermMonths, 1),
		validation.RequireMaxInt("term months", in.TermMonths, constants.MaxTermMonths),
	)
}

// CalculateSavings computes simple or monthly compound interest over the term
// and applies the withholding tax to it.
func CalculateSavings(in Input, params Params) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	r := mathutil.PercentToDecimal(in.AnnualRatePercent)
	months := float64(in.TermMonths)

	var interest float64
	switch in.Compounding {
	case Simple:
		interest = in.Principal * r * (months / constants.MonthsPerYear)
	case MonthlyCompound:
		interest = in.Principal*math.Pow(1+r/constants.MonthsPerYear, months) - in.Principal
	}

	tax := interest * params.InterestTaxRate
	return Result{
		Interest: interest,
		Tax:      tax,
		Total:    in.Principal + (interest - tax),
	}, nil
}
