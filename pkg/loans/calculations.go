// Package loans provides equal-payment (annuity) loan calculations.
package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/dream-calc/pkg/constants"
	"github.com/iwvelando/dream-calc/pkg/mathutil"
	"github.com/iwvelando/dream-calc/pkg/validation"
	"go.uber.org/zap"
)

// Input holds the loan terms.
type Input struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	TermMonths        int     `json:"termMonths"`
}

// Result holds the installment and the totals over the whole term.
type Result struct {
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalPayment   float64 `json:"totalPayment"`
	TotalInterest  float64 `json:"totalInterest"`
}

// Payment holds the values for a given installment.
type Payment struct {
	Month              int     `json:"month"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

// Validate checks the input against its domain. A zero-month term is rejected
// here so the r = 0 branch never divides by zero.
func (in Input) Validate() error {
	return validation.FirstError(
		validation.RequireNonNegative("principal", in.Principal),
		validation.RequireNonNegative("annual rate", in.AnnualRatePercent),
		validation.RequireMinInt("term months", in.TermMonths, 1),
		validation.RequireMaxInt("term months", in.TermMonths, constants.MaxTermMonths),
	)
}

// MonthlyRate returns the periodic interest rate as a decimal.
func MonthlyRate(annualInterestRate float64) float64 {
	return annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the standard amortization formula.
func CalculateMonthlyPayment(principal, annualInterestRate float64, termMonths int) float64 {
	if annualInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return principal / float64(termMonths)
	}

	periodicInterestRate := MonthlyRate(annualInterestRate)
	power := math.Pow(1.00+periodicInterestRate, float64(termMonths))
	return principal * periodicInterestRate * power / (power - 1.00)
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * MonthlyRate(annualInterestRate)
}

// CalculateLoan returns the equal monthly installment with the total paid and
// the total interest over the term.
func CalculateLoan(in Input) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	monthly := CalculateMonthlyPayment(in.Principal, in.AnnualRatePercent, in.TermMonths)
	if !mathutil.IsFinite(monthly) {
		return Result{}, fmt.Errorf("%w: monthly payment is %v", validation.ErrNonFinite, monthly)
	}
	total := monthly * float64(in.TermMonths)

	return Result{
		MonthlyPayment: monthly,
		TotalPayment:   total,
		TotalInterest:  total - in.Principal,
	}, nil
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule splits every installment of the loan into its interest and
// principal portions. The last installment clears the remaining principal.
func (g *AmortizationScheduleGenerator) GenerateSchedule(in Input) ([]Payment, error) {
	result, err := CalculateLoan(in)
	if err != nil {
		return nil, err
	}

	schedule := make([]Payment, 0, in.TermMonths)
	remaining := in.Principal

	for month := 1; month <= in.TermMonths; month++ {
		var current Payment
		current.Month = month
		current.Payment = result.MonthlyPayment
		current.Interest = CalculateInterestPayment(remaining, in.AnnualRatePercent)
		current.Principal = result.MonthlyPayment - current.Interest

		if month == in.TermMonths || mathutil.Round(remaining-current.Principal) <= 0 {
			// We will get machine error otherwise so just set to 0.
			if !mathutil.IsZero(remaining - current.Principal) {
				g.logger.Debug(fmt.Sprintf("month %d: clearing residual principal %.2f", month, remaining-current.Principal),
					zap.String("op", "loans.GenerateSchedule"),
				)
			}
			current.Principal = remaining
			current.Payment = current.Principal + current.Interest
			current.RemainingPrincipal = 0.00
			schedule = append(schedule, current)
			break
		}

		remaining -= current.Principal
		current.RemainingPrincipal = remaining
		schedule = append(schedule, current)
	}

	return schedule, nil
}
