package payroll

import (
	"fmt"

	"github.com/iwvelando/dream-calc/pkg/mathutil"
	"github.com/iwvelando/dream-calc/pkg/validation"
)

// Bracket is one step of the progressive income-tax schedule. A base amount at
// or below UpTo is taxed as Base + (base - Floor) * Rate. The last bracket has
// UpTo == 0 and applies to everything above the previous one.
type Bracket struct {
	UpTo  float64
	Floor float64
	Base  float64
	Rate  float64
}

// Schedule holds every rate and threshold of the payroll approximation.
type Schedule struct {
	PensionRate      float64
	PensionBaseCap   float64
	HealthRate       float64
	LongTermCareRate float64
	EmploymentRate   float64

	// BasicDeduction is subtracted from the taxable income before the
	// brackets apply; DependentDeduction is subtracted per additional
	// dependent and per child.
	BasicDeduction     float64
	DependentDeduction float64
	Brackets           []Bracket
	LocalTaxRate       float64
}

// DefaultSchedule returns the simplified rates the calculator ships with.
func DefaultSchedule() Schedule {
	return Schedule{
		PensionRate:        0.045,
		PensionBaseCap:     5900000,
		HealthRate:         0.03545,
		LongTermCareRate:   0.1295,
		EmploymentRate:     0.009,
		BasicDeduction:     1000000,
		DependentDeduction: 150000,
		Brackets: []Bracket{
			{UpTo: 1160000, Floor: 0, Base: 0, Rate: 0.06},
			{UpTo: 3800000, Floor: 1160000, Base: 70000, Rate: 0.15},
			{UpTo: 7300000, Floor: 3800000, Base: 470000, Rate: 0.24},
			{Floor: 7300000, Base: 1300000, Rate: 0.35},
		},
		LocalTaxRate: 0.1,
	}
}

// Validate checks that the schedule can produce non-negative deductions.
func (s Schedule) Validate() error {
	if len(s.Brackets) == 0 {
		return fmt.Errorf("%w: income tax schedule has no brackets", validation.ErrInvalidInput)
	}
	for i, b := range s.Brackets {
		if i < len(s.Brackets)-1 && b.UpTo <= 0 {
			return fmt.Errorf("%w: bracket %d needs an upper bound", validation.ErrInvalidInput, i)
		}
		if i > 0 && b.UpTo > 0 && b.UpTo <= s.Brackets[i-1].UpTo {
			return fmt.Errorf("%w: bracket %d upper bound must increase", validation.ErrInvalidInput, i)
		}
	}
	return validation.FirstError(
		validation.RequireNonNegative("pension rate", s.PensionRate),
		validation.RequireNonNegative("pension base cap", s.PensionBaseCap),
		validation.RequireNonNegative("health rate", s.HealthRate),
		validation.RequireNonNegative("long-term care rate", s.LongTermCareRate),
		validation.RequireNonNegative("employment rate", s.EmploymentRate),
		validation.RequireNonNegative("basic deduction", s.BasicDeduction),
		validation.RequireNonNegative("dependent deduction", s.DependentDeduction),
		validation.RequireNonNegative("local tax rate", s.LocalTaxRate),
	)
}

// IncomeBase returns the amount the brackets apply to.
func (s Schedule) IncomeBase(taxable float64, dependents, children int) float64 {
	factor := float64(dependents-1+children) * s.DependentDeduction
	return mathutil.Max(0, taxable-s.BasicDeduction-factor)
}

// IncomeTax applies the brackets to base and truncates to ten won.
func (s Schedule) IncomeTax(base float64) float64 {
	var tax float64
	for i, b := range s.Brackets {
		if b.UpTo == 0 || base <= b.UpTo || i == len(s.Brackets)-1 {
			tax = b.Base + (base-b.Floor)*b.Rate
			break
		}
	}
	return mathutil.Max(0, mathutil.TruncateToTen(tax))
}
