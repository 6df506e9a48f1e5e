// Package payroll estimates the monthly take-home pay of a salaried employee
// after the four social insurances and withholding income tax.
//
// The rates and the income-tax schedule are a simplified approximation of the
// statutory withholding table and are kept verbatim in Schedule. They are not
// meant to be tax-law accurate.
package payroll

import (
	"fmt"

	"github.com/iwvelando/dream-calc/pkg/constants"
	"github.com/iwvelando/dream-calc/pkg/mathutil"
	"github.com/iwvelando/dream-calc/pkg/validation"
)

// Salary periods.
const (
	PeriodYear  = "year"
	PeriodMonth = "month"
)

// NonTaxable holds the monthly allowances excluded from the taxable base.
type NonTaxable struct {
	Meal      float64 `json:"meal"`
	Car       float64 `json:"car"`
	Childcare float64 `json:"childcare"`
	Research  float64 `json:"research"`
}

// Total returns the sum of all allowances.
func (n NonTaxable) Total() float64 {
	return n.Meal + n.Car + n.Childcare + n.Research
}

// Input holds the salary terms of one employee.
type Input struct {
	GrossAmount                 float64    `json:"grossAmount"`
	Period                      string     `json:"period"`
	NonTaxable                  NonTaxable `json:"nonTaxable"`
	DependentCountIncludingSelf int        `json:"dependents"`
	ChildDependentCount         int        `json:"children"`
}

// Result holds the monthly breakdown. Every deduction line is a multiple of
// ten won; the gross, taxable and net amounts are not rounded.
type Result struct {
	MonthlyGross        float64 `json:"monthlyGross"`
	NonTaxableTotal     float64 `json:"nonTaxableTotal"`
	TaxableIncome       float64 `json:"taxableIncome"`
	Pension             float64 `json:"pension"`
	Health              float64 `json:"health"`
	LongTermCare        float64 `json:"longTermCare"`
	EmploymentInsurance float64 `json:"employmentInsurance"`
	IncomeTax           float64 `json:"incomeTax"`
	LocalTax            float64 `json:"localTax"`
	TotalDeductions     float64 `json:"totalDeductions"`
	NetPay              float64 `json:"netPay"`
}

// Validate checks the input against its domain.
func (in Input) Validate() error {
	if in.Period != PeriodYear && in.Period != PeriodMonth {
		return fmt.Errorf("%w: period must be %q or %q, got %q", validation.ErrInvalidInput, PeriodYear, PeriodMonth, in.Period)
	}
	return validation.FirstError(
		validation.RequireNonNegative("gross amount", in.GrossAmount),
		validation.RequireNonNegative("meal allowance", in.NonTaxable.Meal),
		validation.RequireNonNegative("car allowance", in.NonTaxable.Car),
		validation.RequireNonNegative("childcare allowance", in.NonTaxable.Childcare),
		validation.RequireNonNegative("research allowance", in.NonTaxable.Research),
		validation.RequireMinInt("dependents including self", in.DependentCountIncludingSelf, 1),
		validation.RequireMinInt("child dependents", in.ChildDependentCount, 0),
	)
}

// MonthlyGross converts the gross amount into a monthly figure.
func (in Input) MonthlyGross() float64 {
	if in.Period == PeriodYear {
		return in.GrossAmount / constants.MonthsPerYear
	}
	return in.GrossAmount
}

// CalculateSalary computes the monthly deductions and net pay. Net pay is not
// clamped and can go negative when allowances and deductions exceed the gross.
func CalculateSalary(in Input, schedule Schedule) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	monthlyGross := in.MonthlyGross()
	nonTaxable := in.NonTaxable.Total()
	taxable := mathutil.Max(0, monthlyGross-nonTaxable)

	pension := mathutil.TruncateToTen(mathutil.Min(taxable, schedule.PensionBaseCap) * schedule.PensionRate)
	health := mathutil.TruncateToTen(taxable * schedule.HealthRate)
	care := mathutil.TruncateToTen(health * schedule.LongTermCareRate)
	employment := mathutil.TruncateToTen(taxable * schedule.EmploymentRate)

	incomeTax := schedule.IncomeTax(schedule.IncomeBase(taxable, in.DependentCountIncludingSelf, in.ChildDependentCount))
	localTax := mathutil.TruncateToTen(incomeTax * schedule.LocalTaxRate)

	total := pension + health + care + employment + incomeTax + localTax

	return Result{
		MonthlyGross:        monthlyGross,
		NonTaxableTotal:     nonTaxable,
		TaxableIncome:       taxable,
		Pension:             pension,
		Health:              health,
		LongTermCare:        care,
		EmploymentInsurance: employment,
		IncomeTax:           incomeTax,
		LocalTax:            localTax,
		TotalDeductions:     total,
		NetPay:              monthlyGross - total,
	}, nil
}
