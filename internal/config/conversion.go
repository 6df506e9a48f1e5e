package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/dream-calc/pkg/constants"
	"github.com/iwvelando/dream-calc/pkg/exchange"
	"github.com/iwvelando/dream-calc/pkg/loans"
	"github.com/iwvelando/dream-calc/pkg/payroll"
	"github.com/iwvelando/dream-calc/pkg/savings"
	"github.com/iwvelando/dream-calc/pkg/validation"
	"github.com/iwvelando/dream-calc/pkg/wage"
)

// Defaults applied to fields a calculation leaves empty.
const (
	DefaultCurrency    = constants.CurrencyUSD
	DefaultTaxRate     = constants.TaxRateFreelance
	DefaultPeriod      = payroll.PeriodYear
	DefaultDependents  = 1
	DefaultCompounding = savings.Simple
)

// Kind returns the normalized calculation type.
func (c Calculation) Kind() string {
	return strings.ToLower(strings.TrimSpace(c.Type))
}

// Input parses the calculation into the typed input of its calculator: an
// exchange.ConversionInput, wage.Input, payroll.Input, savings.Input or
// loans.Input. The returned input has already passed its own validation.
func (c Calculation) Input() (any, error) {
	switch c.Kind() {
	case TypeExchange:
		return c.ConversionInput()
	case TypeWage:
		return c.WageInput()
	case TypeSalary:
		return c.SalaryInput()
	case TypeSavings:
		return c.SavingsInput()
	case TypeLoan:
		return c.LoanInput()
	}
	return nil, fmt.Errorf("%w: unknown calculation type %q", validation.ErrInvalidInput, c.Type)
}

// ConversionInput builds the input of a currency conversion.
func (c Calculation) ConversionInput() (exchange.ConversionInput, error) {
	amount, err := parseField("amountKRW", c.AmountKRW)
	if err != nil {
		return exchange.ConversionInput{}, err
	}
	in := exchange.ConversionInput{
		AmountKRW: amount,
		Currency:  strings.ToUpper(strings.TrimSpace(c.Currency)),
	}
	if in.Currency == "" {
		in.Currency = DefaultCurrency
	}
	if err := in.Validate(); err != nil {
		return exchange.ConversionInput{}, err
	}
	return in, nil
}

// WageInput builds the input of an hourly wage calculation. Holiday pay is
// included unless disabled and the flat tax defaults to 3.3%.
func (c Calculation) WageInput() (wage.Input, error) {
	var in wage.Input
	var err error

	if in.HourlyWage, err = parseField("hourlyWage", c.HourlyWage); err != nil {
		return wage.Input{}, err
	}
	if in.HoursPerDay, err = parseField("hoursPerDay", c.HoursPerDay); err != nil {
		return wage.Input{}, err
	}
	if in.DaysPerWeek, err = parseField("daysPerWeek", c.DaysPerWeek); err != nil {
		return wage.Input{}, err
	}

	in.FlatTaxRatePercent = DefaultTaxRate
	if strings.TrimSpace(c.TaxRate) != "" {
		if in.FlatTaxRatePercent, err = parseField("taxRate", c.TaxRate); err != nil {
			return wage.Input{}, err
		}
	}

	in.HolidayPayEnabled = c.HolidayPay == nil || *c.HolidayPay

	if err := in.Validate(); err != nil {
		return wage.Input{}, err
	}
	return in, nil
}

// SalaryInput builds the input of a salaried payroll calculation.
func (c Calculation) SalaryInput() (payroll.Input, error) {
	in := payroll.Input{
		Period:                      strings.ToLower(strings.TrimSpace(c.Period)),
		DependentCountIncludingSelf: DefaultDependents,
	}
	if in.Period == "" {
		in.Period = DefaultPeriod
	}

	var err error
	if in.GrossAmount, err = parseField("grossAmount", c.GrossAmount); err != nil {
		return payroll.Input{}, err
	}
	if in.NonTaxable.Meal, err = parseField("nonTaxable.meal", c.NonTaxable.Meal); err != nil {
		return payroll.Input{}, err
	}
	if in.NonTaxable.Car, err = parseField("nonTaxable.car", c.NonTaxable.Car); err != nil {
		return payroll.Input{}, err
	}
	if in.NonTaxable.Childcare, err = parseField("nonTaxable.childcare", c.NonTaxable.Childcare); err != nil {
		return payroll.Input{}, err
	}
	if in.NonTaxable.Research, err = parseField("nonTaxable.research", c.NonTaxable.Research); err != nil {
		return payroll.Input{}, err
	}
	if strings.TrimSpace(c.Dependents) != "" {
		if in.DependentCountIncludingSelf, err = parseCountField("dependents", c.Dependents); err != nil {
			return payroll.Input{}, err
		}
	}
	if in.ChildDependentCount, err = parseCountField("children", c.Children); err != nil {
		return payroll.Input{}, err
	}

	if err := in.Validate(); err != nil {
		return payroll.Input{}, err
	}
	return in, nil
}

// SavingsInput builds the input of a savings calculation. "compound" is
// accepted as a short form of monthly compounding.
func (c Calculation) SavingsInput() (savings.Input, error) {
	var in savings.Input
	var err error

	if in.Principal, err = parseField("principal", c.Principal); err != nil {
		return savings.Input{}, err
	}
	if in.AnnualRatePercent, err = parseField("annualRate", c.AnnualRate); err != nil {
		return savings.Input{}, err
	}
	if in.TermMonths, err = parseCountField("termMonths", c.TermMonths); err != nil {
		return savings.Input{}, err
	}

	in.Compounding = NormalizeCompounding(c.Compounding)

	if err := in.Validate(); err != nil {
		return savings.Input{}, err
	}
	return in, nil
}

// NormalizeCompounding lower-cases a compounding mode and resolves its short
// forms. An empty mode selects simple interest.
func NormalizeCompounding(mode string) string {
	switch mode = strings.ToLower(strings.TrimSpace(mode)); mode {
	case "":
		return DefaultCompounding
	case "compound", "monthly":
		return savings.MonthlyCompound
	}
	return mode
}

// LoanInput builds the input of a loan calculation.
func (c Calculation) LoanInput() (loans.Input, error) {
	var in loans.Input
	var err error

	if in.Principal, err = parseField("principal", c.Principal); err != nil {
		return loans.Input{}, err
	}
	if in.AnnualRatePercent, err = parseField("annualRate", c.AnnualRate); err != nil {
		return loans.Input{}, err
	}
	if in.TermMonths, err = parseCountField("termMonths", c.TermMonths); err != nil {
		return loans.Input{}, err
	}

	if err := in.Validate(); err != nil {
		return loans.Input{}, err
	}
	return in, nil
}

func parseField(field, text string) (float64, error) {
	value, err := validation.ParseAmount(text)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return value, nil
}

func parseCountField(field, text string) (int, error) {
	value, err := validation.ParseCount(text)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return value, nil
}
