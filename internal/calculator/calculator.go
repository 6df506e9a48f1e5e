// Package calculator runs the configured calculations and turns their typed
// results into labelled lines for output and export.
package calculator

import (
	"context"
	"fmt"

	"github.com/iwvelando/dream-calc/internal/config"
	"github.com/iwvelando/dream-calc/pkg/datetime"
	"github.com/iwvelando/dream-calc/pkg/exchange"
	"github.com/iwvelando/dream-calc/pkg/format"
	"github.com/iwvelando/dream-calc/pkg/loans"
	"github.com/iwvelando/dream-calc/pkg/payroll"
	"github.com/iwvelando/dream-calc/pkg/savings"
	"github.com/iwvelando/dream-calc/pkg/validation"
	"github.com/iwvelando/dream-calc/pkg/wage"
	"go.uber.org/zap"
)

// RateResolver supplies exchange rates. *exchange.Resolver implements it.
type RateResolver interface {
	Resolve(ctx context.Context) exchange.RateSet
}

// Calculator binds the configured constants to the individual calculators.
type Calculator struct {
	logger   *zap.Logger
	conf     *config.Configuration
	resolver RateResolver
	schedule *loans.AmortizationScheduleGenerator
}

// New creates a Calculator. A nil conf selects the built-in defaults.
func New(logger *zap.Logger, conf *config.Configuration, resolver RateResolver) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if conf == nil {
		conf = config.Default()
	}
	return &Calculator{
		logger:   logger,
		conf:     conf,
		resolver: resolver,
		schedule: loans.NewAmortizationScheduleGenerator(logger),
	}
}

// Run processes every configured calculation. A failing calculation is
// recorded on its Result and does not stop the others. Rates are resolved at
// most once per run.
func Run(ctx context.Context, logger *zap.Logger, conf *config.Configuration, resolver RateResolver) []Result {
	calc := New(logger, conf, resolver)

	var rates *exchange.RateSet
	results := make([]Result, 0, len(calc.conf.Calculations))
	for _, request := range calc.conf.Calculations {
		if request.Kind() == config.TypeExchange && rates == nil {
			set := calc.Rates(ctx)
			rates = &set
		}
		result := calc.calculate(ctx, request, rates)
		if result.Err != nil {
			calc.logger.Warn(fmt.Sprintf("calculation %s failed", request.Name),
				zap.String("op", "calculator.Run"),
				zap.String("type", request.Kind()),
				zap.Error(result.Err),
			)
		}
		results = append(results, result)
	}
	return results
}

// Rates resolves the current rate set. Without a resolver the configured
// fallback table is used.
func (c *Calculator) Rates(ctx context.Context) exchange.RateSet {
	if c.resolver == nil {
		rates := make([]exchange.CurrencyRate, len(c.conf.Exchange.Fallback))
		copy(rates, c.conf.Exchange.Fallback)
		return exchange.RateSet{Rates: rates, Source: exchange.SourceFallback}
	}
	return c.resolver.Resolve(ctx)
}

func (c *Calculator) calculate(ctx context.Context, request config.Calculation, rates *exchange.RateSet) Result {
	failed := func(err error) Result {
		return Result{Name: request.Name, Type: request.Kind(), Err: err}
	}

	input, err := request.Input()
	if err != nil {
		return failed(err)
	}

	var result Result
	switch in := input.(type) {
	case exchange.ConversionInput:
		result, err = c.ExchangeWithRates(*rates, in)
	case wage.Input:
		result, err = c.Wage(in)
	case payroll.Input:
		result, err = c.Salary(in)
	case savings.Input:
		result, err = c.Savings(in)
	case loans.Input:
		result, err = c.Loan(in, request.Schedule)
	default:
		err = fmt.Errorf("%w: unsupported input %T", validation.ErrInvalidInput, input)
	}
	if err != nil {
		return failed(err)
	}
	result.Name = request.Name
	return result
}

// Exchange resolves the current rates and converts the amount.
func (c *Calculator) Exchange(ctx context.Context, in exchange.ConversionInput) (Result, error) {
	return c.ExchangeWithRates(c.Rates(ctx), in)
}

// ExchangeWithRates converts the amount with an already resolved rate set.
func (c *Calculator) ExchangeWithRates(rates exchange.RateSet, in exchange.ConversionInput) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}
	conversion, err := rates.ConvertTo(in.AmountKRW, in.Currency)
	if err != nil {
		return Result{}, err
	}
	rate := conversion.Rate

	return Result{
		Type:   config.TypeExchange,
		Title:  "환율 계산",
		Note:   rateNote(rates),
		Output: conversion,
		Inputs: []Line{
			{Key: "amount_krw", Label: "원화 금액", Value: in.AmountKRW, Unit: UnitWon},
			{Key: "currency", Label: "대상 통화", Unit: UnitText,
				Text: fmt.Sprintf("%s (%s)", rate.DisplayName, rate.Code), Alt: rate.Code},
		},
		Lines: []Line{
			{Key: "foreign_amount", Label: "예상 환전 금액", Value: conversion.ForeignAmount, Unit: UnitForeign, Symbol: rate.Symbol, Total: true},
			{Key: "applied_rate", Label: "적용 환율", Value: rate.RateKRWPerUnit, Unit: UnitText,
				Text: fmt.Sprintf("%s = %s %s", format.KRW(rate.RateKRWPerUnit), format.Number(rate.QuoteUnit()), rate.Symbol),
				Alt:  fmt.Sprintf("%s KRW = %s %s", format.Fixed(rate.RateKRWPerUnit), format.Number(rate.QuoteUnit()), rate.Code)},
		},
	}, nil
}

func rateNote(rates exchange.RateSet) string {
	switch rates.Source {
	case exchange.SourceLive:
		if date := datetime.FormatDate(rates.LastUpdated); date != "" {
			return date + " 기준"
		}
		return "실시간 환율"
	case exchange.SourceCache:
		if date := datetime.FormatDate(rates.LastUpdated); date != "" {
			return date + " 기준 (저장된 환율)"
		}
		return "저장된 환율"
	}
	return "오프라인 환율"
}

// Wage computes the monthly pay of hourly work.
func (c *Calculator) Wage(in wage.Input) (Result, error) {
	out, err := wage.CalculateHourlyWage(in, c.conf.Wage)
	if err != nil {
		return Result{}, err
	}

	holiday, holidayAlt := "미포함", "excluded"
	if in.HolidayPayEnabled {
		holiday, holidayAlt = "포함", "included"
	}

	return Result{
		Type:   config.TypeWage,
		Title:  "알바 급여 계산",
		Output: out,
		Inputs: []Line{
			{Key: "hourly_wage", Label: "시급", Value: in.HourlyWage, Unit: UnitWon},
			{Key: "hours_per_day", Label: "하루 근무 시간", Value: in.HoursPerDay, Unit: UnitHours},
			{Key: "days_per_week", Label: "주 근무 일수", Value: in.DaysPerWeek, Unit: UnitText,
				Text: fmt.Sprintf("%g일", in.DaysPerWeek), Alt: fmt.Sprintf("%g days", in.DaysPerWeek)},
			{Key: "holiday_pay", Label: "주휴 수당", Unit: UnitText, Text: holiday, Alt: holidayAlt},
			{Key: "tax_rate", Label: "세율", Value: in.FlatTaxRatePercent, Unit: UnitPercent},
		},
		Lines: []Line{
			{Key: "weekly_hours", Label: "주 근무 시간", Value: out.WeeklyHours, Unit: UnitHours},
			{Key: "base_pay", Label: "기본 급여", Value: out.GrossPay - out.HolidayPay, Unit: UnitWon},
			{Key: "holiday_pay", Label: "주휴 수당", Value: out.HolidayPay, Unit: UnitWon, Sign: "+"},
			{Key: "tax", Label: "세금 공제", Value: out.Tax, Unit: UnitWon, Sign: "-"},
			{Key: "net_pay", Label: "최종 수령액", Value: out.NetPay, Unit: UnitWon, Total: true},
		},
	}, nil
}

// Salary computes the monthly take-home pay of a salaried employee.
func (c *Calculator) Salary(in payroll.Input) (Result, error) {
	out, err := payroll.CalculateSalary(in, c.conf.Payroll.Schedule)
	if err != nil {
		return Result{}, err
	}

	grossLabel := "연봉"
	if in.Period == payroll.PeriodMonth {
		grossLabel = "월급"
	}

	return Result{
		Type:   config.TypeSalary,
		Title:  "급여 명세서",
		Output: out,
		Inputs: []Line{
			{Key: "gross_amount", Label: grossLabel, Value: in.GrossAmount, Unit: UnitWon},
			{Key: "dependents", Label: "부양가족 (본인 포함)", Value: float64(in.DependentCountIncludingSelf), Unit: UnitCount},
			{Key: "children", Label: "20세 이하 자녀", Value: float64(in.ChildDependentCount), Unit: UnitCount},
		},
		Lines: []Line{
			{Key: "monthly_gross", Label: "월 예상 세전 급여", Value: out.MonthlyGross, Unit: UnitWon},
			{Key: "non_taxable", Label: "비과세 소득 합계", Value: out.NonTaxableTotal, Unit: UnitWon},
			{Key: "pension", Label: "국민연금", Value: out.Pension, Unit: UnitWon, Sign: "-"},
			{Key: "health", Label: "건강보험", Value: out.Health, Unit: UnitWon, Sign: "-"},
			{Key: "long_term_care", Label: "장기요양", Value: out.LongTermCare, Unit: UnitWon, Sign: "-"},
			{Key: "employment_insurance", Label: "고용보험", Value: out.EmploymentInsurance, Unit: UnitWon, Sign: "-"},
			{Key: "income_tax", Label: "소득세", Value: out.IncomeTax, Unit: UnitWon, Sign: "-"},
			{Key: "local_tax", Label: "지방소득세", Value: out.LocalTax, Unit: UnitWon, Sign: "-"},
			{Key: "total_deductions", Label: "공제액 합계", Value: out.TotalDeductions, Unit: UnitWon},
			{Key: "net_pay", Label: "월 예상 실수령액", Value: out.NetPay, Unit: UnitWon, Total: true},
		},
	}, nil
}

// Savings projects the maturity payout of a deposit.
func (c *Calculator) Savings(in savings.Input) (Result, error) {
	out, err := savings.CalculateSavings(in, c.conf.Savings)
	if err != nil {
		return Result{}, err
	}

	mode, modeAlt := "단리", "simple"
	if in.Compounding == savings.MonthlyCompound {
		mode, modeAlt = "월복리", "monthly compound"
	}

	return Result{
		Type:   config.TypeSavings,
		Title:  "이자 계산",
		Output: out,
		Inputs: []Line{
			{Key: "principal", Label: "목표 금액", Value: in.Principal, Unit: UnitWon},
			{Key: "term", Label: "기간", Value: float64(in.TermMonths), Unit: UnitText,
				Text: fmt.Sprintf("%d개월 (%s, %s)", in.TermMonths, mode, format.Percent(in.AnnualRatePercent)),
				Alt:  fmt.Sprintf("%d months (%s, %s)", in.TermMonths, modeAlt, format.Percent(in.AnnualRatePercent))},
		},
		Lines: []Line{
			{Key: "principal", Label: "내가 넣은 돈", Value: in.Principal, Unit: UnitWon},
			{Key: "interest", Label: "세전 이자", Value: out.Interest, Unit: UnitWon},
			{Key: "tax", Label: "이자 소득세", Value: out.Tax, Unit: UnitWon, Sign: "-"},
			{Key: "interest_after_tax", Label: "불어난 이자 (세후)", Value: out.Interest - out.Tax, Unit: UnitWon, Sign: "+"},
			{Key: "total", Label: "만기 수령액", Value: out.Total, Unit: UnitWon, Total: true},
		},
	}, nil
}

// Loan computes the equal monthly installment and, when requested, the
// month-by-month schedule.
func (c *Calculator) Loan(in loans.Input, withSchedule bool) (Result, error) {
	out, err := loans.CalculateLoan(in)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Type:   config.TypeLoan,
		Title:  "대출 계산",
		Output: out,
		Inputs: []Line{
			{Key: "principal", Label: "필요한 자금", Value: in.Principal, Unit: UnitWon},
			{Key: "annual_rate", Label: "연 이자율", Value: in.AnnualRatePercent, Unit: UnitPercent},
			{Key: "term_months", Label: "대출 기간", Value: float64(in.TermMonths), Unit: UnitMonths},
		},
		Lines: []Line{
			{Key: "monthly_payment", Label: "매월 상환금", Value: out.MonthlyPayment, Unit: UnitWon, Total: true},
			{Key: "principal", Label: "빌린 원금", Value: in.Principal, Unit: UnitWon},
			{Key: "total_interest", Label: "총 이자 비용", Value: out.TotalInterest, Unit: UnitWon, Sign: "+"},
			{Key: "total_payment", Label: "총 상환할 금액", Value: out.TotalPayment, Unit: UnitWon, Total: true},
		},
	}

	if withSchedule {
		schedule, err := c.schedule.GenerateSchedule(in)
		if err != nil {
			return Result{}, err
		}
		result.Schedule = schedule
	}
	return result, nil
}
