// Package wage estimates the monthly pay of hourly (part-time) work including
// the weekly paid-rest allowance.
package wage

import (
	"github.com/iwvelando/dream-calc/pkg/constants"
	"github.com/iwvelando/dream-calc/pkg/mathutil"
	"github.com/iwvelando/dream-calc/pkg/validation"
)

// Input holds the terms of hourly work.
type Input struct {
	HourlyWage         float64 `json:"hourlyWage"`
	HoursPerDay        float64 `json:"hoursPerDay"`
	DaysPerWeek        float64 `json:"daysPerWeek"`
	HolidayPayEnabled  bool    `json:"holidayPayEnabled"`
	FlatTaxRatePercent float64 `json:"flatTaxRatePercent"`
}

// Params holds the scaling constants of the hourly calculation.
type Params struct {
	WeeksPerMonth            float64
	HolidayPayMinWeeklyHours float64
	FullTimeWeeklyHours      float64
	HolidayHoursPerWeek      float64
}

// DefaultParams returns the simplified labor-rule constants.
func DefaultParams() Params {
	return Params{
		WeeksPerMonth:            constants.WeeksPerMonth,
		HolidayPayMinWeeklyHours: constants.HolidayPayMinWeeklyHours,
		FullTimeWeeklyHours:      constants.FullTimeWeeklyHours,
		HolidayHoursPerWeek:      constants.HolidayHoursPerWeek,
	}
}

// Result holds the monthly pay breakdown. Amounts are not rounded.
type Result struct {
	WeeklyHours         float64 `json:"weeklyHours"`
	HolidayHoursPerWeek float64 `json:"holidayHoursPerWeek"`
	GrossPay            float64 `json:"grossPay"`
	HolidayPay          float64 `json:"holidayPay"`
	Tax                 float64 `json:"tax"`
	NetPay              float64 `json:"netPay"`
}

// Validate checks the input against its domain.
func (in Input) Validate() error {
	return validation.FirstError(
		validation.RequireNonNegative("hourly wage", in.HourlyWage),
		validation.RequireNonNegative("hours per day", in.HoursPerDay),
		validation.RequireRange("days per week", in.DaysPerWeek, 0, 7),
		validation.RequireNonNegative("tax rate", in.FlatTaxRatePercent),
	)
}

// HolidayHours returns the paid-rest hours earned per week. Work below the
// minimum weekly hours earns none; full-time work earns the full allowance and
// anything in between earns a proportional share.
func (p Params) HolidayHours(weeklyHours float64) float64 {
	if weeklyHours < p.HolidayPayMinWeeklyHours {
		return 0
	}
	if weeklyHours >= p.FullTimeWeeklyHours {
		return p.HolidayHoursPerWeek
	}
	return (weeklyHours / p.FullTimeWeeklyHours) * p.HolidayHoursPerWeek
}

// CalculateHourlyWage computes the monthly gross pay, holiday pay, flat tax and
// net pay of hourly work.
func CalculateHourlyWage(in Input, params Params) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	weeklyHours := in.HoursPerDay * in.DaysPerWeek

	var holidayHours float64
	if in.HolidayPayEnabled {
		holidayHours = params.HolidayHours(weeklyHours)
	}
	holidayPayPerWeek := holidayHours * in.HourlyWage

	monthlyBasePay := weeklyHours * in.HourlyWage * params.WeeksPerMonth
	monthlyHolidayPay := holidayPayPerWeek * params.WeeksPerMonth

	gross := monthlyBasePay + monthlyHolidayPay
	tax := mathutil.ApplyPercentage(gross, in.FlatTaxRatePercent)

	return Result{
		WeeklyHours:         weeklyHours,
		HolidayHoursPerWeek: holidayHours,
		GrossPay:            gross,
		HolidayPay:          monthlyHolidayPay,
		Tax:                 tax,
		NetPay:              gross - tax,
	}, nil
}
