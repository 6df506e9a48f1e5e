package savings

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/dream-calc/pkg/constants"
	"github.com/iwvelando/dream-calc/pkg/validation"
)

func TestCalculateSavings(t *testing.T) {
	tests := []struct {
		name             string
		input            Input
		expectedInterest float64
		expectedTax      float64
		expectedTotal    float64
	}{
		{
			name:             "Simple one year",
			input:            Input{Principal: 10000000, AnnualRatePercent: 3.5, TermMonths: 12, Compounding: Simple},
			expectedInterest: 350000,
			expectedTax:      53900,
			expectedTotal:    10296100,
		},
		{
			name:             "Simple six months",
			input:            Input{Principal: 10000000, AnnualRatePercent: 3.5, TermMonths: 6, Compounding: Simple},
			expectedInterest: 175000,
			expectedTax:      26950,
			expectedTotal:    10148050,
		},
		{
			name:             "Monthly compound one year",
			input:            Input{Principal: 10000000, AnnualRatePercent: 3.5, TermMonths: 12, Compounding: MonthlyCompound},
			expectedInterest: 355669.53, // 10,000,000 * (1 + 0.035/12)^12 - 10,000,000
			expectedTax:      54773.11,
			expectedTotal:    10300896.42,
		},
		{
			name:          "Zero rate",
			input:         Input{Principal: 5000000, AnnualRatePercent: 0, TermMonths: 24, Compounding: MonthlyCompound},
			expectedTotal: 5000000,
		},
		{
			name:  "Zero principal",
			input: Input{Principal: 0, AnnualRatePercent: 4, TermMonths: 12, Compounding: Simple},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CalculateSavings(tt.input, DefaultParams())
			if err != nil {
				t.Fatalf("CalculateSavings() unexpected error: %v", err)
			}
			if math.Abs(result.Interest-tt.expectedInterest) > 0.01 {
				t.Errorf("Interest = %.2f, expected %.2f", result.Interest, tt.expectedInterest)
			}
			if math.Abs(result.Tax-tt.expectedTax) > 0.01 {
				t.Errorf("Tax = %.2f, expected %.2f", result.Tax, tt.expectedTax)
			}
			if math.Abs(result.Total-tt.expectedTotal) > 0.01 {
				t.Errorf("Total = %.2f, expected %.2f", result.Total, tt.expectedTotal)
			}
		})
	}
}

func TestCompoundExceedsSimple(t *testing.T) {
	in := Input{Principal: 10000000, AnnualRatePercent: 5, TermMonths: 36, Compounding: Simple}
	simple, err := CalculateSavings(in, DefaultParams())
	if err != nil {
		t.Fatalf("CalculateSavings() unexpected error: %v", err)
	}
	in.Compounding = MonthlyCompound
	compound, err := CalculateSavings(in, DefaultParams())
	if err != nil {
		t.Fatalf("CalculateSavings() unexpected error: %v", err)
	}
	if compound.Interest <= simple.Interest {
		t.Errorf("compound interest %.2f should exceed simple interest %.2f", compound.Interest, simple.Interest)
	}
}

func TestCalculateSavingsCustomTax(t *testing.T) {
	result, err := CalculateSavings(Input{Principal: 1000000, AnnualRatePercent: 10, TermMonths: 12, Compounding: Simple},
		Params{InterestTaxRate: 0})
	if err != nil {
		t.Fatalf("CalculateSavings() unexpected error: %v", err)
	}
	if result.Tax != 0 || result.Total != 1100000 {
		t.Errorf("expected tax-free total 1100000, got %+v", result)
	}
}

func TestCalculateSavingsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{"Zero months", Input{Principal: 1, TermMonths: 0, Compounding: Simple}, validation.ErrInvalidInput},
		{"Term beyond maximum", Input{Principal: 1, TermMonths: constants.MaxTermMonths + 1, Compounding: MonthlyCompound}, validation.ErrInvalidInput},
		{"Unknown compounding", Input{Principal: 1, TermMonths: 12, Compounding: "daily"}, validation.ErrInvalidInput},
		{"Negative principal", Input{Principal: -1, TermMonths: 12, Compounding: Simple}, validation.ErrInvalidInput},
		{"Infinite rate", Input{Principal: 1, AnnualRatePercent: math.Inf(1), TermMonths: 12, Compounding: Simple}, validation.ErrNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateSavings(tt.input, DefaultParams())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CalculateSavings() error = %v, expected %v", err, tt.wantErr)
			}
		})
	}
}
