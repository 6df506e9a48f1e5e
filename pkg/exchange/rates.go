// Package exchange resolves KRW exchange rates and converts won amounts into
// foreign currency.
package exchange

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/dream-calc/pkg/constants"
	"github.com/iwvelando/dream-calc/pkg/mathutil"
	"github.com/iwvelando/dream-calc/pkg/validation"
)

// Rate sources.
const (
	SourceLive     = "live"
	SourceCache    = "cache"
	SourceFallback = "fallback"
)

// ErrUnknownCurrency is returned for a currency code outside the rate table.
var ErrUnknownCurrency = fmt.Errorf("%w: unknown currency", validation.ErrInvalidInput)

// SupportedCodes lists the currencies in display order.
var SupportedCodes = []string{
	constants.CurrencyUSD,
	constants.CurrencyJPY,
	constants.CurrencyEUR,
	constants.CurrencyCNY,
}

// CurrencyRate is the price in won of one unit of a currency, or of 100 units
// for JPY.
type CurrencyRate struct {
	Code           string  `json:"code" mapstructure:"code"`
	RateKRWPerUnit float64 `json:"rate" mapstructure:"rate"`
	Symbol         string  `json:"symbol" mapstructure:"symbol"`
	DisplayName    string  `json:"name" mapstructure:"name"`
}

// QuoteUnit returns how many units of the currency the rate is quoted for.
func (c CurrencyRate) QuoteUnit() float64 {
	if c.Code == constants.CurrencyJPY {
		return constants.JPYQuoteUnit
	}
	return 1
}

// Validate checks the rate invariant.
func (c CurrencyRate) Validate() error {
	if strings.TrimSpace(c.Code) == "" {
		return fmt.Errorf("%w: currency code is empty", validation.ErrInvalidInput)
	}
	return validation.RequirePositive(c.Code+" rate", c.RateKRWPerUnit)
}

// RateSet is the result of a rate resolution. LastUpdated is nil unless the
// rates came from the live source.
type RateSet struct {
	Rates       []CurrencyRate `json:"rates"`
	LastUpdated *time.Time     `json:"lastUpdated,omitempty"`
	Source      string         `json:"source"`
}

// Lookup returns the rate for code.
func (s RateSet) Lookup(code string) (CurrencyRate, error) {
	wanted := strings.ToUpper(strings.TrimSpace(code))
	for _, rate := range s.Rates {
		if rate.Code == wanted {
			return rate, nil
		}
	}
	return CurrencyRate{}, fmt.Errorf("%w %q", ErrUnknownCurrency, code)
}

// ConversionInput is a request to convert a won amount.
type ConversionInput struct {
	AmountKRW float64 `json:"amountKRW"`
	Currency  string  `json:"currency"`
}

// Validate checks the amount. The currency is checked against a RateSet.
func (in ConversionInput) Validate() error {
	if strings.TrimSpace(in.Currency) == "" {
		return fmt.Errorf("%w: currency is empty", validation.ErrInvalidInput)
	}
	return validation.RequireNonNegative("amount", in.AmountKRW)
}

// ConversionResult holds one KRW to foreign currency conversion.
type ConversionResult struct {
	AmountKRW     float64      `json:"amountKRW"`
	Rate          CurrencyRate `json:"rate"`
	ForeignAmount float64      `json:"foreignAmount"`
}

// Convert converts amountKRW into the currency of rate. JPY amounts are
// expressed in yen even though the rate is quoted per 100 yen.
func Convert(amountKRW float64, rate CurrencyRate) (float64, error) {
	if err := validation.RequireNonNegative("amount", amountKRW); err != nil {
		return 0, err
	}
	if err := rate.Validate(); err != nil {
		return 0, err
	}
	return (amountKRW / rate.RateKRWPerUnit) * rate.QuoteUnit(), nil
}

// ConvertTo looks up code in the set and converts amountKRW into it.
func (s RateSet) ConvertTo(amountKRW float64, code string) (ConversionResult, error) {
	rate, err := s.Lookup(code)
	if err != nil {
		return ConversionResult{}, err
	}
	foreign, err := Convert(amountKRW, rate)
	if err != nil {
		return ConversionResult{}, err
	}
	return ConversionResult{AmountKRW: amountKRW, Rate: rate, ForeignAmount: foreign}, nil
}

// DefaultFallback returns the fixed offline rate table.
func DefaultFallback() []CurrencyRate {
	return []CurrencyRate{
		{Code: constants.CurrencyUSD, RateKRWPerUnit: 1405.50, Symbol: "$", DisplayName: "미국 달러 (오프라인)"},
		{Code: constants.CurrencyJPY, RateKRWPerUnit: 935.20, Symbol: "¥", DisplayName: "일본 엔 (100엔)"},
		{Code: constants.CurrencyEUR, RateKRWPerUnit: 1490.10, Symbol: "€", DisplayName: "유로"},
		{Code: constants.CurrencyCNY, RateKRWPerUnit: 192.30, Symbol: "¥", DisplayName: "위안"},
	}
}

// liveMeta holds the presentation data attached to live rates.
var liveMeta = map[string]CurrencyRate{
	constants.CurrencyUSD: {Symbol: "$", DisplayName: "미국 달러"},
	constants.CurrencyJPY: {Symbol: "¥", DisplayName: "일본 엔 (100엔)"},
	constants.CurrencyEUR: {Symbol: "€", DisplayName: "유럽 연합 유로"},
	constants.CurrencyCNY: {Symbol: "¥", DisplayName: "중국 위안"},
}

// ValidateTable checks that a rate table covers every supported currency with
// a positive rate.
func ValidateTable(rates []CurrencyRate) error {
	seen := make(map[string]bool, len(rates))
	for _, rate := range rates {
		if err := rate.Validate(); err != nil {
			return err
		}
		seen[rate.Code] = true
	}
	for _, code := range SupportedCodes {
		if !seen[code] {
			return fmt.Errorf("%w: rate table is missing %s", validation.ErrInvalidInput, code)
		}
	}
	return nil
}

// fromQuotes turns foreign-units-per-won quotes into won-per-unit rates.
func fromQuotes(quotes map[string]float64) ([]CurrencyRate, error) {
	rates := make([]CurrencyRate, 0, len(SupportedCodes))
	for _, code := range SupportedCodes {
		quote, ok := quotes[code]
		if !ok {
			return nil, fmt.Errorf("response has no %s rate", code)
		}
		if !mathutil.IsFinite(quote) || quote <= 0 {
			return nil, fmt.Errorf("response has invalid %s rate %v", code, quote)
		}
		meta := liveMeta[code]
		rate := CurrencyRate{
			Code:           code,
			RateKRWPerUnit: 1 / quote,
			Symbol:         meta.Symbol,
			DisplayName:    meta.DisplayName,
		}
		rate.RateKRWPerUnit *= rate.QuoteUnit()
		rates = append(rates, rate)
	}
	return rates, nil
}
