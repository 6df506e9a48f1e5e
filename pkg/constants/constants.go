// Package constants provides shared constants for the dream-calc application.
package constants

// RateTimestampLayout is the layout of the time_last_update_utc field returned
// by the exchange-rate source.
const RateTimestampLayout = "Mon, 02 Jan 2006 15:04:05 -0700"

// DisplayDateLayout is the date format used when presenting the last rate update.
const DisplayDateLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for rounding foreign amounts (2 decimal places)
	DecimalPrecision = 100

	// TruncationUnit is the won unit statutory deductions are truncated down to
	TruncationUnit = 10

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 won)
	CurrencyTolerance = 1.0

	// MaxTermMonths is the longest loan or savings term accepted (50 years)
	MaxTermMonths = 600
)

// Hourly wage constants
const (
	// WeeksPerMonth is the average number of weeks in a month
	WeeksPerMonth = 4.345

	// HolidayPayMinWeeklyHours is the weekly hours threshold for holiday pay
	HolidayPayMinWeeklyHours = 15.0

	// FullTimeWeeklyHours is the weekly hours at which holiday pay is capped
	FullTimeWeeklyHours = 40.0

	// HolidayHoursPerWeek is the holiday pay hours granted for a full week
	HolidayHoursPerWeek = 8.0
)

// Flat withholding presets for hourly work, in percent.
const (
	TaxRateNone          = 0.0
	TaxRateFreelance     = 3.3
	TaxRateFourInsurance = 9.4
)

// InterestTaxRate is the withholding rate applied to interest income.
const InterestTaxRate = 0.154

// Currency codes supported by the exchange calculator.
const (
	CurrencyUSD = "USD"
	CurrencyJPY = "JPY"
	CurrencyEUR = "EUR"
	CurrencyCNY = "CNY"

	// JPYQuoteUnit is the number of yen a JPY rate is quoted for
	JPYQuoteUnit = 100.0
)

// Exchange defaults
const (
	// DefaultRateEndpoint is the public KRW-based exchange-rate endpoint
	DefaultRateEndpoint = "https://open.er-api.com/v6/latest/KRW"

	// DefaultRateTimeoutSeconds bounds a single rate fetch
	DefaultRateTimeoutSeconds = 10

	// DefaultRateCacheTTLSeconds is how long a live fetch stays cached
	DefaultRateCacheTTLSeconds = 3600

	// RateCacheKey is the cache key holding the last live rate set
	RateCacheKey = "dream-calc:rates:KRW"
)

// Cache backends
const (
	CacheBackendNone   = "none"
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatText is the plain-text summary format used for exports
	OutputFormatText = "text"

	// OutputFormatPDF is the PDF summary format used for exports
	OutputFormatPDF = "pdf"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024
)
