// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/dream-calc/pkg/constants"
	"github.com/iwvelando/dream-calc/pkg/exchange"
	"github.com/iwvelando/dream-calc/pkg/payroll"
	"github.com/iwvelando/dream-calc/pkg/savings"
	"github.com/iwvelando/dream-calc/pkg/validation"
	"github.com/iwvelando/dream-calc/pkg/wage"
	"github.com/spf13/viper"
)

// Calculation types.
const (
	TypeExchange = "exchange"
	TypeWage     = "wage"
	TypeSalary   = "salary"
	TypeSavings  = "savings"
	TypeLoan     = "loan"
)

// Configuration holds all configuration for dream-calc.
type Configuration struct {
	Logging      LoggingConfig  `yaml:"logging,omitempty"`
	Output       OutputConfig   `yaml:"output,omitempty"`
	Exchange     ExchangeConfig `yaml:"exchange,omitempty"`
	Wage         wage.Params
	Payroll      PayrollConfig
	Savings      savings.Params
	Calculations []Calculation
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format  string `yaml:"format,omitempty"`  // pretty, csv, text
	PDFFont string `yaml:"pdfFont,omitempty"` // optional UTF-8 TTF used for PDF exports
}

// ExchangeConfig holds the rate source, cache and offline table.
type ExchangeConfig struct {
	Endpoint string
	Timeout  time.Duration
	Cache    CacheConfig
	Fallback []exchange.CurrencyRate
}

// CacheConfig selects where the last live rate fetch is kept.
type CacheConfig struct {
	Backend       string // none, memory, redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// PayrollConfig embeds the deduction schedule so every rate can be overridden.
type PayrollConfig struct {
	payroll.Schedule `mapstructure:",squash"`
}

// Calculation is one requested computation. Numeric fields are text so that
// values such as "40,000,000" or "3.5%" can be written as users type them.
type Calculation struct {
	Name string
	Type string

	// exchange
	AmountKRW string
	Currency  string

	// wage
	HourlyWage  string
	HoursPerDay string
	DaysPerWeek string
	HolidayPay  *bool
	TaxRate     string

	// salary
	GrossAmount string
	Period      string
	NonTaxable  NonTaxableConfig
	Dependents  string
	Children    string

	// savings and loan
	Principal   string
	AnnualRate  string
	TermMonths  string
	Compounding string
	Schedule    bool
}

// NonTaxableConfig holds the monthly allowances of a salary calculation.
type NonTaxableConfig struct {
	Meal      string
	Car       string
	Childcare string
	Research  string
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix("DREAMCALC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.applyTableDefaults()
	return &configuration, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output.format", constants.OutputFormatPretty)

	v.SetDefault("exchange.endpoint", constants.DefaultRateEndpoint)
	v.SetDefault("exchange.timeout", constants.DefaultRateTimeoutSeconds*time.Second)
	v.SetDefault("exchange.cache.backend", constants.CacheBackendNone)
	v.SetDefault("exchange.cache.ttl", constants.DefaultRateCacheTTLSeconds*time.Second)

	wageParams := wage.DefaultParams()
	v.SetDefault("wage.weeksPerMonth", wageParams.WeeksPerMonth)
	v.SetDefault("wage.holidayPayMinWeeklyHours", wageParams.HolidayPayMinWeeklyHours)
	v.SetDefault("wage.fullTimeWeeklyHours", wageParams.FullTimeWeeklyHours)
	v.SetDefault("wage.holidayHoursPerWeek", wageParams.HolidayHoursPerWeek)

	schedule := payroll.DefaultSchedule()
	v.SetDefault("payroll.pensionRate", schedule.PensionRate)
	v.SetDefault("payroll.pensionBaseCap", schedule.PensionBaseCap)
	v.SetDefault("payroll.healthRate", schedule.HealthRate)
	v.SetDefault("payroll.longTermCareRate", schedule.LongTermCareRate)
	v.SetDefault("payroll.employmentRate", schedule.EmploymentRate)
	v.SetDefault("payroll.basicDeduction", schedule.BasicDeduction)
	v.SetDefault("payroll.dependentDeduction", schedule.DependentDeduction)
	v.SetDefault("payroll.localTaxRate", schedule.LocalTaxRate)

	v.SetDefault("savings.interestTaxRate", savings.DefaultParams().InterestTaxRate)
}

// applyTableDefaults fills the list-valued settings viper cannot default.
func (c *Configuration) applyTableDefaults() {
	if len(c.Payroll.Brackets) == 0 {
		c.Payroll.Brackets = payroll.DefaultSchedule().Brackets
	}
	if len(c.Exchange.Fallback) == 0 {
		c.Exchange.Fallback = exchange.DefaultFallback()
	}
}

// Default returns the configuration used when no file is given.
func Default() *Configuration {
	conf := &Configuration{
		Output: OutputConfig{Format: constants.OutputFormatPretty},
		Exchange: ExchangeConfig{
			Endpoint: constants.DefaultRateEndpoint,
			Timeout:  constants.DefaultRateTimeoutSeconds * time.Second,
			Cache: CacheConfig{
				Backend: constants.CacheBackendNone,
				TTL:     constants.DefaultRateCacheTTLSeconds * time.Second,
			},
		},
		Wage:    wage.DefaultParams(),
		Payroll: PayrollConfig{Schedule: payroll.DefaultSchedule()},
		Savings: savings.DefaultParams(),
	}
	conf.applyTableDefaults()
	return conf
}

// Validate checks the settings and every configured calculation.
func (c *Configuration) Validate() error {
	if err := c.ValidateSettings(); err != nil {
		return err
	}
	for i, calc := range c.Calculations {
		if _, err := calc.Input(); err != nil {
			return fmt.Errorf("calculation %d (%s): %w", i, calc.Name, err)
		}
	}
	return nil
}

// ValidateSettings checks the settings that every calculation depends on.
func (c *Configuration) ValidateSettings() error {
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}
	switch c.Exchange.Cache.Backend {
	case "", constants.CacheBackendNone, constants.CacheBackendMemory:
	case constants.CacheBackendRedis:
		if c.Exchange.Cache.RedisAddr == "" {
			return fmt.Errorf("%w: redis cache requires exchange.cache.redisAddr", validation.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown cache backend %q", validation.ErrInvalidInput, c.Exchange.Cache.Backend)
	}
	if err := exchange.ValidateTable(c.Exchange.Fallback); err != nil {
		return fmt.Errorf("exchange.fallback: %w", err)
	}
	if err := validation.FirstError(
		validation.RequirePositive("wage.weeksPerMonth", c.Wage.WeeksPerMonth),
		validation.RequireNonNegative("wage.holidayPayMinWeeklyHours", c.Wage.HolidayPayMinWeeklyHours),
		validation.RequirePositive("wage.fullTimeWeeklyHours", c.Wage.FullTimeWeeklyHours),
		validation.RequireNonNegative("wage.holidayHoursPerWeek", c.Wage.HolidayHoursPerWeek),
		validation.RequireRange("savings.interestTaxRate", c.Savings.InterestTaxRate, 0, 1),
	); err != nil {
		return err
	}
	if err := c.Payroll.Schedule.Validate(); err != nil {
		return fmt.Errorf("payroll: %w", err)
	}
	return nil
}

// ValidateConfiguration performs general checks of the configuration and
// returns warnings for settings that are legal but probably unintended.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if len(c.Calculations) == 0 {
		warnings = append(warnings, "no calculations are configured")
	}

	seen := make(map[string]bool, len(c.Calculations))
	for i, calc := range c.Calculations {
		name := calc.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
			warnings = append(warnings, fmt.Sprintf("calculation %s has no name", name))
		} else if seen[name] {
			warnings = append(warnings, fmt.Sprintf("calculation name %q is used more than once", name))
		}
		seen[name] = true

		switch strings.ToLower(calc.Type) {
		case TypeWage:
			if calc.HolidayPay != nil && !*calc.HolidayPay {
				warnings = append(warnings, fmt.Sprintf("calculation %s excludes weekly holiday pay", name))
			}
		case TypeSalary:
			if strings.TrimSpace(calc.GrossAmount) == "" {
				warnings = append(warnings, fmt.Sprintf("calculation %s has no gross amount and will compute zero pay", name))
			}
		case TypeSavings, TypeLoan:
			if strings.TrimSpace(calc.AnnualRate) == "" {
				warnings = append(warnings, fmt.Sprintf("calculation %s has no annual rate and will assume 0%%", name))
			}
		}
	}

	if c.Exchange.Cache.Backend == constants.CacheBackendMemory && c.Exchange.Cache.TTL > 24*time.Hour {
		warnings = append(warnings, "exchange rates cached in memory for more than a day may be stale")
	}

	return warnings
}
