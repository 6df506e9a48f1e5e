package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/dream-calc/internal/calculator"
	"github.com/iwvelando/dream-calc/internal/config"
	"github.com/iwvelando/dream-calc/pkg/constants"
	"github.com/iwvelando/dream-calc/pkg/output"
	"github.com/iwvelando/dream-calc/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// A local .env may carry DREAMCALC_* overrides such as the Redis password.
	_ = godotenv.Load()

	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, text")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	if err := conf.ValidateSettings(); err != nil {
		logger.Fatal("invalid configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	ctx := context.Background()
	resolver, closeCache, err := calculator.NewRateResolver(ctx, logger, conf.Exchange)
	if err != nil {
		logger.Fatal("failed to set up exchange rates",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	defer func() {
		_ = closeCache()
	}()

	results := calculator.Run(ctx, logger, conf, resolver)

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(os.Stdout, results)
	case constants.OutputFormatCSV:
		if err := output.CsvFormat(os.Stdout, results); err != nil {
			logger.Error("failed to write CSV output",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	case constants.OutputFormatText:
		for i, result := range results {
			if i > 0 {
				fmt.Println()
			}
			fmt.Println(output.TextSummary(result))
		}
	}
}
