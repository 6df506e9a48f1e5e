package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/dream-calc/internal/calculator"
	"github.com/iwvelando/dream-calc/internal/config"
	"github.com/iwvelando/dream-calc/internal/server"
	"github.com/iwvelando/dream-calc/pkg/constants"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	_ = godotenv.Load()

	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	serverConf, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(serverConf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	calcConf := config.Default()
	if serverConf.Calculator != "" {
		calcConf, err = config.LoadConfiguration(serverConf.Calculator)
		if err != nil {
			logger.Fatal("failed to load calculator configuration",
				zap.String("op", "main"),
				zap.String("path", serverConf.Calculator),
				zap.Error(err),
			)
		}
	}
	if err := calcConf.ValidateSettings(); err != nil {
		logger.Fatal("invalid calculator configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	resolver, closeCache, err := calculator.NewRateResolver(context.Background(), logger, calcConf.Exchange)
	if err != nil {
		logger.Fatal("failed to set up exchange rates",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	defer func() {
		_ = closeCache()
	}()

	srv := &http.Server{
		Addr: serverConf.Address,
		Handler: server.NewHandler(logger, server.Options{
			Version:        version,
			MaxBodySize:    serverConf.BodySizeBytes(),
			AllowedOrigins: serverConf.CORS.AllowedOrigins,
			Config:         calcConf,
			Resolver:       resolver,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			zap.String("op", "main"),
			zap.String("address", serverConf.Address),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	logger.Info("server stopped", zap.String("op", "main"))
}
