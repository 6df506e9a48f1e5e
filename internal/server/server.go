// Package server exposes the calculators over a JSON HTTP API.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/iwvelando/dream-calc/internal/calculator"
	"github.com/iwvelando/dream-calc/internal/config"
	"github.com/iwvelando/dream-calc/pkg/constants"
	"github.com/iwvelando/dream-calc/pkg/exchange"
	"github.com/iwvelando/dream-calc/pkg/loans"
	"github.com/iwvelando/dream-calc/pkg/output"
	"github.com/iwvelando/dream-calc/pkg/payroll"
	"github.com/iwvelando/dream-calc/pkg/savings"
	"github.com/iwvelando/dream-calc/pkg/validation"
	"github.com/iwvelando/dream-calc/pkg/wage"
	"go.uber.org/zap"
)

// Options configures the HTTP handler. Zero values select the defaults.
type Options struct {
	Version        string
	MaxBodySize    int64
	AllowedOrigins []string
	Config         *config.Configuration
	Resolver       calculator.RateResolver
}

type handler struct {
	logger      *zap.Logger
	calc        *calculator.Calculator
	maxBodySize int64
	version     string
	pdf         output.PDFOptions
}

// loanRequest is a loan calculation with an optional schedule.
type loanRequest struct {
	loans.Input
	Schedule bool `json:"schedule"`
}

// NewHandler constructs the HTTP handler that serves the calculator API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxBodySize := opts.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	conf := opts.Config
	if conf == nil {
		conf = config.Default()
	}

	h := &handler{
		logger:      logger,
		calc:        calculator.New(logger, conf, opts.Resolver),
		maxBodySize: maxBodySize,
		version:     version,
		pdf:         output.PDFOptions{FontPath: conf.Output.PDFFont},
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader, "Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequestSize(maxBodySize))

		r.Get("/version", h.handleVersion)
		r.Get("/rates", h.handleRates)

		for _, kind := range []string{config.TypeExchange, config.TypeWage, config.TypeSalary, config.TypeSavings, config.TypeLoan} {
			r.Post("/"+kind, h.handleCalculate(kind))
		}
		r.Post("/export/{kind}", h.handleExport)
	})

	return r
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleRates(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.calc.Rates(r.Context()))
}

func (h *handler) handleCalculate(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.calculate(kind, r)
		if err != nil {
			h.respondError(w, r, err, "server.handleCalculate")
			return
		}
		h.writeJSON(w, http.StatusOK, result)
	}
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	exportFormat := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if exportFormat == "" {
		exportFormat = constants.OutputFormatText
	}
	if err := validation.ValidateExportFormat(exportFormat); err != nil {
		h.respondError(w, r, err, "server.handleExport")
		return
	}

	result, err := h.calculate(kind, r)
	if err != nil {
		h.respondError(w, r, err, "server.handleExport")
		return
	}

	var buf bytes.Buffer
	if err := output.Export(&buf, result, exportFormat, h.pdf); err != nil {
		h.respondError(w, r, fmt.Errorf("failed to render %s export: %w", exportFormat, err), "server.handleExport")
		return
	}

	name := output.FileName(kind, exportFormat)
	w.Header().Set("Content-Type", output.ContentType(exportFormat))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", asciiFileName(kind, exportFormat), url.PathEscape(name)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write export",
			zap.String("op", "server.handleExport"),
			zap.Error(err),
		)
	}
}

// calculate decodes the request body for kind and runs the calculation.
// Omitted fields take the same defaults as the configuration file.
func (h *handler) calculate(kind string, r *http.Request) (calculator.Result, error) {
	switch kind {
	case config.TypeExchange:
		in := exchange.ConversionInput{Currency: config.DefaultCurrency}
		if err := decode(r, &in); err != nil {
			return calculator.Result{}, err
		}
		return h.calc.Exchange(r.Context(), in)
	case config.TypeWage:
		in := wage.Input{HolidayPayEnabled: true, FlatTaxRatePercent: config.DefaultTaxRate}
		if err := decode(r, &in); err != nil {
			return calculator.Result{}, err
		}
		return h.calc.Wage(in)
	case config.TypeSalary:
		in := payroll.Input{Period: config.DefaultPeriod, DependentCountIncludingSelf: config.DefaultDependents}
		if err := decode(r, &in); err != nil {
			return calculator.Result{}, err
		}
		in.Period = strings.ToLower(strings.TrimSpace(in.Period))
		return h.calc.Salary(in)
	case config.TypeSavings:
		in := savings.Input{Compounding: config.DefaultCompounding}
		if err := decode(r, &in); err != nil {
			return calculator.Result{}, err
		}
		in.Compounding = config.NormalizeCompounding(in.Compounding)
		return h.calc.Savings(in)
	case config.TypeLoan:
		var in loanRequest
		if err := decode(r, &in); err != nil {
			return calculator.Result{}, err
		}
		return h.calc.Loan(in.Input, in.Schedule)
	}
	return calculator.Result{}, fmt.Errorf("%w: unknown calculation %q", validation.ErrInvalidInput, kind)
}

func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return fmt.Errorf("%w: invalid request body: %v", validation.ErrInvalidInput, err)
	}
	return nil
}

// statusFor maps an error to the HTTP status returned to the caller.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, validation.ErrInvalidInput), errors.Is(err, validation.ErrNonFinite):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, err error, op string) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusRequestEntityTooLarge {
		msg = fmt.Sprintf("request body exceeds %d bytes", h.maxBodySize)
	}

	log := h.logger.Warn
	if status >= http.StatusInternalServerError {
		log = h.logger.Error
	}
	log("calculation request failed",
		zap.String("op", op),
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.Int("status", status),
		zap.Error(err),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// asciiFileName is the filename parameter for clients that ignore filename*.
func asciiFileName(kind, exportFormat string) string {
	return "dream_calc_" + kind + path.Ext(output.FileName(kind, exportFormat))
}
