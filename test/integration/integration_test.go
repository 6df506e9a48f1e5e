package integration

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iwvelando/dream-calc/internal/calculator"
	"github.com/iwvelando/dream-calc/internal/config"
	"github.com/iwvelando/dream-calc/internal/server"
	"github.com/iwvelando/dream-calc/pkg/constants"
	"github.com/iwvelando/dream-calc/pkg/exchange"
	"github.com/iwvelando/dream-calc/pkg/output"
	"go.uber.org/zap"
)

// rateSource serves a KRW rate payload in the format of the public source.
// USD is quoted so that 1 USD = 1,400 KRW.
func rateSource(t *testing.T, down *atomic.Bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if down != nil && down.Load() {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"result": "success",
			"time_last_update_utc": "Wed, 14 Oct 2026 00:02:31 +0000",
			"rates": {"KRW": 1, "USD": 0.000714285714, "JPY": 0.105263157895, "EUR": 0.000666666667, "CNY": 0.005}
		}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func loadTestConfig(t *testing.T, endpoint string) *config.Configuration {
	t.Helper()
	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if err := conf.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	conf.Exchange.Endpoint = endpoint
	conf.Exchange.Timeout = time.Second
	return conf
}

func runTestConfig(t *testing.T, conf *config.Configuration) []calculator.Result {
	t.Helper()
	logger := zap.NewNop()
	resolver, closeCache, err := calculator.NewRateResolver(context.Background(), logger, conf.Exchange)
	if err != nil {
		t.Fatalf("NewRateResolver() error = %v", err)
	}
	t.Cleanup(func() { _ = closeCache() })
	return calculator.Run(context.Background(), logger, conf, resolver)
}

// TestMainIntegrationBaseline runs the test configuration exactly as main()
// does and checks the known values of every calculation.
func TestMainIntegrationBaseline(t *testing.T) {
	conf := loadTestConfig(t, rateSource(t, nil).URL)
	results := runTestConfig(t, conf)

	expectedNames := []string{"travel money", "part-time", "first job", "dream savings", "credit loan"}
	if len(results) != len(expectedNames) {
		t.Fatalf("Expected %d results, got %d", len(expectedNames), len(results))
	}
	for i, name := range expectedNames {
		if results[i].Name != name {
			t.Errorf("Expected result %s, got %s", name, results[i].Name)
		}
		if results[i].Err != nil {
			t.Errorf("%s failed: %v", name, results[i].Err)
		}
	}

	baselineChecks := []struct {
		result    string
		key       string
		expected  float64
		tolerance float64
	}{
		{"travel money", "foreign_amount", 1003.93, 0.01},
		{"part-time", "net_pay", 2433200, 0.01},
		{"first job", "total_deductions", 532250, 0},
		{"dream savings", "interest", 355669.53, 0.01},
		{"dream savings", "tax", 54773.11, 0.01},
		{"dream savings", "total", 10300896.42, 0.01},
		{"credit loan", "monthly_payment", 2204782.81, 0.01},
	}

	for _, check := range baselineChecks {
		result := calculator.FindResult(results, check.result)
		if result == nil {
			t.Errorf("Result %s not found", check.result)
			continue
		}
		line, ok := result.Line(check.key)
		if !ok {
			t.Errorf("Result %s has no line %s", check.result, check.key)
			continue
		}
		if math.Abs(line.Value-check.expected) > check.tolerance {
			t.Errorf("%s %s: expected %.2f, got %.2f", check.result, check.key, check.expected, line.Value)
		}
	}

	if note := calculator.FindResult(results, "travel money").Note; note != "2026-10-14 기준" {
		t.Errorf("Expected live rate note, got %q", note)
	}
}

// TestRateDegradation checks live, cached and fallback rates in turn.
func TestRateDegradation(t *testing.T) {
	var down atomic.Bool
	conf := loadTestConfig(t, rateSource(t, &down).URL)

	resolver, closeCache, err := calculator.NewRateResolver(context.Background(), zap.NewNop(), conf.Exchange)
	if err != nil {
		t.Fatalf("NewRateResolver() error = %v", err)
	}
	defer func() { _ = closeCache() }()

	if set := resolver.Resolve(context.Background()); set.Source != exchange.SourceLive {
		t.Fatalf("Expected live rates, got %s", set.Source)
	}

	down.Store(true)
	cached := resolver.Resolve(context.Background())
	if cached.Source != exchange.SourceCache {
		t.Fatalf("Expected cached rates, got %s", cached.Source)
	}
	usd, err := cached.Lookup("USD")
	if err != nil || math.Abs(usd.RateKRWPerUnit-1400) > 0.01 {
		t.Errorf("Expected cached USD rate 1400, got %+v (%v)", usd, err)
	}

	conf.Exchange.Cache.Backend = constants.CacheBackendNone
	uncached, closeUncached, err := calculator.NewRateResolver(context.Background(), zap.NewNop(), conf.Exchange)
	if err != nil {
		t.Fatalf("NewRateResolver() error = %v", err)
	}
	defer func() { _ = closeUncached() }()

	fallback := uncached.Resolve(context.Background())
	if fallback.Source != exchange.SourceFallback || fallback.LastUpdated != nil {
		t.Errorf("Expected fallback rates without a timestamp, got %s", fallback.Source)
	}
}

// TestCSVOutputFormat checks the CSV rendering of the whole run.
func TestCSVOutputFormat(t *testing.T) {
	results := runTestConfig(t, loadTestConfig(t, rateSource(t, nil).URL))

	var buf bytes.Buffer
	if err := output.CsvFormat(&buf, results); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV output: %v", err)
	}

	expectedHeader := []string{"name", "type", "section", "key", "label", "value", "display"}
	if strings.Join(records[0], ",") != strings.Join(expectedHeader, ",") {
		t.Errorf("CSV header = %v, expected %v", records[0], expectedHeader)
	}

	found := false
	for _, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			t.Errorf("CSV record should have %d fields, got %d: %v", len(expectedHeader), len(record), record)
			continue
		}
		if record[0] == "credit loan" && record[3] == "monthly_payment" {
			found = true
			if record[5] != "2204782.81" || record[6] != "2,204,782원" {
				t.Errorf("Unexpected monthly payment record: %v", record)
			}
		}
	}
	if !found {
		t.Errorf("CSV output is missing the loan monthly payment")
	}
}

// TestPrettyOutputFormat checks the pretty rendering of the whole run.
func TestPrettyOutputFormat(t *testing.T) {
	results := runTestConfig(t, loadTestConfig(t, rateSource(t, nil).URL))

	var buf bytes.Buffer
	output.PrettyFormat(&buf, results)
	out := buf.String()

	for _, want := range []string{
		"--- Results for exchange travel money ---",
		"--- Results for loan credit loan ---",
		"2,433,200원",
		"10,300,896원",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Pretty output missing %q", want)
		}
	}
}

// TestServerEndToEnd drives the HTTP API over a real listener.
func TestServerEndToEnd(t *testing.T) {
	conf := loadTestConfig(t, rateSource(t, nil).URL)
	resolver, closeCache, err := calculator.NewRateResolver(context.Background(), zap.NewNop(), conf.Exchange)
	if err != nil {
		t.Fatalf("NewRateResolver() error = %v", err)
	}
	defer func() { _ = closeCache() }()

	api := httptest.NewServer(server.NewHandler(zap.NewNop(), server.Options{
		Version:  "test",
		Config:   conf,
		Resolver: resolver,
	}))
	defer api.Close()

	resp, err := http.Get(api.URL + "/api/rates")
	if err != nil {
		t.Fatalf("GET /api/rates error = %v", err)
	}
	var set exchange.RateSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		t.Fatalf("failed to decode rates: %v", err)
	}
	_ = resp.Body.Close()
	if set.Source != exchange.SourceLive {
		t.Errorf("Expected live rates, got %s", set.Source)
	}

	resp, err = http.Post(api.URL+"/api/exchange", "application/json",
		strings.NewReader(`{"amountKRW": 1400000, "currency": "USD"}`))
	if err != nil {
		t.Fatalf("POST /api/exchange error = %v", err)
	}
	var body struct {
		Result exchange.ConversionResult `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode conversion: %v", err)
	}
	_ = resp.Body.Close()
	if math.Abs(body.Result.ForeignAmount-1000) > 0.01 {
		t.Errorf("Expected 1000 USD, got %.2f", body.Result.ForeignAmount)
	}

	resp, err = http.Post(api.URL+"/api/export/savings?format=text", "application/json",
		strings.NewReader(`{"principal": 10000000, "annualRatePercent": 3.5, "termMonths": 12, "compounding": "compound"}`))
	if err != nil {
		t.Fatalf("POST /api/export/savings error = %v", err)
	}
	var text bytes.Buffer
	_, _ = text.ReadFrom(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, text.String())
	}
	if !strings.Contains(text.String(), "★ 만기 수령액: 10,300,896원") {
		t.Errorf("Unexpected savings export: %q", text.String())
	}
	if resp.Header.Get(server.RequestIDHeader) == "" {
		t.Errorf("Expected a request id on the response")
	}
}
