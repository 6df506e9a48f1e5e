package output

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/iwvelando/dream-calc/internal/calculator"
)

func TestPDFSummary(t *testing.T) {
	tests := []struct {
		name   string
		result func(t *testing.T) calculator.Result
	}{
		{"Savings", savingsResult},
		{"Loan with schedule", loanResult},
		{"Failed", func(*testing.T) calculator.Result {
			return calculator.Result{Name: "broken", Type: "loan", Err: errors.New("boom")}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := PDFSummary(&buf, tt.result(t), PDFOptions{}); err != nil {
				t.Fatalf("PDFSummary() error = %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
				t.Errorf("output is not a PDF document")
			}
		})
	}
}

func TestPDFSummaryMissingFont(t *testing.T) {
	var buf bytes.Buffer
	err := PDFSummary(&buf, savingsResult(t), PDFOptions{FontPath: filepath.Join(t.TempDir(), "missing.ttf")})
	if err == nil {
		t.Fatal("PDFSummary() expected error for a missing font")
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output on error, got %d bytes", buf.Len())
	}
}

func TestPlainValue(t *testing.T) {
	tests := []struct {
		name     string
		line     calculator.Line
		expected string
	}{
		{"Won", calculator.Line{Value: 1234.5, Unit: calculator.UnitWon}, "1,234.50 KRW"},
		{"Deduction", calculator.Line{Value: 4850, Unit: calculator.UnitWon, Sign: "-"}, "- 4,850.00 KRW"},
		{"Foreign", calculator.Line{Value: 711.49, Unit: calculator.UnitForeign, Symbol: "$"}, "$711.49"},
		{"Months", calculator.Line{Value: 24, Unit: calculator.UnitMonths}, "24 months"},
		{"Text uses alt", calculator.Line{Unit: calculator.UnitText, Text: "포함", Alt: "included"}, "included"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := plainValue(tt.line); got != tt.expected {
				t.Errorf("plainValue() = %q, expected %q", got, tt.expected)
			}
		})
	}

	if got := plainLabel("net_pay"); got != "Net pay" {
		t.Errorf("plainLabel() = %q, expected %q", got, "Net pay")
	}
}
