package integration

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/iwvelando/dream-calc/internal/calculator"
	"github.com/iwvelando/dream-calc/internal/config"
	"github.com/iwvelando/dream-calc/pkg/exchange"
	"github.com/iwvelando/dream-calc/pkg/loans"
	"github.com/iwvelando/dream-calc/pkg/payroll"
	"github.com/iwvelando/dream-calc/pkg/savings"
	"go.uber.org/zap"
)

// TestPerformance tests performance characteristics
func TestPerformance(t *testing.T) {
	endpoint := rateSource(t, nil).URL

	start := time.Now()
	conf := loadTestConfig(t, endpoint)
	loadTime := time.Since(start)

	start = time.Now()
	results := runTestConfig(t, conf)
	runTime := time.Since(start)

	t.Logf("Performance metrics:")
	t.Logf("  Load config: %v", loadTime)
	t.Logf("  Run calculations: %v", runTime)

	if total := loadTime + runTime; total > 5*time.Second {
		t.Errorf("Total processing time %v exceeds 5 second threshold", total)
	}
	if len(results) != 5 {
		t.Errorf("Expected 5 results, got %d", len(results))
	}
}

// TestLongLoanSchedule generates a 40 year schedule.
func TestLongLoanSchedule(t *testing.T) {
	calc := calculator.New(zap.NewNop(), nil, nil)

	start := time.Now()
	result, err := calc.Loan(loans.Input{Principal: 500000000, AnnualRatePercent: 4.2, TermMonths: 480}, true)
	if err != nil {
		t.Fatalf("Loan() error = %v", err)
	}
	elapsed := time.Since(start)

	if len(result.Schedule) != 480 {
		t.Fatalf("Expected 480 payments, got %d", len(result.Schedule))
	}
	if last := result.Schedule[479].RemainingPrincipal; last != 0 {
		t.Errorf("Expected the schedule to end at zero, got %v", last)
	}
	if elapsed > time.Second {
		t.Errorf("Schedule generation took %v", elapsed)
	}
}

// TestDataConsistency validates that multiple runs produce identical results
func TestDataConsistency(t *testing.T) {
	endpoint := rateSource(t, nil).URL

	first := runTestConfig(t, loadTestConfig(t, endpoint))
	for i := 0; i < 5; i++ {
		again := runTestConfig(t, loadTestConfig(t, endpoint))
		for j := range first {
			if !reflect.DeepEqual(first[j].Lines, again[j].Lines) {
				t.Errorf("Run %d: %s differs from the first run", i, first[j].Name)
			}
		}
	}
}

// TestConcurrentCalculations shares one Calculator across goroutines.
func TestConcurrentCalculations(t *testing.T) {
	calc := calculator.New(zap.NewNop(), config.Default(), nil)

	expected, err := calc.Salary(payroll.Input{GrossAmount: 40000000, Period: payroll.PeriodYear, DependentCountIncludingSelf: 1})
	if err != nil {
		t.Fatalf("Salary() error = %v", err)
	}

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan string, workers*3)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			salary, err := calc.Salary(payroll.Input{GrossAmount: 40000000, Period: payroll.PeriodYear, DependentCountIncludingSelf: 1})
			if err != nil || !reflect.DeepEqual(salary.Lines, expected.Lines) {
				errs <- "salary"
			}
			if _, err := calc.Savings(savings.Input{Principal: 1000000, AnnualRatePercent: 3, TermMonths: 12, Compounding: savings.Simple}); err != nil {
				errs <- "savings"
			}
			if _, err := calc.Exchange(context.Background(), exchange.ConversionInput{AmountKRW: 1405500, Currency: "USD"}); err != nil {
				errs <- "exchange"
			}
		}()
	}
	wg.Wait()
	close(errs)

	for name := range errs {
		t.Errorf("concurrent %s calculation failed or differed", name)
	}
}
