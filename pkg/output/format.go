// Package output provides utilities for formatting and displaying calculation results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/dream-calc/internal/calculator"
	"github.com/iwvelando/dream-calc/pkg/format"
	"github.com/iwvelando/dream-calc/pkg/loans"
)

// AppTitle prefixes the heading of text exports.
const AppTitle = "꿈의 저축"

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, results []calculator.Result) {
	for i, result := range results {
		fmt.Fprintf(w, "--- Results for %s %s ---\n", result.Type, result.Name)
		if result.Err != nil {
			fmt.Fprintf(w, "error: %v\n", result.Err)
		} else {
			if result.Title != "" {
				fmt.Fprintf(w, "[%s]", result.Title)
				if result.Note != "" {
					fmt.Fprintf(w, " %s", result.Note)
				}
				fmt.Fprintf(w, "\n")
			}
			for _, line := range result.Inputs {
				fmt.Fprintf(w, "  %s | %s\n", line.Label, line.Display())
			}
			fmt.Fprintf(w, "  ____ | ______\n")
			for _, line := range result.Lines {
				marker := " "
				if line.Total {
					marker = "★"
				}
				fmt.Fprintf(w, "%s %s | %s\n", marker, line.Label, line.Display())
			}
			if len(result.Schedule) > 0 {
				fmt.Fprintf(w, "\n")
				prettySchedule(w, result.Schedule)
			}
		}
		if len(results) > 1 && i < len(results)-1 {
			fmt.Fprintf(w, "\n")
		}
	}
}

func prettySchedule(w io.Writer, schedule []loans.Payment) {
	fmt.Fprintf(w, "회차 | 상환금 | 원금 | 이자 | 잔액\n")
	fmt.Fprintf(w, "____ | ______ | ____ | ____ | ____\n")
	for _, payment := range schedule {
		fmt.Fprintf(w, "%d | %s | %s | %s | %s\n",
			payment.Month,
			format.KRW(payment.Payment),
			format.KRW(payment.Principal),
			format.KRW(payment.Interest),
			format.KRW(payment.RemainingPrincipal),
		)
	}
}

// CsvFormat outputs in comma-separated value format, one row per input and
// result line. Values keep two decimals; display keeps the rendered text.
func CsvFormat(w io.Writer, results []calculator.Result) error {
	out := csv.NewWriter(w)
	if err := out.Write([]string{"name", "type", "section", "key", "label", "value", "display"}); err != nil {
		return err
	}

	for _, result := range results {
		if result.Err != nil {
			if err := out.Write([]string{result.Name, result.Type, "error", "", "", "", result.Err.Error()}); err != nil {
				return err
			}
			continue
		}
		for _, section := range []struct {
			name  string
			lines []calculator.Line
		}{
			{"input", result.Inputs},
			{"result", result.Lines},
		} {
			for _, line := range section.lines {
				record := []string{
					result.Name,
					result.Type,
					section.name,
					line.Key,
					line.Label,
					strconv.FormatFloat(line.Value, 'f', 2, 64),
					line.Display(),
				}
				if err := out.Write(record); err != nil {
					return err
				}
			}
		}
	}

	out.Flush()
	return out.Error()
}

// ScheduleCSV writes a loan schedule as a CSV table.
func ScheduleCSV(w io.Writer, schedule []loans.Payment) error {
	out := csv.NewWriter(w)
	if err := out.Write([]string{"month", "payment", "principal", "interest", "remaining_principal"}); err != nil {
		return err
	}
	for _, payment := range schedule {
		record := []string{
			strconv.Itoa(payment.Month),
			strconv.FormatFloat(payment.Payment, 'f', 2, 64),
			strconv.FormatFloat(payment.Principal, 'f', 2, 64),
			strconv.FormatFloat(payment.Interest, 'f', 2, 64),
			strconv.FormatFloat(payment.RemainingPrincipal, 'f', 2, 64),
		}
		if err := out.Write(record); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

// TextSummary renders the plain-text export of a result: the heading, the
// inputs and the total lines. A savings result reads
//
//	[꿈의 저축 - 이자 계산]
//
//	목표 금액: 10,000,000원
//	기간: 12개월 (월복리, 3.5%)
//
//	★ 만기 수령액: 10,300,896원
func TextSummary(result calculator.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s - %s]", AppTitle, result.Title)

	if result.Err != nil {
		fmt.Fprintf(&b, "\n\n오류: %v", result.Err)
		return b.String()
	}

	if len(result.Inputs) > 0 {
		b.WriteString("\n")
		for _, line := range result.Inputs {
			fmt.Fprintf(&b, "\n%s: %s", line.Label, line.Display())
		}
	}

	totals := result.Totals()
	if len(totals) > 0 {
		b.WriteString("\n")
		for _, line := range totals {
			fmt.Fprintf(&b, "\n★ %s: %s", line.Label, line.Display())
		}
	}

	if result.Note != "" {
		fmt.Fprintf(&b, "\n\n(%s)", result.Note)
	}
	return b.String()
}
