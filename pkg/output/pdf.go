package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/dream-calc/internal/calculator"
	"github.com/iwvelando/dream-calc/pkg/format"
	"github.com/jung-kurt/gofpdf"
)

const utf8FontFamily = "dreamcalc"

// PDFOptions configures PDF rendering. With FontPath set to a UTF-8 TrueType
// font the Korean labels are drawn; otherwise the core Helvetica font is used
// with the English line keys.
type PDFOptions struct {
	FontPath string
}

// PDFSummary writes a one-page summary of result as a PDF document.
func PDFSummary(w io.Writer, result calculator.Result, opts PDFOptions) error {
	pdf := gofpdf.New("P", "mm", "A4", "")

	korean := opts.FontPath != ""
	family := "Helvetica"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if korean {
		if _, err := os.Stat(opts.FontPath); err != nil {
			return fmt.Errorf("pdf font: %w", err)
		}
		pdf.AddUTF8Font(utf8FontFamily, "", opts.FontPath)
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("pdf font: %w", err)
		}
		family = utf8FontFamily
		tr = func(s string) string { return s }
	}

	pdf.AddPage()
	pdf.SetFont(family, "", 16)
	title := fmt.Sprintf("dream-calc: %s %s", result.Type, result.Name)
	if korean {
		title = fmt.Sprintf("[%s - %s] %s", AppTitle, result.Title, result.Name)
	}
	pdf.Cell(0, 10, tr(strings.TrimSpace(title)))
	pdf.Ln(12)

	pdf.SetFont(family, "", 12)
	if result.Err != nil {
		pdf.Cell(0, 8, tr("Error: "+result.Err.Error()))
		pdf.Ln(7)
		return pdf.Output(w)
	}

	if result.Note != "" && korean {
		pdf.Cell(0, 8, result.Note)
		pdf.Ln(10)
	}

	row := func(line calculator.Line) {
		label, value := plainLabel(line.Key), plainValue(line)
		if korean {
			label, value = line.Label, line.Display()
		}
		if line.Total {
			label = "* " + label
		}
		pdf.CellFormat(90, 8, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, tr(value), "", 1, "R", false, 0, "")
	}

	for _, line := range result.Inputs {
		row(line)
	}
	pdf.Ln(4)
	for _, line := range result.Lines {
		row(line)
	}

	if len(result.Schedule) > 0 {
		pdf.Ln(6)
		pdf.SetFont(family, "", 9)
		headers := []string{"Month", "Payment", "Principal", "Interest", "Remaining"}
		widths := []float64{20, 42, 42, 42, 44}
		for i, header := range headers {
			pdf.CellFormat(widths[i], 6, header, "B", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
		for _, payment := range result.Schedule {
			cells := []string{
				strconv.Itoa(payment.Month),
				format.Fixed(payment.Payment),
				format.Fixed(payment.Principal),
				format.Fixed(payment.Interest),
				format.Fixed(payment.RemainingPrincipal),
			}
			for i, cell := range cells {
				pdf.CellFormat(widths[i], 5, cell, "", 0, "R", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	return pdf.Output(w)
}

// plainLabel turns a line key such as "net_pay" into "Net pay".
func plainLabel(key string) string {
	label := strings.ReplaceAll(key, "_", " ")
	if label == "" {
		return label
	}
	runes := []rune(label)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// plainValue renders a line without Hangul.
func plainValue(line calculator.Line) string {
	var value string
	switch line.Unit {
	case calculator.UnitWon:
		value = format.Fixed(line.Value) + " KRW"
	case calculator.UnitForeign:
		value = line.Symbol + format.Fixed(line.Value)
	case calculator.UnitPercent:
		value = format.Percent(line.Value)
	case calculator.UnitHours:
		value = strconv.FormatFloat(line.Value, 'f', -1, 64) + " h"
	case calculator.UnitMonths:
		value = format.Number(line.Value) + " months"
	case calculator.UnitText:
		return line.Alt
	default:
		value = format.Number(line.Value)
	}
	if line.Sign != "" {
		return line.Sign + " " + value
	}
	return value
}
