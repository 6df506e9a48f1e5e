package output

import (
	"fmt"
	"io"

	"github.com/iwvelando/dream-calc/internal/calculator"
	"github.com/iwvelando/dream-calc/pkg/constants"
	"github.com/iwvelando/dream-calc/pkg/validation"
)

// exportNames are the download names of each calculation type.
var exportNames = map[string]string{
	"exchange": "환율계산_결과",
	"wage":     "알바급여_결과",
	"salary":   "급여명세서_결과",
	"savings":  "dream_savings",
	"loan":     "대출계산_결과",
}

// FileName returns the download file name of an export.
func FileName(kind, exportFormat string) string {
	name, ok := exportNames[kind]
	if !ok {
		name = "dream_calc_" + kind
	}
	switch exportFormat {
	case constants.OutputFormatPDF:
		return name + ".pdf"
	case constants.OutputFormatCSV:
		return name + ".csv"
	}
	return name + ".txt"
}

// ContentType returns the MIME type of an export format.
func ContentType(exportFormat string) string {
	switch exportFormat {
	case constants.OutputFormatPDF:
		return "application/pdf"
	case constants.OutputFormatCSV:
		return "text/csv; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Export writes the downloadable summary of result in the given format. A CSV
// export of a loan with a schedule carries the schedule table after a blank
// line.
func Export(w io.Writer, result calculator.Result, exportFormat string, opts PDFOptions) error {
	if err := validation.ValidateExportFormat(exportFormat); err != nil {
		return err
	}

	switch exportFormat {
	case constants.OutputFormatPDF:
		return PDFSummary(w, result, opts)
	case constants.OutputFormatCSV:
		if err := CsvFormat(w, []calculator.Result{result}); err != nil {
			return err
		}
		if len(result.Schedule) == 0 {
			return nil
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		return ScheduleCSV(w, result.Schedule)
	}
	_, err := io.WriteString(w, TextSummary(result))
	return err
}
