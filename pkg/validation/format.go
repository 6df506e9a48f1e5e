// Package validation provides the input boundary of the calculators: the error
// taxonomy, numeric domain checks and numeric text parsing.
package validation

import (
	"fmt"

	"github.com/iwvelando/dream-calc/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatText:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatText, format)
}

// ValidateExportFormat checks if the export format is one of the downloadable formats.
func ValidateExportFormat(format string) error {
	switch format {
	case constants.OutputFormatText, constants.OutputFormatCSV, constants.OutputFormatPDF:
		return nil
	}
	return fmt.Errorf("%w: expected export format of %s, %s or %s, got %s", ErrInvalidInput,
		constants.OutputFormatText, constants.OutputFormatCSV, constants.OutputFormatPDF, format)
}
