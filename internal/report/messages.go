package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/shop-analytics/internal/analytics"
	"github.com/ginjaninja78/shop-analytics/internal/record"
	"github.com/ginjaninja78/shop-analytics/internal/types"
)

// WriteError writes the user-facing explanation of a failed report. File
// and schema problems get remediation hints; anything else a generic
// message with the cause.
func WriteError(w io.Writer, err error) {
	var (
		fileErr    *types.FileError
		schemaErr  *record.SchemaError
		unexpected *analytics.UnexpectedError
	)

	switch {
	case errors.As(err, &fileErr):
		WriteFileNotFound(w, fileErr.Path)
	case errors.Is(err, types.ErrFileNotFound):
		WriteFileNotFound(w, "")
	case errors.As(err, &schemaErr):
		fmt.Fprintln(w, "Error: the input file does not have the columns this report needs.")
		fmt.Fprintf(w, "  Required columns: %s\n", strings.Join(schemaErr.Required, ", "))
		fmt.Fprintf(w, "  Found columns:    %s\n", listOrNone(schemaErr.Found))
		fmt.Fprintf(w, "  Missing columns:  %s\n", strings.Join(schemaErr.Missing, ", "))
	case errors.As(err, &unexpected):
		fmt.Fprintf(w, "Error: an unexpected problem stopped the %s report: %v\n", unexpected.Report, unexpected.Err)
	default:
		fmt.Fprintf(w, "Error: an unexpected problem occurred: %v\n", err)
	}
}

// WriteFileNotFound writes the remediation hints for an input file that
// cannot be opened.
func WriteFileNotFound(w io.Writer, path string) {
	if path == "" {
		fmt.Fprintln(w, "Error: the input file could not be found or opened.")
	} else {
		fmt.Fprintf(w, "Error: the input file '%s' could not be found or opened.\n", path)
	}
	fmt.Fprintln(w, "Please check that:")
	fmt.Fprintln(w, "  1. the file name is correct")
	fmt.Fprintln(w, "  2. the file is in the expected location")
	fmt.Fprintln(w, "  3. the file is not open in another program")
}

func listOrNone(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}
