package record

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns that are absent from the header.
// It is raised once, before any row is read.
type SchemaError struct {
	Required []string
	Found    []string
	Missing  []string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required column(s) %s (required: %s; found: %s)",
		strings.Join(e.Missing, ", "),
		strings.Join(e.Required, ", "),
		joinOrNone(e.Found),
	)
}

// CheckSchema verifies that every required column appears in the header.
// Matching is exact and case-sensitive.
func CheckSchema(headers, required []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	var missing []string
	for _, column := range required {
		if !present[column] {
			missing = append(missing, column)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	return &SchemaError{
		Required: append([]string(nil), required...),
		Found:    append([]string(nil), headers...),
		Missing:  missing,
	}
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}
