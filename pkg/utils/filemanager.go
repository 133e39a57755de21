// =============================================================================
// Shop Analytics - File Manager Utility
// =============================================================================
//
// This module provides the file utilities used by the commands:
//   - Output directory management
//   - Export file naming
//   - Warning log generation
//
// OUTPUT LAYOUT:
//   - Exported workbooks are written to output_dir under a generated name
//   - Warning logs are written next to them, one file per run
//   - Nothing is ever written next to the input file
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDir creates dir and its parents if they don't exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists checks if a regular file exists at path.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates a unique output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               {report}    - Report name, when given in params
//   - params: A map of extra placeholder values.
//   - ext: The extension of the export format, e.g. ".xlsx" or ".xml". An
//     export extension already in format is replaced by it.
//
// RETURNS:
//   - The generated file name, always ending in ext.
//
// EXAMPLE:
//   format: "analytics_{timestamp}_{uuid}", ext: ".xlsx"
//   output: "analytics_20240115_143022_a1b2c3d4-e5f6-7890-abcd-ef1234567890.xlsx"
func GenerateOutputFileName(format string, params map[string]string, ext string) string {
	for _, known := range exportExtensions {
		if strings.EqualFold(filepath.Ext(format), known) {
			format = strings.TrimSuffix(format, filepath.Ext(format))
			break
		}
	}
	return generateFileName(format, params, time.Now(), ext)
}

// exportExtensions are the extensions of the supported export formats.
var exportExtensions = []string{".xlsx", ".xml"}

func generateFileName(format string, params map[string]string, now time.Time, ext string) string {
	id := uuid.New()
	replacements := map[string]string{
		"{uuid}":      id.String(),
		"{id}":        id.String()[:8],
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}

	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if !strings.HasSuffix(strings.ToLower(result), ext) {
		result += ext
	}

	return result
}

// =============================================================================
// WARNING LOG GENERATION
// =============================================================================

// warningLogFormat names warning logs. The short ID keeps two runs within
// the same second apart.
const warningLogFormat = "warnings_{timestamp}_{id}"

// WarningLogEntry represents one skipped row in the warning log.
type WarningLogEntry struct {
	Report     string
	Kind       string
	Message    string
	RowNumber  int
	Product    string
	FieldName  string
	FieldValue string
}

// WriteWarningLog writes the skipped rows of a run to a log file.
//
// PARAMETERS:
//   - entries: The warnings to write.
//   - sourceFile: The input file the warnings refer to.
//   - outputDir: The directory to write the log file.
//
// RETURNS:
//   - The path to the warning log file, or "" when there was nothing to write.
//   - An error if writing fails.
func WriteWarningLog(entries []WarningLogEntry, sourceFile, outputDir string) (path string, err error) {
	if len(entries) == 0 {
		return "", nil
	}

	if err := EnsureDir(outputDir); err != nil {
		return "", err
	}

	now := time.Now()
	logPath := filepath.Join(outputDir, generateFileName(warningLogFormat, nil, now, ".txt"))

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create warning log: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close warning log: %w", closeErr)
		}
	}()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "Shop Analytics - Warning Log\n"+
		"Generated:      %s\n"+
		"Input file:     %s\n"+
		"Skipped rows:   %d\n"+
		"================================================================================\n\n",
		now.Format("2006-01-02 15:04:05"),
		sourceFile,
		len(entries))

	for i, entry := range entries {
		fmt.Fprintf(writer, "Warning #%d\n", i+1)
		if entry.Report != "" {
			fmt.Fprintf(writer, "  Report:         %s\n", entry.Report)
		}
		fmt.Fprintf(writer, "  Kind:           %s\n", entry.Kind)
		fmt.Fprintf(writer, "  Message:        %s\n", entry.Message)
		if entry.RowNumber > 0 {
			fmt.Fprintf(writer, "  Row Number:     %d\n", entry.RowNumber)
		}
		if entry.Product != "" {
			fmt.Fprintf(writer, "  Product:        %s\n", entry.Product)
		}
		if entry.FieldName != "" {
			fmt.Fprintf(writer, "  Field:          %s\n", entry.FieldName)
		}
		if entry.FieldValue != "" {
			fmt.Fprintf(writer, "  Value:          %s\n", entry.FieldValue)
		}
		fmt.Fprintln(writer)
	}

	writer.WriteString("================================================================================\n" +
		"End of Warning Log\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush warning log: %w", err)
	}

	return logPath, nil
}
