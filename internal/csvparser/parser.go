// =============================================================================
// Shop Analytics - CSV Table Source
// =============================================================================
//
// This module reads the sales-and-inventory CSV export into a fully
// materialized table. It handles:
//   - Different delimiters (comma, semicolon, pipe, tab)
//   - UTF-8 input with or without a byte order mark
//   - Legacy single-byte encodings (ISO-8859-1, Windows-1252)
//   - Rows with missing trailing fields (treated as empty values)
//
// The whole file is read before returning: the best-sellers report needs
// every product total before it can rank anything, so there is no streaming
// mode.
//
// =============================================================================

package csvparser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/shop-analytics/internal/config"
	"github.com/ginjaninja78/shop-analytics/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Read opens a CSV file and returns its header and data rows.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: Delimiter and encoding settings.
//
// RETURNS:
//   - The parsed table.
//   - A *types.FileError if the file cannot be opened, or a wrapped read
//     error if the content is not valid CSV.
//
// The file is closed on every return path.
func Read(filePath string, settings config.CSVSettings) (*types.Table, error) {
	file, err := openInput(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	table, err := ParseReader(file, settings)
	if err != nil {
		return nil, err
	}
	table.SourceFile = filePath

	return table, nil
}

// openInput opens the file and rejects anything that is not a regular file.
func openInput(filePath string) (*os.File, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, &types.FileError{Path: filePath, Err: err}
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, &types.FileError{Path: filePath, Err: err}
	}
	if !info.Mode().IsRegular() {
		file.Close()
		return nil, &types.FileError{Path: filePath, Err: errors.New("not a regular file")}
	}

	return file, nil
}

// ParseReader parses CSV content from r.
//
// An empty input yields a table with no headers and no rows; the caller's
// schema check reports it.
func ParseReader(r io.Reader, settings config.CSVSettings) (*types.Table, error) {
	decoder, err := decoderFor(settings.Encoding)
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(transform.NewReader(r, decoder))
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	table := &types.Table{}
	if len(allRows) == 0 {
		return table, nil
	}

	table.Headers = cleanHeaders(allRows[0])
	table.Rows = extractDataRows(allRows[1:], table.Headers)

	return table, nil
}

// decoderFor returns the transformer that turns the file's bytes into UTF-8.
// For UTF-8 input a leading byte order mark is dropped.
func decoderFor(name string) (transform.Transformer, error) {
	var enc encoding.Encoding

	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "UTF-8", "UTF8":
		return unicode.BOMOverride(unicode.UTF8.NewDecoder()), nil
	case "ISO-8859-1", "LATIN1":
		enc = charmap.ISO8859_1
	case "WINDOWS-1252", "CP1252":
		enc = charmap.Windows1252
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}

	return enc.NewDecoder(), nil
}

// configureReader applies the delimiter and the lenient parsing options.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = []rune(settings.Delimiter)[0]
		} else {
			reader.Comma = ','
		}
	}

	// Short rows are padded with empty values instead of failing the file.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
}

// cleanHeaders trims header names. Blank headers get a positional
// placeholder so that no two columns share the empty key. A repeated name
// keeps its first column; later copies are renamed by position.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	seen := make(map[string]bool, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		switch {
		case header == "":
			header = fmt.Sprintf("Column_%d", i+1)
		case seen[header]:
			header = fmt.Sprintf("%s_%d", header, i+1)
		}
		seen[header] = true
		cleaned[i] = header
	}

	return cleaned
}

// extractDataRows converts each record to a RawRow keyed by header.
// Values are kept exactly as written; fields missing at the end of a short
// record are empty.
// Rows whose cells are all blank are kept so that they surface as
// incomplete-row warnings.
func extractDataRows(records [][]string, headers []string) []types.RawRow {
	rows := make([]types.RawRow, 0, len(records))

	for _, record := range records {
		row := make(types.RawRow, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows
}
