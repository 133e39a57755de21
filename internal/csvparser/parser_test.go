package csvparser

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/shop-analytics/internal/config"
	"github.com/ginjaninja78/shop-analytics/internal/types"
)

func defaultSettings() config.CSVSettings {
	return config.CSVSettings{Delimiter: ",", Encoding: "UTF-8"}
}

func TestParseReader_HeaderAndRows(t *testing.T) {
	input := "Producte,Categoria,Quantitat_Venuda\n" +
		"Mouse, Perifèrics ,2\n" +
		"Teclat,Perifèrics\n"

	table, err := ParseReader(strings.NewReader(input), defaultSettings())
	require.NoError(t, err)

	assert.Equal(t, []string{"Producte", "Categoria", "Quantitat_Venuda"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, types.RawRow{"Producte": "Mouse", "Categoria": " Perifèrics ", "Quantitat_Venuda": "2"}, table.Rows[0],
		"values keep their surrounding whitespace")
	assert.Equal(t, "", table.Rows[1]["Quantitat_Venuda"], "missing trailing field is empty")
}

func TestParseReader_StripsUTF8BOM(t *testing.T) {
	input := "\xEF\xBB\xBFProducte,IVA\nMouse,21\n"

	table, err := ParseReader(strings.NewReader(input), defaultSettings())
	require.NoError(t, err)

	assert.Equal(t, "Producte", table.Headers[0])
	assert.Equal(t, "Mouse", table.Rows[0]["Producte"])
}

func TestParseReader_Latin1(t *testing.T) {
	// "Perifèrics" with è encoded as 0xE8.
	input := "Producte,Categoria\nMouse,Perif\xE8rics\n"
	settings := config.CSVSettings{Delimiter: ",", Encoding: "ISO-8859-1"}

	table, err := ParseReader(strings.NewReader(input), settings)
	require.NoError(t, err)

	assert.Equal(t, "Perifèrics", table.Rows[0]["Categoria"])
}

func TestParseReader_Delimiters(t *testing.T) {
	tests := []struct {
		name      string
		delimiter string
		input     string
	}{
		{"semicolon", ";", "A;B\n1;2\n"},
		{"named semicolon", "semicolon", "A;B\n1;2\n"},
		{"pipe", "pipe", "A|B\n1|2\n"},
		{"tab", "tab", "A\tB\n1\t2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := config.CSVSettings{Delimiter: tt.delimiter, Encoding: "UTF-8"}
			table, err := ParseReader(strings.NewReader(tt.input), settings)
			require.NoError(t, err)
			assert.Equal(t, types.RawRow{"A": "1", "B": "2"}, table.Rows[0])
		})
	}
}

func TestParseReader_KeepsBlankRows(t *testing.T) {
	table, err := ParseReader(strings.NewReader("A,B\n,\n1,2\n"), defaultSettings())
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, types.RawRow{"A": "", "B": ""}, table.Rows[0])
}

func TestParseReader_BlankHeaderPlaceholder(t *testing.T) {
	table, err := ParseReader(strings.NewReader("A,,C\n1,2,3\n"), defaultSettings())
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "Column_2", "C"}, table.Headers)
}

func TestParseReader_DuplicateHeaderKeepsFirstColumn(t *testing.T) {
	table, err := ParseReader(strings.NewReader("Producte,IVA,IVA\nMouse,21,\n"), defaultSettings())
	require.NoError(t, err)

	assert.Equal(t, []string{"Producte", "IVA", "IVA_3"}, table.Headers)
	assert.Equal(t, "21", table.Rows[0]["IVA"])
	assert.Equal(t, "", table.Rows[0]["IVA_3"])
}

func TestParseReader_EmptyInput(t *testing.T) {
	table, err := ParseReader(strings.NewReader(""), defaultSettings())
	require.NoError(t, err)

	assert.Empty(t, table.Headers)
	assert.Empty(t, table.Rows)
}

func TestParseReader_UnsupportedEncoding(t *testing.T) {
	settings := config.CSVSettings{Delimiter: ",", Encoding: "EBCDIC"}
	_, err := ParseReader(strings.NewReader("A\n1\n"), settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported encoding")
}

func TestRead_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datos.csv")
	require.NoError(t, os.WriteFile(path, []byte("Producte,IVA\nMouse,21\n"), 0o644))

	table, err := Read(path, defaultSettings())
	require.NoError(t, err)

	assert.Equal(t, path, table.SourceFile)
	assert.Len(t, table.Rows, 1)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.csv"), defaultSettings())
	require.Error(t, err)

	assert.True(t, errors.Is(err, types.ErrFileNotFound))
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	var fileErr *types.FileError
	require.ErrorAs(t, err, &fileErr)
	assert.Contains(t, fileErr.Path, "missing.csv")
}

func TestRead_Directory(t *testing.T) {
	_, err := Read(t.TempDir(), defaultSettings())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrFileNotFound)
}
