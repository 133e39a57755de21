// =============================================================================
// Shop Analytics - Export Command
// =============================================================================
//
// This file defines the 'export' command, which writes all three reports to
// a file for other tools.
//
// COMMAND USAGE:
//   analytics export [--format xlsx|xml] [--n N] [--output PATH] [flags]
//
// FORMATS:
//   xlsx : one sheet per report plus a Warnings sheet (default)
//   xml  : a single <analytics> document
//
// OUTPUT:
//   The file is written to output_dir under a name generated from
//   export_file_format, unless --output names the file. With --output and no
//   --format, the format follows the file extension. The input is read once
//   for the three reports; any failing report fails the export.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/shop-analytics/internal/analytics"
	"github.com/ginjaninja78/shop-analytics/internal/report"
	"github.com/ginjaninja78/shop-analytics/internal/xmlwriter"
	"github.com/ginjaninja78/shop-analytics/pkg/utils"
)

// Export formats.
const (
	formatXLSX = "xlsx"
	formatXML  = "xml"
)

// exportPath overrides the generated output path.
var exportPath string

// exportFormat selects the export format.
var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the revenue, stock and best-sellers reports to an XLSX or XML file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app, w io.Writer) error {
			n, err := resolveTopN(cmd, a)
			if err != nil {
				return err
			}

			format := exportFormat
			if !cmd.Flags().Changed("format") && strings.EqualFold(filepath.Ext(exportPath), ".xml") {
				format = formatXML
			}

			return runExport(a, w, n, format, exportPath)
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().IntVar(
		&topN,
		"n",
		0,
		"Number of best sellers to export (default: top_n from the configuration)",
	)

	exportCmd.Flags().StringVar(
		&exportFormat,
		"format",
		formatXLSX,
		"Export format: xlsx or xml",
	)

	exportCmd.Flags().StringVarP(
		&exportPath,
		"output",
		"o",
		"",
		"Output path (default: generated in output_dir)",
	)
}

// runExport computes the snapshot and writes it in the requested format.
func runExport(a *app, w io.Writer, n int, format, path string) error {
	format = strings.ToLower(format)
	if format != formatXLSX && format != formatXML {
		return fmt.Errorf("unknown export format %q (expected %s or %s)", format, formatXLSX, formatXML)
	}

	snapshot, err := a.runner.Snapshot(n)
	if err != nil {
		return a.fail(err)
	}

	for _, rw := range snapshot.Warnings() {
		a.warnings = append(a.warnings, warningEntry(rw.Report, rw.Warning))
	}

	if path == "" {
		name := utils.GenerateOutputFileName(a.cfg.ExportFileFormat, map[string]string{"report": "all"}, "."+format)
		path = filepath.Join(a.cfg.OutputDir, name)
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	if err := writeExport(path, format, snapshot, a.opts); err != nil {
		return err
	}

	a.logger.Info("reports exported", "path", path, "format", format, "run", snapshot.RunID)
	fmt.Fprintf(w, "Reports written to %s\n", path)

	return nil
}

func writeExport(path, format string, snapshot *analytics.Snapshot, opts report.Options) error {
	if format == formatXLSX {
		return report.WriteWorkbook(path, snapshot, opts)
	}

	xmlOpts := xmlwriter.DefaultGenerateOptions()
	xmlOpts.CurrencySymbol = opts.CurrencySymbol

	data, err := xmlwriter.GenerateWithOptions(snapshot, xmlOpts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
