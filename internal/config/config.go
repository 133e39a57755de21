// =============================================================================
// Shop Analytics - Configuration Module
// =============================================================================
//
// This module loads and validates the application configuration.
//
// SOURCES (later sources override earlier ones):
//   1. The YAML config file (config.yaml by default, optional)
//   2. A .env file in the working directory, if present
//   3. ANALYTICS_* environment variables
//   4. Built-in defaults for anything still unset
//
// The resulting configuration is validated before it is returned, so the
// rest of the application can rely on every field being usable.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override, e.g.
// ANALYTICS_INPUT_FILE or ANALYTICS_CSV_DELIMITER.
const EnvPrefix = "ANALYTICS"

// DefaultConfigFile is used when --config is not given.
const DefaultConfigFile = "config.yaml"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// InputFile is the sales-and-inventory table to analyse.
	// A .xlsx extension selects the workbook reader, anything else is CSV.
	// Default: "datos.csv"
	InputFile string `yaml:"input_file" envconfig:"INPUT_FILE" validate:"required"`

	// Sheet is the worksheet to read for .xlsx input.
	// Default: the first sheet of the workbook.
	Sheet string `yaml:"sheet" envconfig:"SHEET"`

	// CSV contains settings for parsing CSV input.
	CSV CSVSettings `yaml:"csv" envconfig:"CSV"`

	// Columns maps the logical fields to the header names of the input.
	Columns Columns `yaml:"columns" envconfig:"COLUMNS"`

	// =========================================================================
	// REPORT SETTINGS
	// =========================================================================

	// TopN is the number of products listed by the best-sellers report.
	// Default: 3
	TopN int `yaml:"top_n" envconfig:"TOP_N" validate:"min=1"`

	// CurrencySymbol is appended to every currency amount.
	// Default: "€"
	CurrencySymbol string `yaml:"currency_symbol" envconfig:"CURRENCY_SYMBOL"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir receives exported workbooks and warning logs.
	// Default: "./output"
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`

	// ExportFileFormat is the name template for exported files. The
	// extension of the export format is appended.
	// Placeholders: {uuid}, {timestamp}, {date}, {time}, {report}
	// Default: "analytics_{timestamp}_{uuid}"
	ExportFileFormat string `yaml:"export_file_format" envconfig:"EXPORT_FILE_FORMAT"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	Log LogSettings `yaml:"log" envconfig:"LOG"`
}

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter separates fields. Accepts a single character or one of the
	// names "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string `yaml:"delimiter" envconfig:"DELIMITER"`

	// Encoding is the character encoding of the file.
	// Default: "UTF-8"
	Encoding string `yaml:"encoding" envconfig:"ENCODING" validate:"oneof=UTF-8 ISO-8859-1 Windows-1252"`
}

// Columns holds the header name of every field the reports understand.
// Header matching is exact and case-sensitive.
type Columns struct {
	Product       string `yaml:"product" envconfig:"PRODUCT" validate:"required"`
	Category      string `yaml:"category" envconfig:"CATEGORY" validate:"required"`
	QuantitySold  string `yaml:"quantity_sold" envconfig:"QUANTITY_SOLD" validate:"required"`
	UnitPrice     string `yaml:"unit_price" envconfig:"UNIT_PRICE" validate:"required"`
	TaxRate       string `yaml:"tax_rate" envconfig:"TAX_RATE" validate:"required"`
	StockQuantity string `yaml:"stock_quantity" envconfig:"STOCK_QUANTITY" validate:"required"`
}

// LogSettings controls the application logger.
type LogSettings struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`

	// File, when set, receives a copy of every log line.
	File string `yaml:"file" envconfig:"FILE"`
}

// DefaultColumns returns the header names used by the shop's export.
func DefaultColumns() Columns {
	return Columns{
		Product:       "Producte",
		Category:      "Categoria",
		QuantitySold:  "Quantitat_Venuda",
		UnitPrice:     "Preu_Unitari",
		TaxRate:       "IVA",
		StockQuantity: "Estoc_Disponible",
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// Load builds the configuration from the YAML file, the environment and the
// defaults.
//
// PARAMETERS:
//   - configPath: The path to the YAML configuration file.
//   - mustExist: When false, a missing file is not an error and the
//     configuration is built from the environment and defaults only.
//
// RETURNS:
//   - The validated configuration.
//   - An error if the file cannot be read or parsed, an environment value is
//     malformed, or validation fails.
func Load(configPath string, mustExist bool) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && !mustExist:
		// Defaults only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// A missing .env is the normal case.
	_ = godotenv.Load()

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.InputFile == "" {
		cfg.InputFile = "datos.csv"
	}
	if cfg.CSV.Delimiter == "" {
		cfg.CSV.Delimiter = ","
	}
	if cfg.CSV.Encoding == "" {
		cfg.CSV.Encoding = "UTF-8"
	}

	defaults := DefaultColumns()
	if cfg.Columns.Product == "" {
		cfg.Columns.Product = defaults.Product
	}
	if cfg.Columns.Category == "" {
		cfg.Columns.Category = defaults.Category
	}
	if cfg.Columns.QuantitySold == "" {
		cfg.Columns.QuantitySold = defaults.QuantitySold
	}
	if cfg.Columns.UnitPrice == "" {
		cfg.Columns.UnitPrice = defaults.UnitPrice
	}
	if cfg.Columns.TaxRate == "" {
		cfg.Columns.TaxRate = defaults.TaxRate
	}
	if cfg.Columns.StockQuantity == "" {
		cfg.Columns.StockQuantity = defaults.StockQuantity
	}

	if cfg.TopN == 0 {
		cfg.TopN = 3
	}
	if cfg.CurrencySymbol == "" {
		cfg.CurrencySymbol = "€"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.ExportFileFormat == "" {
		cfg.ExportFileFormat = "analytics_{timestamp}_{uuid}"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

var validate = validator.New()

// Validate checks the configuration against its struct tags and returns a
// single error listing every violation.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, formatFieldError(fe))
	}
	return errors.New(strings.Join(messages, "; "))
}

// formatFieldError turns a validator failure into a readable message.
func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Namespace())
	case "min":
		return fmt.Sprintf("%s must be at least %s (got %v)", fe.Namespace(), fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got %q)", fe.Namespace(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed the %q check", fe.Namespace(), fe.Tag())
	}
}
