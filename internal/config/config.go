// =============================================================================
// CSV Sales Watcher - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
//
// SOURCES (lowest to highest precedence):
//   1. Built-in defaults (SetDefaults)
//   2. The YAML configuration file (config.yaml, --config)
//   3. Environment variables, optionally loaded from a .env file
//   4. Command line flags (applied by the cmd package)
//
// ENVIRONMENT:
//   Every key can be overridden with its upper-cased, underscore-separated
//   name (csv.delimiter -> CSV_DELIMITER). The short names used by earlier
//   deployments are also honoured: WATCH_DIR, DEFAULT_LOG_FILE, KEY_NAME.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the global application configuration.
type Config struct {
	// WatchDir is the directory whose immediate .csv children are tracked.
	// Default: "./data"
	WatchDir string `mapstructure:"watch_dir" yaml:"watch_dir"`

	// OutputDir receives exported report files.
	// Default: "./reports"
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// LogFile is the log sink. A relative path is placed under
	// <watch_dir>/logs.
	// Default: "sales.log"
	LogFile string `mapstructure:"log_file" yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	CSV    CSVSettings    `mapstructure:"csv" yaml:"csv"`
	HTTP   HTTPSettings   `mapstructure:"http" yaml:"http"`
	Export ExportSettings `mapstructure:"export" yaml:"export"`
}

// =============================================================================
// CSV SETTINGS STRUCTURE
// =============================================================================

// CSVSettings contains settings for reading sales files.
type CSVSettings struct {
	// Delimiter is the character used to separate fields.
	// Accepted spellings: ";", "semicolon", ",", "|", "pipe", "\t", "tab".
	// Default: ";"
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`

	// KeyName is the column holding the HH:MM time-of-day row key.
	// Default: "hour"
	KeyName string `mapstructure:"key_name" yaml:"key_name"`

	// DateLayout is the Go time layout of a file base name.
	// Default: "2006-01-02"
	DateLayout string `mapstructure:"date_layout" yaml:"date_layout"`

	// TimeLayout is the Go time layout of the row key column.
	// Default: "15:04"
	TimeLayout string `mapstructure:"time_layout" yaml:"time_layout"`

	// Fields maps the record attributes to column names.
	Fields FieldNames `mapstructure:"fields" yaml:"fields"`

	// TransformationRules are applied to raw fields before decoding.
	TransformationRules []TransformationRule `mapstructure:"transformation_rules" yaml:"transformation_rules"`
}

// FieldNames names the columns that make up an hourly sales record.
type FieldNames struct {
	Amount  string `mapstructure:"amount" yaml:"amount"`
	Product string `mapstructure:"product" yaml:"product"`
	Region  string `mapstructure:"region" yaml:"region"`
}

// =============================================================================
// TRANSFORMATION RULE STRUCTURE
// =============================================================================

// TransformationRule defines a transformation to apply to a specific field.
type TransformationRule struct {
	// Field is the column header the actions apply to.
	Field string `mapstructure:"field" yaml:"field"`

	// Actions are applied in order.
	Actions []TransformationAction `mapstructure:"actions" yaml:"actions"`
}

// TransformationAction defines a single transformation action.
type TransformationAction struct {
	// Type is the type of transformation to apply.
	// Supported types:
	//   - "trim"           : Remove leading and trailing whitespace
	//   - "uppercase"      : Convert to uppercase
	//   - "lowercase"      : Convert to lowercase
	//   - "title"          : Upper-case the first letter, lower-case the rest
	//   - "replace"        : Replace Find with Value
	//   - "lookup"         : Replace the value using LookupTable
	//   - "prepend_string" : Add Value to the beginning
	//   - "append_string"  : Add Value to the end
	Type string `mapstructure:"type" yaml:"type"`

	// Value is the parameter for the transformation.
	Value string `mapstructure:"value" yaml:"value"`

	// Find is used for "replace" transformations.
	Find string `mapstructure:"find" yaml:"find,omitempty"`

	// LookupTable is used for "lookup" transformations. Values missing from
	// the table pass through unchanged.
	LookupTable map[string]string `mapstructure:"lookup_table" yaml:"lookup_table,omitempty"`
}

// =============================================================================
// HTTP AND EXPORT SETTINGS
// =============================================================================

// HTTPSettings configures the read-only report API.
type HTTPSettings struct {
	Enabled         bool          `mapstructure:"enabled" yaml:"enabled"`
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// ExportSettings configures the scheduled report export.
type ExportSettings struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Cron    string `mapstructure:"cron" yaml:"cron"`

	// Formats lists the export formats (xlsx, pdf, xml, json). A comma
	// separated string is accepted from the environment.
	Formats []string `mapstructure:"formats" yaml:"formats"`

	// FileNameFormat names exported files.
	// Placeholders:
	//   {report}    - Report name ("sales_report")
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {uuid}      - A random UUID
	FileNameFormat string `mapstructure:"file_name_format" yaml:"file_name_format"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Supported values checked by Validate.
var (
	ExportFormats = []string{"xlsx", "pdf", "xml", "json"}
	LogFormats    = []string{"text", "json"}
)

// legacyEnv lists environment variable names accepted in addition to the
// automatic upper-cased key.
var legacyEnv = map[string][]string{
	"watch_dir":     {"WATCH_DIR"},
	"log_file":      {"LOG_FILE", "DEFAULT_LOG_FILE"},
	"csv.delimiter": {"CSV_DELIMITER"},
	"csv.key_name":  {"KEY_NAME"},
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("watch_dir", "./data")
	v.SetDefault("output_dir", "./reports")
	v.SetDefault("log_file", "sales.log")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetDefault("csv.delimiter", ";")
	v.SetDefault("csv.key_name", "hour")
	v.SetDefault("csv.date_layout", "2006-01-02")
	v.SetDefault("csv.time_layout", "15:04")
	v.SetDefault("csv.fields.amount", "sales_amount")
	v.SetDefault("csv.fields.product", "product")
	v.SetDefault("csv.fields.region", "region")

	v.SetDefault("http.enabled", false)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", "15s")

	v.SetDefault("export.enabled", false)
	v.SetDefault("export.cron", "0 * * * *")
	v.SetDefault("export.formats", []string{"xlsx"})
	v.SetDefault("export.file_name_format", "{report}_{timestamp}_{uuid}")
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load builds the configuration from defaults, the YAML file at configPath
// and the environment.
//
// PARAMETERS:
//   - configPath: The path to the YAML configuration file. A missing file is
//     not an error; the defaults and the environment are used instead.
//
// RETURNS:
//   - A pointer to the validated Config.
//   - An error if the file cannot be parsed or a value is invalid.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	SetDefaults(v)

	if configPath != "" {
		if err := mergeYAMLFile(v, configPath); err != nil {
			return nil, err
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	config := &Config{}
	err := v.Unmarshal(config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// mergeYAMLFile decodes the YAML file and merges it over the defaults.
func mergeYAMLFile(v *viper.Viper, configPath string) error {
	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		logrus.WithField("file", configPath).Debug("config file not found, using defaults and environment")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	raw := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := v.MergeConfigMap(raw); err != nil {
		return fmt.Errorf("failed to merge config file: %w", err)
	}
	return nil
}

// loadEnvFile loads a .env file from the working directory when one exists.
// Variables already set in the environment are not overridden.
func loadEnvFile() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.WithError(err).Warn("failed to load .env file")
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate rejects configurations the watcher cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.WatchDir) == "" {
		return errors.New("watch_dir must not be empty")
	}
	if strings.TrimSpace(c.CSV.KeyName) == "" {
		return errors.New("csv.key_name must not be empty")
	}
	if _, err := DelimiterRune(c.CSV.Delimiter); err != nil {
		return err
	}
	if !contains(LogFormats, c.LogFormat) {
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	for _, f := range c.Export.Formats {
		if !contains(ExportFormats, strings.ToLower(f)) {
			return fmt.Errorf("unknown export format %q", f)
		}
	}
	for _, rule := range c.CSV.TransformationRules {
		if rule.Field == "" {
			return errors.New("transformation rule without field")
		}
	}
	return nil
}

// DelimiterRune resolves a configured delimiter to the rune used by the CSV
// reader. The empty string selects the default ';'.
func DelimiterRune(delimiter string) (rune, error) {
	switch delimiter {
	case "", ";", "semicolon":
		return ';', nil
	case "\\t", "\t", "tab", "TAB":
		return '\t', nil
	case "|", "pipe", "PIPE":
		return '|', nil
	case ",", "comma":
		return ',', nil
	}

	runes := []rune(delimiter)
	if len(runes) != 1 || runes[0] == '"' || runes[0] == '\r' || runes[0] == '\n' {
		return 0, fmt.Errorf("invalid csv.delimiter %q: must be a single character", delimiter)
	}
	return runes[0], nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
