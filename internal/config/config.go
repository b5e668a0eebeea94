package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "bioret.yaml"

// Config holds all bioret configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Workbook and sheet selection
	Input InputConfig `yaml:"input"`

	// Column names inside each sheet
	Columns ColumnConfig `yaml:"columns"`

	// Stewardship label normalization
	Stewardship StewardshipConfig `yaml:"stewardship"`

	// Feature alignment between the two assessments
	Features FeatureConfig `yaml:"features"`

	// Score projection
	Forecast ForecastConfig `yaml:"forecast"`

	// CSV outputs
	Output OutputConfig `yaml:"output"`

	// Run history database
	Store StoreConfig `yaml:"store"`

	// Watch mode
	Watch WatchConfig `yaml:"watch"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "bioret",
		Version: "0.3.0",

		Input: InputConfig{
			Workbook:    "data/bioretention_assessments.xlsx",
			BeforeSheet: "2022",
			AfterSheet:  "2024",
			BeforeYear:  2022,
			AfterYear:   2024,
		},

		Columns: ColumnConfig{
			GRIID:          "GRI ID",
			Stewardship:    "Stewardship",
			ConditionScore: "Condition Score",
			Ignore: []string{
				"Notes", "Comments", "Inspector", "Inspection Date",
				"Address", "Latitude", "Longitude", "X", "Y", "Year",
			},
		},

		Stewardship: StewardshipConfig{
			Aliases: DefaultStewardshipAliases(),
		},

		Features: FeatureConfig{
			Aliases:       map[string]string{},
			LowerIsBetter: true,
		},

		Forecast: ForecastConfig{
			TargetYear: 2026,
		},

		Output: OutputConfig{
			Dir:       "out",
			Precision: 3,
			Files:     DefaultOutputFiles(),
		},

		Store: StoreConfig{
			Enabled: false,
			Path:    "data/bioret.db",
		},

		Watch: WatchConfig{
			Debounce: "500ms",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Defaults still honour the environment
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("BIORET_WORKBOOK"); path != "" {
		c.Input.Workbook = path
	}
	if dir := os.Getenv("BIORET_OUTPUT_DIR"); dir != "" {
		c.Output.Dir = dir
	}
	// Setting a database path implies the store is wanted
	if path := os.Getenv("BIORET_DB"); path != "" {
		c.Store.Path = path
		c.Store.Enabled = true
	}
	if level := os.Getenv("BIORET_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// GetWatchDebounce returns the watch debounce as a duration.
func (c *Config) GetWatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ValidLogFormats lists the accepted logging encoders.
var ValidLogFormats = []string{"console", "json"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input.Workbook) == "" {
		return fmt.Errorf("input workbook not configured (set input.workbook or BIORET_WORKBOOK)")
	}
	if c.Input.BeforeSheet == "" || c.Input.AfterSheet == "" {
		return fmt.Errorf("both input.before_sheet and input.after_sheet are required")
	}
	if c.Input.BeforeSheet == c.Input.AfterSheet {
		return fmt.Errorf("before and after sheets must differ (both %q)", c.Input.BeforeSheet)
	}
	if c.Input.AfterYear <= c.Input.BeforeYear {
		return fmt.Errorf("after_year (%d) must be later than before_year (%d)", c.Input.AfterYear, c.Input.BeforeYear)
	}
	if c.Columns.GRIID == "" || c.Columns.ConditionScore == "" {
		return fmt.Errorf("columns.gri_id and columns.condition_score are required")
	}
	if err := c.Stewardship.validate(); err != nil {
		return err
	}
	if c.Forecast.TargetYear <= c.Input.AfterYear {
		return fmt.Errorf("forecast.target_year (%d) must be later than after_year (%d)", c.Forecast.TargetYear, c.Input.AfterYear)
	}
	if c.Output.Precision < 0 || c.Output.Precision > 10 {
		return fmt.Errorf("output.precision must be between 0 and 10, got %d", c.Output.Precision)
	}
	if err := c.Output.Files.validate(); err != nil {
		return err
	}
	if c.Store.Enabled && c.Store.Path == "" {
		return fmt.Errorf("store enabled but store.path is empty")
	}
	if !contains(ValidLogLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}
	if !contains(ValidLogFormats, c.Logging.Format) {
		return fmt.Errorf("invalid log format: %s (valid: %v)", c.Logging.Format, ValidLogFormats)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
