package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// UNIFIED CONFIG TESTS
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "bioret" {
		t.Errorf("expected Name=bioret, got %s", cfg.Name)
	}
	if cfg.Input.BeforeSheet != "2022" || cfg.Input.AfterSheet != "2024" {
		t.Errorf("unexpected default sheets %q/%q", cfg.Input.BeforeSheet, cfg.Input.AfterSheet)
	}
	if cfg.Forecast.TargetYear != 2026 {
		t.Errorf("expected TargetYear=2026, got %d", cfg.Forecast.TargetYear)
	}
	if !cfg.Features.LowerIsBetter {
		t.Error("expected LowerIsBetter by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("BIORET_WORKBOOK", "")
	t.Setenv("BIORET_OUTPUT_DIR", "")
	t.Setenv("BIORET_DB", "")
	t.Setenv("BIORET_LOG_LEVEL", "")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "bioret.yaml")

	cfg := DefaultConfig()
	cfg.Input.Workbook = "sites.xlsx"
	cfg.Features.Aliases = map[string]string{"Sediment": "sediment_debris"}
	cfg.Output.Precision = 2

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sites.xlsx", loaded.Input.Workbook)
	assert.Equal(t, 2, loaded.Output.Precision)
	assert.Equal(t, "sediment_debris", loaded.Features.Aliases["Sediment"])
	assert.Equal(t, cfg.Stewardship.Aliases, loaded.Stewardship.Aliases)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("BIORET_WORKBOOK", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Input, cfg.Input)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bioret.yaml")
	content := "input:\n  workbook: field.xlsx\nforecast:\n  target_year: 2030\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "field.xlsx", cfg.Input.Workbook)
	assert.Equal(t, 2030, cfg.Forecast.TargetYear)
	assert.Equal(t, "2022", cfg.Input.BeforeSheet)
	assert.True(t, cfg.Features.LowerIsBetter)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bioret.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input: [unclosed"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Run("workbook and output dir", func(t *testing.T) {
		t.Setenv("BIORET_WORKBOOK", "/tmp/env.xlsx")
		t.Setenv("BIORET_OUTPUT_DIR", "/tmp/out")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "/tmp/env.xlsx", cfg.Input.Workbook)
		assert.Equal(t, "/tmp/out", cfg.Output.Dir)
	})

	t.Run("BIORET_DB enables the store", func(t *testing.T) {
		t.Setenv("BIORET_DB", "/tmp/runs.db")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.True(t, cfg.Store.Enabled)
		assert.Equal(t, "/tmp/runs.db", cfg.Store.Path)
	})

	t.Run("log level", func(t *testing.T) {
		t.Setenv("BIORET_LOG_LEVEL", "debug")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "debug", cfg.Logging.Level)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing workbook", func(c *Config) { c.Input.Workbook = " " }, "workbook not configured"},
		{"same sheets", func(c *Config) { c.Input.AfterSheet = c.Input.BeforeSheet }, "must differ"},
		{"years reversed", func(c *Config) { c.Input.AfterYear = 2020 }, "must be later than before_year"},
		{"forecast in past", func(c *Config) { c.Forecast.TargetYear = 2024 }, "target_year"},
		{"precision", func(c *Config) { c.Output.Precision = 11 }, "precision"},
		{"empty file", func(c *Config) { c.Output.Files.Forecast = "" }, "output.files.forecast is empty"},
		{"duplicate file", func(c *Config) { c.Output.Files.Summary = c.Output.Files.Combined }, "both write"},
		{"store without path", func(c *Config) { c.Store.Enabled = true; c.Store.Path = "" }, "store.path"},
		{"log level", func(c *Config) { c.Logging.Level = "trace" }, "invalid log level"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "invalid log format"},
		{"alias to unknown program", func(c *Config) { c.Stewardship.Aliases = map[string]string{"pilot": "Pilot"} }, "is not a program"},
		{"alias to aggregate", func(c *Config) { c.Stewardship.Aliases = map[string]string{"everything": "All"} }, "is not a program"},
		{"missing id column", func(c *Config) { c.Columns.GRIID = "" }, "gri_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_ValidateAliasTargetsIgnoreCase(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Stewardship.Aliases = map[string]string{"seed": "seeding", "gs2": " GREEN streets"}
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Helpers(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 500*time.Millisecond, cfg.GetWatchDebounce())

	cfg.Watch.Debounce = "2s"
	assert.Equal(t, 2*time.Second, cfg.GetWatchDebounce())

	cfg.Watch.Debounce = "soon"
	assert.Equal(t, 500*time.Millisecond, cfg.GetWatchDebounce())
}

func TestLoggingConfig_IsCategoryEnabled(t *testing.T) {
	lc := LoggingConfig{}
	assert.True(t, lc.IsCategoryEnabled("clean"))

	lc.Categories = map[string]bool{"clean": false, "export": true}
	assert.False(t, lc.IsCategoryEnabled("clean"))
	assert.True(t, lc.IsCategoryEnabled("export"))
	assert.True(t, lc.IsCategoryEnabled("store"))
}
