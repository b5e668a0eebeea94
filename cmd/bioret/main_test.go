package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bioretention/internal/config"
	"bioretention/internal/logging"
	"bioretention/internal/testutil"
)

// workspace writes the sample workbook and a config that aligns its
// renamed feature column, and returns the config path.
func workspace(t *testing.T) (dir, cfgFile string) {
	t.Helper()
	for _, env := range []string{"BIORET_WORKBOOK", "BIORET_OUTPUT_DIR", "BIORET_DB", "BIORET_LOG_LEVEL"} {
		t.Setenv(env, "")
	}
	dir = t.TempDir()
	c := config.DefaultConfig()
	c.Input.Workbook = testutil.WriteWorkbook(t, dir, "assessments.xlsx", testutil.Before2022(), testutil.After2024())
	c.Features.Aliases = testutil.FeatureAliases()
	c.Output.Dir = filepath.Join(dir, "out")
	c.Store.Path = filepath.Join(dir, "history.db")
	c.Logging.Level = "error"
	cfgFile = filepath.Join(dir, "bioret.yaml")
	require.NoError(t, c.Save(cfgFile))
	return dir, cfgFile
}

// execute runs the CLI with fresh flag values and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgPath, verbose, workbookPath, outDir = config.DefaultPath, false, "", ""
	runWatch, runDB, runForecastYear, runDryRun = false, "", 0, false
	reportRaw, reportFile, reportWidth = false, "", 100
	runsDB, runsLimit = "", 10
	configForce = false
	t.Cleanup(logging.Reset)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	dir, cfgFile := workspace(t)
	db := filepath.Join(dir, "runs.db")

	out, err := execute(t, "--config", cfgFile, "run", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "5/6 sites kept, 5 paired, 4 rows dropped")
	assert.Contains(t, out, "recorded in "+db)
	for _, name := range []string{
		"combined_dataset.csv", "forecast_dataset.csv", "summary_by_stewardship.csv",
		"score_distribution.csv", "feature_change_summary.csv",
	} {
		assert.FileExists(t, filepath.Join(dir, "out", name))
	}

	out, err = execute(t, "--config", cfgFile, "runs", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "paired 5"))
	assert.Contains(t, out, "forecast 2026")
}

func TestRunCommand_FlagOverrides(t *testing.T) {
	dir, cfgFile := workspace(t)
	alt := filepath.Join(dir, "alt")

	out, err := execute(t, "--config", cfgFile, "--out", alt, "run", "--forecast-year", "2030")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(alt, "forecast_dataset.csv"))
	assert.NoDirExists(t, filepath.Join(dir, "out"))

	data, err := os.ReadFile(filepath.Join(alt, "forecast_dataset.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), ",2030,")
}

func TestRunCommand_BadWorkbook(t *testing.T) {
	_, cfgFile := workspace(t)
	_, err := execute(t, "--config", cfgFile, "--workbook", "missing.xlsx", "run")
	require.Error(t, err)
}

func TestInspectCommand(t *testing.T) {
	_, cfgFile := workspace(t)
	out, err := execute(t, "--config", cfgFile, "inspect")
	require.NoError(t, err)
	assert.Contains(t, out, "Sheets:   2022, 2024")
	assert.Contains(t, out, "[2022] year 2022: 9 rows, 5 kept, 4 dropped")
	assert.Contains(t, out, "Sediment -> Sediment / Debris")
	assert.Contains(t, out, "Only in 2024: Outlet")
}

func TestSummaryCommand(t *testing.T) {
	dir, cfgFile := workspace(t)
	out, err := execute(t, "--config", cfgFile, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Green Streets")
	assert.Contains(t, out, "All")
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestReportCommand(t *testing.T) {
	dir, cfgFile := workspace(t)
	file := filepath.Join(dir, "report.md")

	out, err := execute(t, "--config", cfgFile, "report", "--raw", "--file", file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Bioretention condition report 2022 to 2024"))

	written, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, out, string(written))
}

func TestRunsCommand_NoDatabase(t *testing.T) {
	_, cfgFile := workspace(t)
	out, err := execute(t, "--config", cfgFile, "runs")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded")
}

func TestConfigCommands(t *testing.T) {
	t.Setenv("BIORET_WORKBOOK", "")
	path := filepath.Join(t.TempDir(), "bioret.yaml")

	out, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	_, err = execute(t, "--config", path, "config", "init")
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "--config", path, "config", "init", "--force")
	require.NoError(t, err)

	out, err = execute(t, "--config", path, "--workbook", "field.xlsx", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "workbook: field.xlsx")
	assert.Contains(t, out, "target_year: 2026")
}
