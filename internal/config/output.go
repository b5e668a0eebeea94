package config

import "fmt"

// OutputConfig configures the CSV tables.
type OutputConfig struct {
	Dir       string      `yaml:"dir"`
	Precision int         `yaml:"precision"` // decimals for float cells
	Files     OutputFiles `yaml:"files"`
}

// OutputFiles holds the file name of each exported table.
type OutputFiles struct {
	Combined      string `yaml:"combined"`
	Forecast      string `yaml:"forecast"`
	Summary       string `yaml:"summary"`
	Distribution  string `yaml:"distribution"`
	FeatureChange string `yaml:"feature_change"`
}

// DefaultOutputFiles returns the default table file names.
func DefaultOutputFiles() OutputFiles {
	return OutputFiles{
		Combined:      "combined_dataset.csv",
		Forecast:      "forecast_dataset.csv",
		Summary:       "summary_by_stewardship.csv",
		Distribution:  "score_distribution.csv",
		FeatureChange: "feature_change_summary.csv",
	}
}

func (f OutputFiles) validate() error {
	seen := make(map[string]string, 5)
	for key, name := range map[string]string{
		"combined":       f.Combined,
		"forecast":       f.Forecast,
		"summary":        f.Summary,
		"distribution":   f.Distribution,
		"feature_change": f.FeatureChange,
	} {
		if name == "" {
			return fmt.Errorf("output.files.%s is empty", key)
		}
		if other, dup := seen[name]; dup {
			return fmt.Errorf("output.files.%s and output.files.%s both write %q", key, other, name)
		}
		seen[name] = key
	}
	return nil
}

// StoreConfig configures the SQLite run history.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// WatchConfig configures `run --watch`.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}
