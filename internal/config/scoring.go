package config

import (
	"fmt"
	"strings"
)

// StewardshipConfig maps raw stewardship labels to canonical program names.
type StewardshipConfig struct {
	// Aliases keys are lower-cased, trimmed labels.
	Aliases map[string]string `yaml:"aliases"`
}

// DefaultStewardshipAliases returns the label spellings seen in field sheets.
func DefaultStewardshipAliases() map[string]string {
	return map[string]string{
		"":              "None",
		"none":          "None",
		"n/a":           "None",
		"na":            "None",
		"no":            "None",
		"seeding":       "Seeding",
		"seeded":        "Seeding",
		"green streets": "Green Streets",
		"green street":  "Green Streets",
		"greenstreets":  "Green Streets",
		"gs":            "Green Streets",
	}
}

// StewardshipPrograms are the valid alias targets.
var StewardshipPrograms = []string{"None", "Seeding", "Green Streets"}

func (s StewardshipConfig) validate() error {
	for label, target := range s.Aliases {
		folded := strings.ToLower(strings.Join(strings.Fields(target), " "))
		ok := false
		for _, p := range StewardshipPrograms {
			if folded == strings.ToLower(p) {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("stewardship.aliases[%q]: %q is not a program (valid: %v)", label, target, StewardshipPrograms)
		}
	}
	return nil
}

// FeatureConfig controls how feature columns of the two sheets are paired.
type FeatureConfig struct {
	// Aliases maps a header (either sheet) to a shared key, for columns
	// renamed between assessments.
	Aliases map[string]string `yaml:"aliases"`

	// LowerIsBetter marks feature scores that follow the condition scale
	// (1 best, 5 worst).
	LowerIsBetter bool `yaml:"lower_is_better"`
}

// ForecastConfig configures the linear score projection.
type ForecastConfig struct {
	TargetYear int `yaml:"target_year"`
}
