package config

// InputConfig selects the workbook and the two assessment sheets.
type InputConfig struct {
	Workbook    string `yaml:"workbook"`
	BeforeSheet string `yaml:"before_sheet"`
	AfterSheet  string `yaml:"after_sheet"`
	BeforeYear  int    `yaml:"before_year"`
	AfterYear   int    `yaml:"after_year"`
}

// ColumnConfig names the columns shared by both sheets.
// Header matching is case-insensitive and whitespace-normalized.
type ColumnConfig struct {
	GRIID          string `yaml:"gri_id"`
	Stewardship    string `yaml:"stewardship"`     // optional; missing column means None
	ConditionScore string `yaml:"condition_score"`

	// Ignore lists columns never treated as feature scores
	Ignore []string `yaml:"ignore"`
}
