package pipeline

import (
	"fmt"

	"bioretention/internal/assessment"
	"bioretention/internal/config"
	"bioretention/internal/features"
	"bioretention/internal/workbook"
)

// SheetInfo describes one assessment sheet as the pipeline sees it.
type SheetInfo struct {
	Name     string
	Year     int
	Header   []string
	Rows     int
	Kept     int
	Features []string
	Stats    assessment.Stats
}

// Inspection is a read-only look at the configured workbook.
type Inspection struct {
	Workbook  string
	Sheets    []string
	Before    SheetInfo
	After     SheetInfo
	Alignment features.Alignment
}

// Inspect reads both configured sheets, cleans them and aligns their feature
// columns without running the analysis.
func Inspect(cfg *config.Config) (*Inspection, error) {
	wb, err := workbook.Open(cfg.Input.Workbook)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	cols := assessment.Columns{
		GRIID:          cfg.Columns.GRIID,
		Stewardship:    cfg.Columns.Stewardship,
		ConditionScore: cfg.Columns.ConditionScore,
		Ignore:         cfg.Columns.Ignore,
	}
	resolver := assessment.NewStewardshipResolver(cfg.Stewardship.Aliases)

	ins := &Inspection{Workbook: wb.Path(), Sheets: wb.Sheets()}
	describe := func(name string, year int) (SheetInfo, error) {
		sheet, err := wb.ReadSheet(name)
		if err != nil {
			return SheetInfo{}, err
		}
		ds, err := assessment.Clean(sheet, year, cols, resolver)
		if err != nil {
			return SheetInfo{}, fmt.Errorf("sheet %q: %w", name, err)
		}
		return SheetInfo{
			Name:     name,
			Year:     year,
			Header:   sheet.Header,
			Rows:     len(sheet.Rows),
			Kept:     ds.Stats.RowsKept,
			Features: ds.FeatureColumns,
			Stats:    ds.Stats,
		}, nil
	}

	if ins.Before, err = describe(cfg.Input.BeforeSheet, cfg.Input.BeforeYear); err != nil {
		return nil, err
	}
	if ins.After, err = describe(cfg.Input.AfterSheet, cfg.Input.AfterYear); err != nil {
		return nil, err
	}
	ins.Alignment = features.Align(ins.Before.Features, ins.After.Features, cfg.Features.Aliases)
	return ins, nil
}
