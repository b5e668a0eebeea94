// Package pipeline runs the assessment pipeline end to end: load the
// workbook, clean both sheets, align features, analyse, export and
// optionally record the run.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bioretention/internal/analysis"
	"bioretention/internal/assessment"
	"bioretention/internal/config"
	"bioretention/internal/export"
	"bioretention/internal/features"
	"bioretention/internal/logging"
	"bioretention/internal/store"
	"bioretention/internal/workbook"
)

// Options adjust a single run without touching the config.
type Options struct {
	// ForecastYear overrides forecast.target_year when non-zero.
	ForecastYear int
	// DryRun computes every table but writes nothing.
	DryRun bool
}

// Result keeps every intermediate table of a run.
type Result struct {
	RunID     string
	StartedAt time.Time
	Elapsed   time.Duration
	Workbook  string

	Before *assessment.Dataset
	After  *assessment.Dataset

	Alignment      features.Alignment
	Combined       *analysis.Combined
	Pairs          []analysis.SitePair
	ForecastYear   int
	Forecast       []analysis.ForecastRow
	Summary        []analysis.StewardshipSummary
	Distribution   []analysis.DistributionRow
	FeatureChanges []analysis.FeatureChange

	Tables  []export.Table
	Outputs []string // written CSV paths, empty on a dry run
	StoreDB string   // database the run was saved to, if any
}

// DroppedRows counts rows removed from both sheets.
func (r *Result) DroppedRows() int {
	return r.Before.Stats.DroppedTotal() + r.After.Stats.DroppedTotal()
}

// Run executes the pipeline once. Cancellation is checked between stages.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	cfg = effective(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	res := &Result{
		RunID:        uuid.New().String(),
		StartedAt:    time.Now(),
		Workbook:     cfg.Input.Workbook,
		ForecastYear: cfg.Forecast.TargetYear,
	}
	audit := logging.AuditWithRun(res.RunID)
	log := logging.Get(logging.CategoryBoot)
	log.Infow("run started", "run", res.RunID, "workbook", res.Workbook)

	stages := []struct {
		name string
		fn   func(context.Context, *config.Config, *Result, *logging.AuditLogger) error
	}{
		{"load", loadStage},
		{"align", alignStage},
		{"analysis", analysisStage},
	}
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run cancelled before %s: %w", st.name, err)
		}
		if err := st.fn(ctx, cfg, res, audit); err != nil {
			return nil, err
		}
	}

	res.Tables = buildTables(cfg, res)
	if opts.DryRun {
		res.Elapsed = time.Since(res.StartedAt)
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run cancelled before export: %w", err)
	}
	timer := logging.StartTimer(logging.CategoryExport, "export")
	paths, err := export.WriteAll(ctx, cfg.Output.Dir, res.Tables)
	if err != nil {
		return nil, fmt.Errorf("export failed: %w", err)
	}
	timer.StopWithInfo()
	res.Outputs = paths
	for i, p := range paths {
		audit.TableWritten(p, len(res.Tables[i].Rows()))
	}

	if cfg.Store.Enabled {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run cancelled before store: %w", err)
		}
		if err := saveRun(ctx, cfg.Store.Path, res); err != nil {
			return nil, err
		}
		res.StoreDB = cfg.Store.Path
		audit.RunStored(cfg.Store.Path)
	}

	res.Elapsed = time.Since(res.StartedAt)
	log.Infow("run finished",
		"run", res.RunID,
		"paired", len(res.Pairs),
		"dropped", res.DroppedRows(),
		"outputs", len(res.Outputs),
		"elapsed", res.Elapsed)
	return res, nil
}

// effective applies run options to a copy of cfg.
func effective(cfg *config.Config, opts Options) *config.Config {
	eff := *cfg
	if opts.ForecastYear != 0 {
		eff.Forecast.TargetYear = opts.ForecastYear
	}
	return &eff
}

func loadStage(_ context.Context, cfg *config.Config, res *Result, audit *logging.AuditLogger) error {
	timer := logging.StartTimer(logging.CategoryLoad, "load workbook")
	defer timer.Stop()

	wb, err := workbook.Open(cfg.Input.Workbook)
	if err != nil {
		return err
	}
	defer wb.Close()

	cols := assessment.Columns{
		GRIID:          cfg.Columns.GRIID,
		Stewardship:    cfg.Columns.Stewardship,
		ConditionScore: cfg.Columns.ConditionScore,
		Ignore:         cfg.Columns.Ignore,
	}
	resolver := assessment.NewStewardshipResolver(cfg.Stewardship.Aliases)

	res.Before, err = cleanSheet(wb, cfg.Input.BeforeSheet, cfg.Input.BeforeYear, cols, resolver, audit)
	if err != nil {
		return err
	}
	res.After, err = cleanSheet(wb, cfg.Input.AfterSheet, cfg.Input.AfterYear, cols, resolver, audit)
	return err
}

func cleanSheet(wb *workbook.Workbook, name string, year int, cols assessment.Columns,
	resolver *assessment.StewardshipResolver, audit *logging.AuditLogger) (*assessment.Dataset, error) {
	sheet, err := wb.ReadSheet(name)
	if err != nil {
		return nil, err
	}
	ds, err := assessment.Clean(sheet, year, cols, resolver)
	if err != nil {
		return nil, err
	}
	for _, d := range ds.Drops {
		audit.RowDropped(ds.Sheet, d.Line, d.GRIID, string(d.Reason))
	}
	for _, li := range ds.LabelIssues {
		audit.UnknownStewardship(ds.Sheet, li.Line, li.Label)
	}
	logging.Get(logging.CategoryClean).Infow("sheet cleaned",
		"sheet", ds.Sheet,
		"read", ds.Stats.RowsRead,
		"kept", ds.Stats.RowsKept,
		"dropped", ds.Stats.DroppedTotal(),
		"unknown_stewardship", ds.Stats.UnknownStewardship,
		"features", len(ds.FeatureColumns))
	return ds, nil
}

func alignStage(_ context.Context, cfg *config.Config, res *Result, audit *logging.AuditLogger) error {
	timer := logging.StartTimer(logging.CategoryAlign, "align features")
	defer timer.Stop()

	res.Alignment = features.Align(res.Before.FeatureColumns, res.After.FeatureColumns, cfg.Features.Aliases)
	for _, col := range res.Alignment.LeftOnly {
		audit.FeatureUnmatched(res.Before.Sheet, col)
	}
	for _, col := range res.Alignment.RightOnly {
		audit.FeatureUnmatched(res.After.Sheet, col)
	}
	logging.Get(logging.CategoryAlign).Infow("features aligned",
		"paired", len(res.Alignment.Pairs),
		"before_only", len(res.Alignment.LeftOnly),
		"after_only", len(res.Alignment.RightOnly))
	return nil
}

func analysisStage(_ context.Context, cfg *config.Config, res *Result, audit *logging.AuditLogger) error {
	timer := logging.StartTimer(logging.CategoryAnalysis, "analysis")
	defer timer.Stop()

	res.Combined = analysis.Combine(res.Before, res.After, res.Alignment)
	res.Pairs = analysis.Join(res.Before, res.After)
	for _, p := range res.Pairs {
		if p.StewardshipChanged() {
			audit.StewardshipChanged(p.GRIID, string(p.StewardshipBefore), string(p.StewardshipAfter))
		}
	}

	var err error
	res.Forecast, err = analysis.Forecast(res.Pairs, res.Before.Year, res.After.Year, res.ForecastYear)
	if err != nil {
		return err
	}
	res.Summary = analysis.SummarizeByStewardship(res.Combined, res.Pairs)
	res.Distribution = analysis.Distribution(res.Combined)
	res.FeatureChanges = analysis.FeatureChanges(res.Pairs, res.Alignment, cfg.Features.LowerIsBetter)

	logging.Get(logging.CategoryAnalysis).Infow("analysis done",
		"combined_rows", len(res.Combined.Rows),
		"pairs", len(res.Pairs),
		"feature_rows", len(res.FeatureChanges))
	return nil
}

// buildTables renders the five outputs in their fixed order.
func buildTables(cfg *config.Config, res *Result) []export.Table {
	f := export.Formatter{Precision: cfg.Output.Precision}
	files := cfg.Output.Files
	yb, ya := res.Before.Year, res.After.Year
	return []export.Table{
		export.CombinedTable(files.Combined, res.Combined, f),
		export.ForecastTable(files.Forecast, res.Forecast, yb, ya, f),
		export.SummaryTable(files.Summary, res.Summary, yb, ya, f),
		export.DistributionTable(files.Distribution, res.Distribution, f),
		export.FeatureChangeTable(files.FeatureChange, res.FeatureChanges, yb, ya, f),
	}
}

func saveRun(ctx context.Context, path string, res *Result) error {
	db, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer db.Close()

	rec := store.RunRecord{
		ID:           res.RunID,
		StartedAt:    res.StartedAt,
		Workbook:     res.Workbook,
		SitesBefore:  len(res.Before.Records),
		SitesAfter:   len(res.After.Records),
		Paired:       len(res.Pairs),
		DroppedRows:  res.DroppedRows(),
		ForecastYear: res.ForecastYear,
		Outputs:      res.Outputs,
	}
	for _, ds := range []*assessment.Dataset{res.Before, res.After} {
		for _, r := range ds.Records {
			rec.Scores = append(rec.Scores, store.SiteScore{
				Year:        r.Year,
				GRIID:       r.GRIID,
				Stewardship: string(r.Stewardship),
				Score:       r.Score,
				Line:        r.Line,
			})
		}
	}
	for _, s := range res.Summary {
		rec.Summary = append(rec.Summary, store.SummaryRow{
			Stewardship: string(s.Stewardship),
			Paired:      s.Paired,
			MeanChange:  s.MeanChange,
			PctImproved: s.PctImproved,
		})
	}
	if err := db.SaveRun(ctx, rec); err != nil {
		return fmt.Errorf("failed to save run %s: %w", res.RunID, err)
	}
	return nil
}
