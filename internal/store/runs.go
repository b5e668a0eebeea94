package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"bioretention/internal/logging"
)

// timeLayout keeps fractional seconds fixed-width so started_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound is returned for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// RunRecord is everything persisted for one pipeline run.
type RunRecord struct {
	ID           string
	StartedAt    time.Time
	Workbook     string
	SitesBefore  int
	SitesAfter   int
	Paired       int
	DroppedRows  int
	ForecastYear int
	Outputs      []string
	Scores       []SiteScore
	Summary      []SummaryRow
}

// SiteScore is one cleaned site-year.
type SiteScore struct {
	Year        int
	GRIID       string
	Stewardship string
	Score       float64
	Line        int
}

// SummaryRow is the persisted slice of a stewardship summary row.
// NaN statistics are stored as NULL and read back as NaN.
type SummaryRow struct {
	Stewardship string
	Paired      int
	MeanChange  float64
	PctImproved float64
}

// RunInfo is a run without its per-site rows.
type RunInfo struct {
	ID           string
	StartedAt    time.Time
	Workbook     string
	SitesBefore  int
	SitesAfter   int
	Paired       int
	DroppedRows  int
	ForecastYear int
	Outputs      []string
}

// SaveRun stores a run and its rows in one transaction.
func (s *Store) SaveRun(ctx context.Context, rec RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer := logging.StartTimer(logging.CategoryStore, "SaveRun")
	defer timer.Stop()

	outputs, err := json.Marshal(rec.Outputs)
	if err != nil {
		return fmt.Errorf("failed to encode outputs: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, workbook, sites_before, sites_after, paired, outputs_json, forecast_year, dropped_rows)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StartedAt.UTC().Format(timeLayout), rec.Workbook,
		rec.SitesBefore, rec.SitesAfter, rec.Paired, string(outputs), rec.ForecastYear, rec.DroppedRows)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	scoreStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO site_scores (run_id, year, gri_id, stewardship, score, line) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare score insert: %w", err)
	}
	defer scoreStmt.Close()
	for _, sc := range rec.Scores {
		if _, err := scoreStmt.ExecContext(ctx, rec.ID, sc.Year, sc.GRIID, sc.Stewardship, sc.Score, sc.Line); err != nil {
			return fmt.Errorf("failed to insert score for %s/%d: %w", sc.GRIID, sc.Year, err)
		}
	}

	summaryStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO stewardship_summary (run_id, stewardship, paired, mean_change, pct_improved) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare summary insert: %w", err)
	}
	defer summaryStmt.Close()
	for _, row := range rec.Summary {
		if _, err := summaryStmt.ExecContext(ctx, rec.ID, row.Stewardship, row.Paired,
			nullable(row.MeanChange), nullable(row.PctImproved)); err != nil {
			return fmt.Errorf("failed to insert summary for %s: %w", row.Stewardship, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// ListRuns returns the newest runs first. limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunInfo, error) {
	query := `SELECT id, started_at, workbook, sites_before, sites_after, paired, outputs_json,
		COALESCE(forecast_year, 0), dropped_rows
		FROM runs ORDER BY started_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var info RunInfo
		var started, outputs string
		if err := rows.Scan(&info.ID, &started, &info.Workbook, &info.SitesBefore, &info.SitesAfter,
			&info.Paired, &outputs, &info.ForecastYear, &info.DroppedRows); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if info.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("bad timestamp on run %s: %w", info.ID, err)
		}
		if err := json.Unmarshal([]byte(outputs), &info.Outputs); err != nil {
			return nil, fmt.Errorf("bad outputs on run %s: %w", info.ID, err)
		}
		runs = append(runs, info)
	}
	return runs, rows.Err()
}

// RunSummary returns the stored stewardship summary of a run.
func (s *Store) RunSummary(ctx context.Context, runID string) ([]SummaryRow, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs WHERE id = ?", runID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to look up run: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT stewardship, paired, mean_change, pct_improved
		FROM stewardship_summary WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to read summary: %w", err)
	}
	defer rows.Close()

	var out []SummaryRow
	for rows.Next() {
		var row SummaryRow
		var meanChange, pct sql.NullFloat64
		if err := rows.Scan(&row.Stewardship, &row.Paired, &meanChange, &pct); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		row.MeanChange = fromNullable(meanChange)
		row.PctImproved = fromNullable(pct)
		out = append(out, row)
	}
	return out, rows.Err()
}

// CountScores returns how many site scores a run stored.
func (s *Store) CountScores(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM site_scores WHERE run_id = ?", runID).Scan(&n)
	return n, err
}

func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func fromNullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
