// Package export turns analysis results into tables and writes them as CSV.
package export

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"bioretention/internal/analysis"
)

// Table is a named, rectangular block of cells.
type Table interface {
	Name() string // file name
	Header() []string
	Rows() [][]string
}

type table struct {
	name   string
	header []string
	rows   [][]string
}

func (t *table) Name() string { return t.name }
func (t *table) Header() []string { return t.header }
func (t *table) Rows() [][]string { return t.rows }

// NewTable wraps ready-made cells.
func NewTable(name string, header []string, rows [][]string) Table {
	return &table{name: name, header: header, rows: rows}
}

// Formatter renders numbers into cells.
type Formatter struct {
	Precision int
}

// Float renders a derived statistic with fixed precision. NaN is empty.
func (f Formatter) Float(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	s := strconv.FormatFloat(v, 'f', f.Precision, 64)
	if strings.HasPrefix(s, "-") && strings.Trim(s, "-0.") == "" {
		return s[1:]
	}
	return s
}

// Value renders an observed value as entered, without padding.
func (f Formatter) Value(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Int renders a count.
func (f Formatter) Int(n int) string {
	return strconv.Itoa(n)
}

func yearLabel(prefix string, year int) string {
	return fmt.Sprintf("%s %d", prefix, year)
}

// CombinedTable renders the stacked two-year dataset.
func CombinedTable(name string, c *analysis.Combined, f Formatter) Table {
	header := append([]string{"Year", "GRI ID", "Stewardship", "Condition Score"}, c.Features...)
	rows := make([][]string, len(c.Rows))
	for i, r := range c.Rows {
		row := make([]string, 0, len(header))
		row = append(row, f.Int(r.Year), r.GRIID, string(r.Stewardship), f.Value(r.Score))
		for _, feat := range c.Features {
			if v, ok := r.Features[feat]; ok {
				row = append(row, f.Value(v))
			} else {
				row = append(row, "")
			}
		}
		rows[i] = row
	}
	return NewTable(name, header, rows)
}

// ForecastTable renders the per-site projection.
func ForecastTable(name string, rows []analysis.ForecastRow, yearBefore, yearAfter int, f Formatter) Table {
	header := []string{
		"GRI ID",
		yearLabel("Stewardship", yearBefore), yearLabel("Stewardship", yearAfter),
		yearLabel("Score", yearBefore), yearLabel("Score", yearAfter),
		"Change", "Annual Rate", "Trend", "Forecast Year", "Forecast Score",
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.GRIID,
			string(r.StewardshipBefore), string(r.StewardshipAfter),
			f.Value(r.Before), f.Value(r.After),
			f.Float(r.Change), f.Float(r.AnnualRate), string(r.Trend),
			f.Int(r.TargetYear), f.Float(r.Projected),
		}
	}
	return NewTable(name, header, out)
}

// SummaryTable renders the stewardship summary.
func SummaryTable(name string, rows []analysis.StewardshipSummary, yearBefore, yearAfter int, f Formatter) Table {
	header := []string{
		"Stewardship",
		yearLabel("Sites", yearBefore), yearLabel("Sites", yearAfter), "Paired Sites",
		yearLabel("Mean Score", yearBefore), yearLabel("Mean Score", yearAfter),
		"Mean Change", "Median Change", "Std Change",
		"Improved", "Worsened", "Stable", "Pct Improved",
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			string(r.Stewardship),
			f.Int(r.SitesBefore), f.Int(r.SitesAfter), f.Int(r.Paired),
			f.Float(r.MeanBefore), f.Float(r.MeanAfter),
			f.Float(r.MeanChange), f.Float(r.MedianChange), f.Float(r.StdChange),
			f.Int(r.Improved), f.Int(r.Worsened), f.Int(r.Stable), f.Float(r.PctImproved),
		}
	}
	return NewTable(name, header, out)
}

// DistributionTable renders score-bucket shares.
func DistributionTable(name string, rows []analysis.DistributionRow, f Formatter) Table {
	header := []string{"Year", "Stewardship", "Condition Score", "Count", "Percent"}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			f.Int(r.Year), string(r.Stewardship), f.Int(r.Score), f.Int(r.Count), f.Float(r.Percent),
		}
	}
	return NewTable(name, header, out)
}

// FeatureChangeTable renders per-feature change statistics.
func FeatureChangeTable(name string, rows []analysis.FeatureChange, yearBefore, yearAfter int, f Formatter) Table {
	header := []string{
		"Feature", "Stewardship", "Sites",
		yearLabel("Mean", yearBefore), yearLabel("Mean", yearAfter), "Mean Change",
		"Improved", "Worsened", "Stable",
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.Feature, string(r.Stewardship), f.Int(r.Sites),
			f.Float(r.MeanBefore), f.Float(r.MeanAfter), f.Float(r.MeanChange),
			f.Int(r.Improved), f.Int(r.Worsened), f.Int(r.Stable),
		}
	}
	return NewTable(name, header, out)
}
