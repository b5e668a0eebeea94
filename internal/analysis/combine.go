// Package analysis joins the two cleaned assessments and derives the
// exported tables: combined dataset, forecast, stewardship summary,
// score distribution and feature change summary.
package analysis

import (
	"sort"

	"bioretention/internal/assessment"
	"bioretention/internal/features"
)

// CombinedRow is one site-year of the stacked dataset.
type CombinedRow struct {
	Year        int
	GRIID       string
	Stewardship assessment.Stewardship
	Score       float64
	Features    map[string]float64 // keyed by aligned feature name
}

// Combined stacks both assessment years.
type Combined struct {
	Years    []int
	Features []string
	Rows     []CombinedRow // ordered by year, then GRI ID
}

// Combine stacks the before and after datasets. Only aligned features are
// carried, renamed to their pair name.
func Combine(before, after *assessment.Dataset, al features.Alignment) *Combined {
	c := &Combined{
		Years:    []int{before.Year, after.Year},
		Features: al.Names(),
		Rows:     make([]CombinedRow, 0, len(before.Records)+len(after.Records)),
	}
	add := func(ds *assessment.Dataset, header func(features.Pair) string) {
		for _, rec := range ds.Records {
			row := CombinedRow{
				Year:        ds.Year,
				GRIID:       rec.GRIID,
				Stewardship: rec.Stewardship,
				Score:       rec.Score,
				Features:    make(map[string]float64, len(al.Pairs)),
			}
			for _, p := range al.Pairs {
				if v, ok := rec.Feature(header(p)); ok {
					row.Features[p.Name] = v
				}
			}
			c.Rows = append(c.Rows, row)
		}
	}
	add(before, func(p features.Pair) string { return p.Left })
	add(after, func(p features.Pair) string { return p.Right })

	sort.SliceStable(c.Rows, func(i, j int) bool {
		if c.Rows[i].Year != c.Rows[j].Year {
			return c.Rows[i].Year < c.Rows[j].Year
		}
		return c.Rows[i].GRIID < c.Rows[j].GRIID
	})
	return c
}

// CountBy counts rows of a year per stewardship.
func (c *Combined) CountBy(year int) map[assessment.Stewardship]int {
	out := make(map[assessment.Stewardship]int)
	for _, r := range c.Rows {
		if r.Year == year {
			out[r.Stewardship]++
		}
	}
	return out
}
