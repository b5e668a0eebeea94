package analysis

import (
	"math"

	"bioretention/internal/assessment"
)

// DistributionRow is the share of sites with a given score bucket within a
// year and stewardship group.
type DistributionRow struct {
	Year        int
	Stewardship assessment.Stewardship
	Score       int
	Count       int
	Percent     float64
}

// ScoreBucket rounds a condition score half up onto 1..5.
func ScoreBucket(score float64) int {
	b := int(math.Floor(score + 0.5))
	if b < int(assessment.MinScore) {
		return int(assessment.MinScore)
	}
	if b > int(assessment.MaxScore) {
		return int(assessment.MaxScore)
	}
	return b
}

// Distribution counts score buckets per year and stewardship, plus an All
// group per year. Every bucket is emitted, including empty ones.
func Distribution(c *Combined) []DistributionRow {
	const buckets = int(assessment.MaxScore)

	var out []DistributionRow
	for _, year := range c.Years {
		counts := make(map[assessment.Stewardship]*[buckets]int)
		all := new([buckets]int)
		for _, r := range c.Rows {
			if r.Year != year {
				continue
			}
			b := ScoreBucket(r.Score) - 1
			group, ok := counts[r.Stewardship]
			if !ok {
				group = new([buckets]int)
				counts[r.Stewardship] = group
			}
			group[b]++
			all[b]++
		}

		order := make([]assessment.Stewardship, 0, len(counts)+1)
		for s := range counts {
			order = append(order, s)
		}
		counts[assessment.StewardshipAll] = all
		order = append(order, assessment.StewardshipAll)
		assessment.SortStewardships(order)

		for _, s := range order {
			group := counts[s]
			total := 0
			for _, n := range group {
				total += n
			}
			for i, n := range group {
				out = append(out, DistributionRow{
					Year:        year,
					Stewardship: s,
					Score:       i + 1,
					Count:       n,
					Percent:     percent(n, total),
				})
			}
		}
	}
	return out
}
