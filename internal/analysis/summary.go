package analysis

import (
	"bioretention/internal/assessment"
)

// StewardshipSummary aggregates one stewardship program. Paired statistics
// group sites by their later-year program.
type StewardshipSummary struct {
	Stewardship  assessment.Stewardship
	SitesBefore  int
	SitesAfter   int
	Paired       int
	MeanBefore   float64
	MeanAfter    float64
	MeanChange   float64
	MedianChange float64
	StdChange    float64
	Improved     int
	Worsened     int
	Stable       int
	PctImproved  float64
}

// SummarizeByStewardship builds one row per program seen in either year or
// among the pairs, followed by an All row.
func SummarizeByStewardship(c *Combined, pairs []SitePair) []StewardshipSummary {
	yearBefore, yearAfter := c.Years[0], c.Years[1]
	countBefore := c.CountBy(yearBefore)
	countAfter := c.CountBy(yearAfter)

	grouped := make(map[assessment.Stewardship][]SitePair)
	for _, p := range pairs {
		grouped[p.StewardshipAfter] = append(grouped[p.StewardshipAfter], p)
	}

	present := make(map[assessment.Stewardship]bool)
	for s := range countBefore {
		present[s] = true
	}
	for s := range countAfter {
		present[s] = true
	}
	for s := range grouped {
		present[s] = true
	}
	order := make([]assessment.Stewardship, 0, len(present))
	for s := range present {
		order = append(order, s)
	}
	assessment.SortStewardships(order)

	out := make([]StewardshipSummary, 0, len(order)+1)
	for _, s := range order {
		out = append(out, summarize(s, countBefore[s], countAfter[s], grouped[s]))
	}
	out = append(out, summarize(assessment.StewardshipAll, sum(countBefore), sum(countAfter), pairs))
	return out
}

func summarize(s assessment.Stewardship, before, after int, pairs []SitePair) StewardshipSummary {
	scoresBefore := make([]float64, len(pairs))
	scoresAfter := make([]float64, len(pairs))
	changes := make([]float64, len(pairs))
	row := StewardshipSummary{
		Stewardship: s,
		SitesBefore: before,
		SitesAfter:  after,
		Paired:      len(pairs),
	}
	for i, p := range pairs {
		scoresBefore[i] = p.Before
		scoresAfter[i] = p.After
		changes[i] = p.Change()
		switch p.Trend() {
		case TrendImproved:
			row.Improved++
		case TrendWorsened:
			row.Worsened++
		default:
			row.Stable++
		}
	}
	d := describe(changes)
	row.MeanBefore = mean(scoresBefore)
	row.MeanAfter = mean(scoresAfter)
	row.MeanChange = d.Mean
	row.MedianChange = d.Median
	row.StdChange = d.Std
	row.PctImproved = percent(row.Improved, row.Paired)
	return row
}

func sum(counts map[assessment.Stewardship]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}
