package analysis

import (
	"math"

	"bioretention/internal/assessment"
	"bioretention/internal/features"
)

// Trend classifies a score change.
type Trend string

const (
	TrendImproved Trend = "Improved"
	TrendWorsened Trend = "Worsened"
	TrendStable   Trend = "Stable"
)

const changeEpsilon = 1e-9

// TrendOf classifies change. With lowerIsBetter a negative change improves.
func TrendOf(change float64, lowerIsBetter bool) Trend {
	switch {
	case math.Abs(change) <= changeEpsilon:
		return TrendStable
	case (change < 0) == lowerIsBetter:
		return TrendImproved
	default:
		return TrendWorsened
	}
}

// SitePair is a site assessed in both years.
type SitePair struct {
	GRIID             string
	StewardshipBefore assessment.Stewardship
	StewardshipAfter  assessment.Stewardship
	Before            float64
	After             float64
	FeaturesBefore    map[string]float64 // keyed by sheet header
	FeaturesAfter     map[string]float64
}

// Change is After minus Before; negative means the site got better.
func (p SitePair) Change() float64 {
	return p.After - p.Before
}

// Trend classifies the condition-score change.
func (p SitePair) Trend() Trend {
	return TrendOf(p.Change(), true)
}

// StewardshipChanged reports a program switch between assessments.
func (p SitePair) StewardshipChanged() bool {
	return p.StewardshipBefore != p.StewardshipAfter
}

// FeatureValues returns the before/after values of an aligned feature.
func (p SitePair) FeatureValues(pair features.Pair) (before, after float64, ok bool) {
	before, okBefore := p.FeaturesBefore[pair.Left]
	after, okAfter := p.FeaturesAfter[pair.Right]
	return before, after, okBefore && okAfter
}

// Join inner-joins the two datasets on GRI ID. Pairs follow the after
// dataset's GRI ID order.
func Join(before, after *assessment.Dataset) []SitePair {
	idx := before.Index()
	pairs := make([]SitePair, 0, len(after.Records))
	for _, rec := range after.Records {
		prev, ok := idx[rec.GRIID]
		if !ok {
			continue
		}
		pairs = append(pairs, SitePair{
			GRIID:             rec.GRIID,
			StewardshipBefore: prev.Stewardship,
			StewardshipAfter:  rec.Stewardship,
			Before:            prev.Score,
			After:             rec.Score,
			FeaturesBefore:    prev.Features,
			FeaturesAfter:     rec.Features,
		})
	}
	return pairs
}
