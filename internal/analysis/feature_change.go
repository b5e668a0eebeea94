package analysis

import (
	"bioretention/internal/assessment"
	"bioretention/internal/features"
)

// FeatureChange summarizes how one aligned feature moved between
// assessments for one stewardship group.
type FeatureChange struct {
	Feature     string
	Stewardship assessment.Stewardship
	Sites       int // pairs with the feature recorded in both years
	MeanBefore  float64
	MeanAfter   float64
	MeanChange  float64
	Improved    int
	Worsened    int
	Stable      int
}

// FeatureChanges builds rows per aligned feature, per later-year program and
// for All. Groups without any usable pair are left out.
func FeatureChanges(pairs []SitePair, al features.Alignment, lowerIsBetter bool) []FeatureChange {
	var out []FeatureChange
	for _, fp := range al.Pairs {
		type acc struct {
			before, after, change []float64
			improved, worsened    int
			stable                int
		}
		groups := make(map[assessment.Stewardship]*acc)
		add := func(s assessment.Stewardship, b, a float64) {
			g, ok := groups[s]
			if !ok {
				g = &acc{}
				groups[s] = g
			}
			g.before = append(g.before, b)
			g.after = append(g.after, a)
			g.change = append(g.change, a-b)
			switch TrendOf(a-b, lowerIsBetter) {
			case TrendImproved:
				g.improved++
			case TrendWorsened:
				g.worsened++
			default:
				g.stable++
			}
		}

		for _, p := range pairs {
			b, a, ok := p.FeatureValues(fp)
			if !ok {
				continue
			}
			add(p.StewardshipAfter, b, a)
			add(assessment.StewardshipAll, b, a)
		}

		order := make([]assessment.Stewardship, 0, len(groups))
		for s := range groups {
			order = append(order, s)
		}
		assessment.SortStewardships(order)
		for _, s := range order {
			g := groups[s]
			out = append(out, FeatureChange{
				Feature:     fp.Name,
				Stewardship: s,
				Sites:       len(g.change),
				MeanBefore:  mean(g.before),
				MeanAfter:   mean(g.after),
				MeanChange:  mean(g.change),
				Improved:    g.improved,
				Worsened:    g.worsened,
				Stable:      g.stable,
			})
		}
	}
	return out
}
