package analysis

import (
	"errors"
	"fmt"
	"math"

	"bioretention/internal/assessment"
)

// ErrForecastHorizon is returned for a target year not after the later
// assessment, or assessment years out of order.
var ErrForecastHorizon = errors.New("invalid forecast horizon")

// ForecastRow projects a paired site's condition score to a target year.
type ForecastRow struct {
	GRIID             string
	StewardshipBefore assessment.Stewardship
	StewardshipAfter  assessment.Stewardship
	Before            float64
	After             float64
	Change            float64
	AnnualRate        float64 // change per year
	TargetYear        int
	Projected         float64 // clamped to the 1..5 scale
	Trend             Trend
}

// Forecast extrapolates each pair's per-year change linearly from the later
// assessment to target.
func Forecast(pairs []SitePair, yearBefore, yearAfter, target int) ([]ForecastRow, error) {
	if yearAfter <= yearBefore {
		return nil, fmt.Errorf("%w: after year %d not later than before year %d", ErrForecastHorizon, yearAfter, yearBefore)
	}
	if target <= yearAfter {
		return nil, fmt.Errorf("%w: target year %d not later than %d", ErrForecastHorizon, target, yearAfter)
	}

	span := float64(yearAfter - yearBefore)
	ahead := float64(target - yearAfter)
	rows := make([]ForecastRow, len(pairs))
	for i, p := range pairs {
		change := p.Change()
		rate := change / span
		rows[i] = ForecastRow{
			GRIID:             p.GRIID,
			StewardshipBefore: p.StewardshipBefore,
			StewardshipAfter:  p.StewardshipAfter,
			Before:            p.Before,
			After:             p.After,
			Change:            change,
			AnnualRate:        rate,
			TargetYear:        target,
			Projected:         clampScore(p.After + rate*ahead),
			Trend:             p.Trend(),
		}
	}
	return rows, nil
}

func clampScore(v float64) float64 {
	return math.Max(assessment.MinScore, math.Min(assessment.MaxScore, v))
}
