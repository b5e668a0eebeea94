package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Descriptive holds descriptive statistics of a sample. Fields are NaN when
// the sample is too small to define them.
type Descriptive struct {
	N      int
	Mean   float64
	Median float64
	Std    float64 // sample standard deviation (n-1)
}

// describe computes descriptive statistics. xs is not modified.
func describe(xs []float64) Descriptive {
	d := Descriptive{N: len(xs), Mean: math.NaN(), Median: math.NaN(), Std: math.NaN()}
	if len(xs) == 0 {
		return d
	}
	d.Mean = stat.Mean(xs, nil)
	d.Median = median(xs)
	if len(xs) > 1 {
		d.Std = stat.StdDev(xs, nil)
	}
	return d
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// median averages the two middle values of an even-sized sample.
func median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return math.NaN()
	}
	return 100 * float64(part) / float64(whole)
}
