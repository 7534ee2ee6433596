// Package histogram buckets grade series into bin categories and
// converts the counts to percentages for side-by-side bar rendering.
package histogram

import (
	"log"

	"gareport/internal/domain"
)

type Options struct {
	ShowNDA      bool
	NDAThreshold float64 // 0..1; NDA bucket is kept once any series reaches it
	MaxSeries    int
}

// BinnedSeries is one plotted series: a percentage per category.
type BinnedSeries struct {
	Name     string
	Percents []float64
}

// Result carries the category labels and every surviving series. All
// series have exactly len(Labels) percentages.
type Result struct {
	Labels []string
	Series []BinnedSeries
}

// ndaBoundary sits below every real mark so that -1 placeholders land in
// their own bucket.
const ndaBoundary = -1.0

// Aggregate buckets each series into the bin set and returns percentage
// distributions. Series past MaxSeries are evicted oldest-first and
// returned so the caller can report them. Textual entries have already
// been rejected upstream when the series were built; by this point every
// value is numeric.
func Aggregate(series []domain.GradeSeries, bins domain.BinSet, opts Options) (Result, []string) {
	var evicted []string
	if opts.MaxSeries > 0 && len(series) > opts.MaxSeries {
		cut := len(series) - opts.MaxSeries
		for _, s := range series[:cut] {
			evicted = append(evicted, s.Name)
			log.Printf("Evicting series %q: at most %d series fit on one histogram", s.Name, opts.MaxSeries)
		}
		series = series[cut:]
	}

	boundaries := append([]float64(nil), bins.Boundaries...)
	if bins.Kind == domain.CoOpBins {
		// The standard bucketing below is half-open on the left edge.
		// On the 1-5 integer scale that puts each boundary score one
		// bucket too high, so interior boundaries shift up by one.
		for i := 1; i < len(boundaries)-1; i++ {
			boundaries[i]++
		}
	}
	if opts.ShowNDA {
		boundaries = append([]float64{ndaBoundary}, boundaries...)
	}

	percents := make([][]float64, len(series))
	for i, s := range series {
		counts := bucket(s.Values, boundaries)
		percents[i] = make([]float64, len(counts))
		if size := s.TrueSize(); size > 0 {
			for j, c := range counts {
				percents[i][j] = float64(c) / float64(size) * 100
			}
		}
		// A zero-size series keeps all-zero percentages rather than
		// dividing by zero; the caller reports it as missing data.
	}

	labels := append([]string(nil), bins.Labels...)
	if opts.ShowNDA {
		keepNDA := false
		for _, p := range percents {
			if p[0] >= opts.NDAThreshold*100 {
				keepNDA = true
				break
			}
		}
		if keepNDA {
			// Side-by-side bars need a uniform column count, so once one
			// series crosses the threshold every series keeps the bucket.
			labels = append([]string{"No Data Available"}, labels...)
		} else {
			for i := range percents {
				percents[i] = percents[i][1:]
			}
		}
	}

	result := Result{Labels: labels, Series: make([]BinnedSeries, len(series))}
	for i, s := range series {
		result.Series[i] = BinnedSeries{Name: s.Name, Percents: percents[i]}
	}
	return result, evicted
}

// bucket counts values per bin. Bins are half-open [b[i], b[i+1]) with
// the final bin closed on both ends; values outside the boundary range
// are dropped.
func bucket(values, boundaries []float64) []int {
	counts := make([]int, len(boundaries)-1)
	last := len(counts) - 1
	for _, v := range values {
		if v < boundaries[0] || v > boundaries[len(boundaries)-1] {
			continue
		}
		if v == boundaries[len(boundaries)-1] {
			counts[last]++
			continue
		}
		for i := 0; i <= last; i++ {
			if v >= boundaries[i] && v < boundaries[i+1] {
				counts[i]++
				break
			}
		}
	}
	return counts
}
