// Package outlier implements a small unsupervised outlier scorer used by
// the diagnosis evaluator and the interaction auditor. It is a z-score
// based stand-in for an isolation forest: fitted once over historical
// samples, then queried with a decision function whose sign follows the
// sklearn convention (positive for inliers, negative for outliers).
package outlier

import (
	"math"
)

// MinSamples is the number of samples required before a scorer is
// considered fitted. Below this the decision function is neutral.
const MinSamples = 2

// Scorer holds per-feature statistics learned from historical data.
type Scorer struct {
	means []float64
	stds  []float64

	fitted bool
}

// Fit learns per-feature mean and standard deviation from the samples.
// Rows must share a length; rows with a different length are skipped.
// Fewer than MinSamples usable rows produce an unfitted scorer.
func Fit(samples [][]float64) *Scorer {
	s := &Scorer{}
	if len(samples) == 0 {
		return s
	}

	dim := len(samples[0])
	if dim == 0 {
		return s
	}

	sums := make([]float64, dim)
	n := 0
	for _, row := range samples {
		if len(row) != dim {
			continue
		}
		for i, v := range row {
			sums[i] += v
		}
		n++
	}
	if n < MinSamples {
		return s
	}

	means := make([]float64, dim)
	for i := range sums {
		means[i] = sums[i] / float64(n)
	}

	varsums := make([]float64, dim)
	for _, row := range samples {
		if len(row) != dim {
			continue
		}
		for i, v := range row {
			d := v - means[i]
			varsums[i] += d * d
		}
	}

	stds := make([]float64, dim)
	for i := range varsums {
		stds[i] = math.Sqrt(varsums[i] / float64(n))
	}

	s.means = means
	s.stds = stds
	s.fitted = true
	return s
}

// Fitted reports whether the scorer saw enough data to be usable.
func (s *Scorer) Fitted() bool {
	return s != nil && s.fitted
}

// Decision returns the decision value for a sample: 0.5 for a point at the
// training mean, falling as the mean absolute z-score grows, clamped to
// [-1, 1]. Points beyond roughly two sigma on average go negative. An
// unfitted scorer or mismatched dimension returns 0.
func (s *Scorer) Decision(x []float64) float64 {
	if !s.Fitted() || len(x) != len(s.means) {
		return 0
	}

	var total float64
	for i, v := range x {
		std := s.stds[i]
		if std < 1e-9 {
			std = 1e-9
		}
		total += math.Abs(v-s.means[i]) / std
	}
	meanZ := total / float64(len(x))

	d := 0.5 - meanZ/3
	if d < -1 {
		d = -1
	}
	if d > 1 {
		d = 1
	}
	return d
}
