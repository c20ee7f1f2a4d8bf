package model

import (
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// probClip keeps mapped probabilities away from 0 and 1 so the normal
// quantile function stays finite.
const probClip = 1e-7

// maxQuantiles caps the number of stored reference quantiles for large
// training sets.
const maxQuantiles = 1000

// quantileTransform maps a skewed target to a standard normal shape via the
// empirical quantiles learned at fit time, and back. It is the invertible
// target transform wrapped around the regressor.
type quantileTransform struct {
	// Quantiles holds the target values at the reference probabilities;
	// References holds the probabilities themselves. Both are
	// non-decreasing and of equal length. Exported for serialization.
	Quantiles  []float64
	References []float64
}

func fitQuantileTransform(y []float64) *quantileTransform {
	nq := len(y)
	if nq > maxQuantiles {
		nq = maxQuantiles
	}
	if nq < 2 {
		nq = 2
	}

	refs := make([]float64, nq)
	for i := range refs {
		refs[i] = float64(i) / float64(nq-1)
	}

	sorted := make([]float64, len(y))
	copy(sorted, y)
	sort.Float64s(sorted)

	quantiles := make([]float64, nq)
	for i, p := range refs {
		quantiles[i] = interp(p, linspaceRanks(len(sorted)), sorted)
	}

	return &quantileTransform{Quantiles: quantiles, References: refs}
}

// transform maps a target value to its normal score.
func (q *quantileTransform) transform(v float64) float64 {
	p := interp(v, q.Quantiles, q.References)
	if p < probClip {
		p = probClip
	}
	if p > 1-probClip {
		p = 1 - probClip
	}
	return distuv.UnitNormal.Quantile(p)
}

// inverse maps a normal score back to the target scale.
func (q *quantileTransform) inverse(z float64) float64 {
	p := distuv.UnitNormal.CDF(z)
	return interp(p, q.References, q.Quantiles)
}

// linspaceRanks returns the probabilities assigned to the order statistics
// of a sample of size n, i.e. 0, 1/(n-1), ..., 1.
func linspaceRanks(n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		return out
	}
	for i := range out {
		out[i] = float64(i) / float64(n-1)
	}
	return out
}

// interp linearly interpolates v over the non-decreasing grid xs with
// values ys, clamping outside the grid. Flat segments map to their left
// value.
func interp(v float64, xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	if v <= xs[0] {
		return ys[0]
	}
	if v >= xs[n-1] {
		return ys[n-1]
	}
	i := sort.SearchFloat64s(xs, v)
	if xs[i] == v {
		return ys[i]
	}
	lo, hi := i-1, i
	if xs[hi] == xs[lo] {
		return ys[lo]
	}
	t := (v - xs[lo]) / (xs[hi] - xs[lo])
	return ys[lo] + t*(ys[hi]-ys[lo])
}
