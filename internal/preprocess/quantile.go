package preprocess

import "sort"

// percentile returns the p-th percentile (0 <= p <= 100) of x using linear
// interpolation between closest ranks, matching the numpy default the
// training data statistics were originally computed with. x is not modified.
func percentile(x []float64, p float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	cp := make([]float64, n)
	copy(cp, x)
	sort.Float64s(cp)
	if p <= 0 {
		return cp[0]
	}
	if p >= 100 {
		return cp[n-1]
	}
	rank := p / 100 * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	if upper >= n {
		return cp[lower]
	}
	weight := rank - float64(lower)
	return cp[lower]*(1-weight) + cp[upper]*weight
}

// median returns the 50th percentile of x.
func median(x []float64) float64 {
	return percentile(x, 50)
}
