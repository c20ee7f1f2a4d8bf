package preprocess

import (
	"fmt"
	"strings"
)

// polynomialPowers returns the exponent vector of every output term of a
// polynomial expansion of nFeatures variables up to the given degree. Terms
// are ordered by total degree, then lexicographically by variable index
// within each degree, which fixes the column layout the downstream
// regression coefficients are positionally bound to.
func polynomialPowers(nFeatures, degree int, includeBias bool) [][]int {
	var powers [][]int
	if includeBias {
		powers = append(powers, make([]int, nFeatures))
	}
	for d := 1; d <= degree; d++ {
		for _, combo := range combinationsWithReplacement(nFeatures, d) {
			p := make([]int, nFeatures)
			for _, idx := range combo {
				p[idx]++
			}
			powers = append(powers, p)
		}
	}
	return powers
}

// combinationsWithReplacement enumerates all non-decreasing index tuples of
// length k drawn from [0, n).
func combinationsWithReplacement(n, k int) [][]int {
	var out [][]int
	combo := make([]int, k)
	var walk func(pos, start int)
	walk = func(pos, start int) {
		if pos == k {
			cp := make([]int, k)
			copy(cp, combo)
			out = append(out, cp)
			return
		}
		for i := start; i < n; i++ {
			combo[pos] = i
			walk(pos+1, i)
		}
	}
	walk(0, 0)
	return out
}

// termName renders the name of one expanded column, e.g. "LotArea",
// "LotArea^2" or "LotArea LotAge".
func termName(features []string, powers []int) string {
	var parts []string
	for i, p := range powers {
		switch {
		case p == 1:
			parts = append(parts, features[i])
		case p > 1:
			parts = append(parts, fmt.Sprintf("%s^%d", features[i], p))
		}
	}
	if len(parts) == 0 {
		return "1"
	}
	return strings.Join(parts, " ")
}
