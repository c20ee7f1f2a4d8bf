// Package validation implements the rule-based data quality checks run
// against training batches before fitting and after feature engineering.
// Serving does not invoke these checks.
package validation

import (
	"fmt"
	"math"
	"time"

	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/dataset"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/feature"
)

// DefaultTolerance is the fraction of rows allowed to violate the soft
// cross-field rules (sale year >= remodel year >= construction year).
const DefaultTolerance = 0.01

// Checker evaluates a frame against the domain expectations of the house
// price dataset.
type Checker struct {
	tolerance   float64
	currentYear int
}

// NewChecker creates a Checker. A non-positive tolerance means
// DefaultTolerance.
func NewChecker(tolerance float64) *Checker {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Checker{tolerance: tolerance, currentYear: time.Now().Year()}
}

// CheckRaw validates a raw record batch: required columns, value ranges
// and the soft chronological ordering of the year fields. NaN cells are
// skipped by the range checks; missing values are the imputer's job.
func (c *Checker) CheckRaw(f *dataset.Frame) Result {
	r := newResult()

	required := []string{
		feature.ColLotArea,
		feature.ColYearBuilt,
		feature.ColYearRemodAdd,
		feature.ColOverallQual,
		feature.ColOverallCond,
	}
	for _, name := range required {
		r.evaluate("column_present", name, f.HasColumn(name), "column is missing")
	}

	c.checkRange(&r, f, feature.ColLotArea, 1, math.Inf(1))
	c.checkRange(&r, f, feature.ColYearBuilt, 1800, float64(c.currentYear))
	c.checkRange(&r, f, feature.ColYearRemodAdd, 1800, float64(c.currentYear))
	c.checkRange(&r, f, feature.ColOverallQual, 1, 10)
	c.checkRange(&r, f, feature.ColOverallCond, 1, 10)
	if f.HasColumn(feature.ColYrSold) {
		c.checkRange(&r, f, feature.ColYrSold, 1800, float64(c.currentYear))
	}

	c.checkOrdered(&r, f, feature.ColYearRemodAdd, feature.ColYearBuilt)
	if f.HasColumn(feature.ColYrSold) {
		c.checkOrdered(&r, f, feature.ColYrSold, feature.ColYearRemodAdd)
	}

	return r
}

// CheckEngineered validates the derived columns: ages are non-negative and
// YearsSinceRemod is either the never-remodeled sentinel or bounded by the
// lot age.
func (c *Checker) CheckEngineered(f *dataset.Frame) Result {
	r := newResult()

	age, okAge := f.Column(feature.ColLotAge)
	r.evaluate("column_present", feature.ColLotAge, okAge, "column is missing")
	sinceRemod, okRemod := f.Column(feature.ColYearsSinceRemod)
	r.evaluate("column_present", feature.ColYearsSinceRemod, okRemod, "column is missing")
	if !okAge || !okRemod {
		return r
	}

	negativeAges := 0
	badRemod := 0
	for i := range age {
		if age[i] < 0 {
			negativeAges++
		}
		v := sinceRemod[i]
		if v != feature.NeverRemodeled && (v < 0 || v > age[i]) {
			badRemod++
		}
	}
	r.evaluate("non_negative", feature.ColLotAge, negativeAges == 0,
		fmt.Sprintf("%d rows have a negative age", negativeAges))
	r.evaluate("sentinel_bounds", feature.ColYearsSinceRemod, badRemod == 0,
		fmt.Sprintf("%d rows are neither the sentinel nor within [0, LotAge]", badRemod))

	return r
}

func (c *Checker) checkRange(r *Result, f *dataset.Frame, name string, min, max float64) {
	col, ok := f.Column(name)
	if !ok {
		return
	}
	violations := 0
	for _, v := range col {
		if math.IsNaN(v) {
			continue
		}
		if v < min || v > max {
			violations++
		}
	}
	r.evaluate("value_range", name, violations == 0,
		fmt.Sprintf("%d rows outside [%g, %g]", violations, min, max))
}

// checkOrdered enforces colA >= colB on at least 1-tolerance of the rows.
func (c *Checker) checkOrdered(r *Result, f *dataset.Frame, colA, colB string) {
	a, okA := f.Column(colA)
	b, okB := f.Column(colB)
	if !okA || !okB || len(a) == 0 {
		return
	}
	violations := 0
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		if a[i] < b[i] {
			violations++
		}
	}
	ratio := float64(violations) / float64(len(a))
	r.evaluate("chronological_order", colA+">="+colB, ratio <= c.tolerance,
		fmt.Sprintf("%d of %d rows violate the ordering (tolerance %.0f%%)",
			violations, len(a), c.tolerance*100))
}
