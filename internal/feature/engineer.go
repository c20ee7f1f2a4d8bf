// Package feature derives the calendar-relative columns used by the
// preprocessing pipeline from raw house attributes.
package feature

import (
	"fmt"

	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/dataset"
)

// NeverRemodeled is the sentinel emitted for YearsSinceRemod when the
// remodel year does not exceed the construction year. It distinguishes
// "never remodeled" from "remodeled in the sale year", which would both be
// zero otherwise.
const NeverRemodeled = -1

// Engineer adds LotAge and YearsSinceRemod columns to a raw frame. It is
// stateless and safe for concurrent use.
type Engineer struct {
	defaultSaleYear int
}

// NewEngineer creates an Engineer. defaultSaleYear is used when the input
// has no YrSold column; which year to default to is the caller's policy.
func NewEngineer(defaultSaleYear int) *Engineer {
	return &Engineer{defaultSaleYear: defaultSaleYear}
}

// Transform returns a copy of the input frame with LotAge and
// YearsSinceRemod appended. A sale year earlier than the construction year
// produces a negative age; deciding whether that is fatal is left to the
// data quality checker.
func (e *Engineer) Transform(f *dataset.Frame) (*dataset.Frame, error) {
	built, ok := f.Column(ColYearBuilt)
	if !ok {
		return nil, fmt.Errorf("feature engineering requires column %q", ColYearBuilt)
	}
	remod, ok := f.Column(ColYearRemodAdd)
	if !ok {
		return nil, fmt.Errorf("feature engineering requires column %q", ColYearRemodAdd)
	}

	out := f.Clone()
	sold, ok := out.Column(ColYrSold)
	if !ok {
		sold = make([]float64, f.NumRows())
		for i := range sold {
			sold[i] = float64(e.defaultSaleYear)
		}
		if err := out.SetColumn(ColYrSold, sold); err != nil {
			return nil, err
		}
	}

	age := make([]float64, f.NumRows())
	sinceRemod := make([]float64, f.NumRows())
	for i := range age {
		age[i] = sold[i] - built[i]
		if remod[i] > built[i] {
			sinceRemod[i] = sold[i] - remod[i]
		} else {
			sinceRemod[i] = NeverRemodeled
		}
	}

	if err := out.SetColumn(ColLotAge, age); err != nil {
		return nil, err
	}
	if err := out.SetColumn(ColYearsSinceRemod, sinceRemod); err != nil {
		return nil, err
	}
	return out, nil
}
