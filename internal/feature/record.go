package feature

import (
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/dataset"
)

// Column names of the raw input schema.
const (
	ColLotArea      = "LotArea"
	ColYearBuilt    = "YearBuilt"
	ColYearRemodAdd = "YearRemodAdd"
	ColYrSold       = "YrSold"
	ColOverallQual  = "OverallQual"
	ColOverallCond  = "OverallCond"
)

// Columns derived by the Engineer.
const (
	ColLotAge          = "LotAge"
	ColYearsSinceRemod = "YearsSinceRemod"
)

// House holds the raw attributes of one house. YrSold of zero means "not
// supplied"; the caller's sale-year policy fills it in.
type House struct {
	LotArea      float64
	YearBuilt    int
	YearRemodAdd int
	YrSold       int
	OverallQual  int
	OverallCond  int
}

// Frame builds a one-row frame from the record. A zero YrSold is omitted so
// the Engineer applies its default sale-year policy.
func (h House) Frame() *dataset.Frame {
	f := dataset.NewFrame(1)
	_ = f.SetColumn(ColLotArea, []float64{h.LotArea})
	_ = f.SetColumn(ColYearBuilt, []float64{float64(h.YearBuilt)})
	_ = f.SetColumn(ColYearRemodAdd, []float64{float64(h.YearRemodAdd)})
	if h.YrSold != 0 {
		_ = f.SetColumn(ColYrSold, []float64{float64(h.YrSold)})
	}
	_ = f.SetColumn(ColOverallQual, []float64{float64(h.OverallQual)})
	_ = f.SetColumn(ColOverallCond, []float64{float64(h.OverallCond)})
	return f
}
