// Package core defines the contracts shared by the prediction pipeline
// components and the typed errors they return.
package core

import (
	"gonum.org/v1/gonum/mat"

	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/dataset"
)

// Transformer derives new columns from raw input. It is stateless: no
// fitting is required before Transform.
type Transformer interface {
	Transform(f *dataset.Frame) (*dataset.Frame, error)
}

// Preprocessor turns engineered feature columns into a fixed-width numeric
// matrix. Fit establishes the column schema and the learned statistics;
// Transform reuses them. Save and Load round-trip the complete fitted
// state exactly.
type Preprocessor interface {
	Fit(f *dataset.Frame) error
	Transform(f *dataset.Frame) (*mat.Dense, error)
	Save(path string) error
}

// Model is a fit/predict/persist regression model. Predict returns exactly
// one value per input row.
type Model interface {
	Fit(X *mat.Dense, y []float64) error
	Predict(X *mat.Dense) ([]float64, error)
	Save(path string) error
}
