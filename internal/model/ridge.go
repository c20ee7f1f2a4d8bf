// Package model implements the regularized regression model used for price
// estimation: a ridge regressor with an unpenalized intercept, wrapped with
// an invertible quantile target transform. The regressor and the transform
// are one composite unit; they are fitted, persisted and restored together.
package model

import (
	"fmt"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/core"
)

const componentName = "regression model"

// DefaultAlpha is the regularization strength the model was tuned with.
const DefaultAlpha = 8.5

// Ridge is an L2-regularized linear regressor over a quantile-normalized
// target. The zero value is unfitted; Fit or Load must succeed before
// Predict. A fitted model is never mutated by Predict and is safe to share
// across concurrent callers.
type Ridge struct {
	alpha  float64
	fitted bool

	version   string
	width     int
	weights   []float64
	intercept float64
	target    *quantileTransform
}

// New creates an unfitted model. alpha is the L2 penalty; it is a fixed
// hyperparameter, not learned.
func New(alpha float64) *Ridge {
	return &Ridge{alpha: alpha}
}

// Alpha returns the regularization strength.
func (m *Ridge) Alpha() float64 { return m.alpha }

// Version returns the identifier assigned to the fitted parameters, or an
// empty string before fitting.
func (m *Ridge) Version() string { return m.version }

// Fit learns the target transform on y, then the ridge coefficients on
// (X, transformed y). Re-fitting discards all previous state.
func (m *Ridge) Fit(X *mat.Dense, y []float64) error {
	rows, cols := X.Dims()
	if rows == 0 {
		return &core.EmptyInputError{Component: componentName, Op: "Fit"}
	}
	if len(y) != rows {
		return fmt.Errorf("%s: %d rows of features for %d targets", componentName, rows, len(y))
	}

	target := fitQuantileTransform(y)
	z := make([]float64, rows)
	for i, v := range y {
		z[i] = target.transform(v)
	}

	// Center features and target so the intercept is not penalized.
	xMeans := make([]float64, cols)
	for j := 0; j < cols; j++ {
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += X.At(i, j)
		}
		xMeans[j] = sum / float64(rows)
	}
	zMean := 0.0
	for _, v := range z {
		zMean += v
	}
	zMean /= float64(rows)

	xc := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			xc.Set(i, j, X.At(i, j)-xMeans[j])
		}
	}

	// Normal equations: (Xc'Xc + alpha*I) w = Xc'zc.
	gram := mat.NewSymDense(cols, nil)
	for j := 0; j < cols; j++ {
		for k := j; k < cols; k++ {
			sum := 0.0
			for i := 0; i < rows; i++ {
				sum += xc.At(i, j) * xc.At(i, k)
			}
			if j == k {
				sum += m.alpha
			}
			gram.SetSym(j, k, sum)
		}
	}
	rhs := mat.NewVecDense(cols, nil)
	for j := 0; j < cols; j++ {
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += xc.At(i, j) * (z[i] - zMean)
		}
		rhs.SetVec(j, sum)
	}

	w := mat.NewVecDense(cols, nil)
	var chol mat.Cholesky
	if chol.Factorize(gram) {
		if err := chol.SolveVecTo(w, rhs); err != nil {
			return fmt.Errorf("%s: failed to solve normal equations: %w", componentName, err)
		}
	} else {
		// Singular gram matrix (alpha of zero with collinear columns);
		// fall back to a least-squares solve.
		if err := w.SolveVec(gram, rhs); err != nil {
			return fmt.Errorf("%s: failed to solve normal equations: %w", componentName, err)
		}
	}

	weights := make([]float64, cols)
	intercept := zMean
	for j := 0; j < cols; j++ {
		weights[j] = w.AtVec(j)
		intercept -= xMeans[j] * weights[j]
	}

	m.target = target
	m.weights = weights
	m.intercept = intercept
	m.width = cols
	m.version = uuid.New().String()
	m.fitted = true
	return nil
}

// Predict returns one price per input row. The raw regressor output is a
// column vector; it is flattened and shape-checked here so callers always
// receive a flat slice regardless of the underlying representation.
func (m *Ridge) Predict(X *mat.Dense) ([]float64, error) {
	if !m.fitted {
		return nil, &core.NotFittedError{Component: componentName, Op: "Predict"}
	}
	rows, cols := X.Dims()
	if cols != m.width {
		return nil, &core.SchemaMismatchError{WantWidth: m.width, GotWidth: cols}
	}

	raw := m.predictRaw(X)
	scores, err := flatten(raw, rows)
	if err != nil {
		return nil, err
	}

	prices := make([]float64, rows)
	for i, z := range scores {
		prices[i] = m.target.inverse(z)
	}
	return prices, nil
}

// predictRaw computes the normal-scale scores as an n x 1 column vector.
func (m *Ridge) predictRaw(X *mat.Dense) *mat.Dense {
	rows, _ := X.Dims()
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		sum := m.intercept
		for j, w := range m.weights {
			sum += w * X.At(i, j)
		}
		out.Set(i, 0, sum)
	}
	return out
}

// flatten reduces an n x 1 matrix to a slice of n values, rejecting any
// other shape.
func flatten(raw *mat.Dense, wantRows int) ([]float64, error) {
	rows, cols := raw.Dims()
	if rows != wantRows || cols != 1 {
		return nil, &core.ShapeError{WantRows: wantRows, GotRows: rows, GotCols: cols}
	}
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = raw.At(i, 0)
	}
	return out, nil
}
