// Package preprocess implements the fitted preprocessing pipeline: median
// imputation, robust scaling and polynomial feature expansion over the
// engineered house columns.
package preprocess

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/core"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/dataset"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/feature"
)

const componentName = "preprocessing pipeline"

// Config controls what the pipeline learns and produces.
type Config struct {
	// Features are the numeric columns fed into the matrix, in the order
	// that fixes the expanded column layout.
	Features []string
	// Degree of the polynomial expansion applied after scaling.
	Degree int
	// IncludeBias prepends a constant 1 column to the expansion.
	IncludeBias bool
}

// DefaultConfig returns the configuration the model was developed with.
func DefaultConfig() Config {
	return Config{
		Features: []string{
			feature.ColLotArea,
			feature.ColLotAge,
			feature.ColOverallQual,
			feature.ColOverallCond,
			feature.ColYearsSinceRemod,
		},
		Degree:      2,
		IncludeBias: false,
	}
}

// Pipeline imputes, scales and polynomially expands engineered feature
// columns. The zero value is unfitted; Fit or Load must succeed before
// Transform. Once fitted it is never mutated by Transform, so a single
// instance is safe to share across concurrent callers.
type Pipeline struct {
	cfg    Config
	fitted bool

	// Fitted state. schema is the complete input column set seen at fit
	// time; transform-time input must carry exactly the same set.
	schema  []string
	medians []float64
	centers []float64
	scales  []float64
	powers  [][]int
}

// New creates an unfitted pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	if len(cfg.Features) == 0 {
		cfg.Features = DefaultConfig().Features
	}
	if cfg.Degree <= 0 {
		cfg.Degree = DefaultConfig().Degree
	}
	return &Pipeline{cfg: cfg}
}

// Fit learns the imputation medians, the robust scaling parameters and the
// polynomial column layout from f. Re-fitting discards all previous state.
func (p *Pipeline) Fit(f *dataset.Frame) error {
	if f.NumRows() == 0 {
		return &core.EmptyInputError{Component: componentName, Op: "Fit"}
	}

	var missing []string
	for _, name := range p.cfg.Features {
		if !f.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &core.SchemaMismatchError{Missing: missing}
	}

	n := len(p.cfg.Features)
	medians := make([]float64, n)
	centers := make([]float64, n)
	scales := make([]float64, n)
	for i, name := range p.cfg.Features {
		col, _ := f.Column(name)
		observed := make([]float64, 0, len(col))
		for _, v := range col {
			if !math.IsNaN(v) {
				observed = append(observed, v)
			}
		}
		if len(observed) == 0 {
			return fmt.Errorf("%s: column %q has no observed values to fit on", componentName, name)
		}
		medians[i] = median(observed)

		imputed := make([]float64, len(col))
		for j, v := range col {
			if math.IsNaN(v) {
				imputed[j] = medians[i]
			} else {
				imputed[j] = v
			}
		}
		centers[i] = percentile(imputed, 50)
		scales[i] = percentile(imputed, 75) - percentile(imputed, 25)
		if scales[i] == 0 {
			scales[i] = 1
		}
	}

	schema := f.Columns()
	sort.Strings(schema)

	p.schema = schema
	p.medians = medians
	p.centers = centers
	p.scales = scales
	p.powers = polynomialPowers(n, p.cfg.Degree, p.cfg.IncludeBias)
	p.fitted = true
	return nil
}

// Transform applies the fitted imputation, scaling and expansion to f and
// returns the resulting matrix, one row per input row.
func (p *Pipeline) Transform(f *dataset.Frame) (*mat.Dense, error) {
	if !p.fitted {
		return nil, &core.NotFittedError{Component: componentName, Op: "Transform"}
	}
	if err := p.checkSchema(f); err != nil {
		return nil, err
	}
	// A header-only input reaches this point with a valid schema; reject it
	// here since a matrix cannot have a zero dimension.
	if f.NumRows() == 0 {
		return nil, &core.EmptyInputError{Component: componentName, Op: "Transform"}
	}

	rows := f.NumRows()
	nFeat := len(p.cfg.Features)
	scaled := make([][]float64, nFeat)
	for i, name := range p.cfg.Features {
		col, _ := f.Column(name)
		s := make([]float64, rows)
		for j, v := range col {
			if math.IsNaN(v) {
				v = p.medians[i]
			}
			s[j] = (v - p.centers[i]) / p.scales[i]
		}
		scaled[i] = s
	}

	out := mat.NewDense(rows, len(p.powers), nil)
	for j, pow := range p.powers {
		for r := 0; r < rows; r++ {
			term := 1.0
			for v, exp := range pow {
				for e := 0; e < exp; e++ {
					term *= scaled[v][r]
				}
			}
			out.Set(r, j, term)
		}
	}
	return out, nil
}

// FitTransform fits the pipeline on f and transforms it in one step.
func (p *Pipeline) FitTransform(f *dataset.Frame) (*mat.Dense, error) {
	if err := p.Fit(f); err != nil {
		return nil, err
	}
	return p.Transform(f)
}

// FeatureNames returns the names of the expanded output columns in order.
func (p *Pipeline) FeatureNames() ([]string, error) {
	if !p.fitted {
		return nil, &core.NotFittedError{Component: componentName, Op: "FeatureNames"}
	}
	names := make([]string, len(p.powers))
	for i, pow := range p.powers {
		names[i] = termName(p.cfg.Features, pow)
	}
	return names, nil
}

// NumOutputs returns the width of the transformed matrix.
func (p *Pipeline) NumOutputs() (int, error) {
	if !p.fitted {
		return 0, &core.NotFittedError{Component: componentName, Op: "NumOutputs"}
	}
	return len(p.powers), nil
}

// checkSchema verifies that f carries exactly the column set seen at fit
// time. A new column is as fatal as a missing one: either way the input no
// longer matches what the fitted statistics describe.
func (p *Pipeline) checkSchema(f *dataset.Frame) error {
	got := f.Columns()
	sort.Strings(got)

	want := make(map[string]bool, len(p.schema))
	for _, name := range p.schema {
		want[name] = true
	}
	have := make(map[string]bool, len(got))
	for _, name := range got {
		have[name] = true
	}

	var missing, unexpected []string
	for _, name := range p.schema {
		if !have[name] {
			missing = append(missing, name)
		}
	}
	for _, name := range got {
		if !want[name] {
			unexpected = append(unexpected, name)
		}
	}
	if len(missing) > 0 || len(unexpected) > 0 {
		return &core.SchemaMismatchError{
			Missing:    missing,
			Unexpected: unexpected,
			WantWidth:  len(p.schema),
			GotWidth:   len(got),
		}
	}
	return nil
}
