package preprocess

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/core"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/dataset"
)

func twoColConfig() Config {
	return Config{Features: []string{"a", "b"}, Degree: 2}
}

func twoColFrame(t *testing.T, a, b []float64) *dataset.Frame {
	t.Helper()
	f, err := dataset.FromColumns([]string{"a", "b"}, [][]float64{a, b})
	require.NoError(t, err)
	return f
}

func TestFitTransformKnownValues(t *testing.T) {
	p := New(twoColConfig())
	f := twoColFrame(t, []float64{1, 2, 3, 4}, []float64{10, 20, 30, 40})

	out, err := p.FitTransform(f)
	require.NoError(t, err)

	rows, cols := out.Dims()
	assert.Equal(t, 4, rows)
	// Degree 2 over 2 features: a, b, a^2, a*b, b^2.
	assert.Equal(t, 5, cols)

	// Robust scaling of 1..4: median 2.5, IQR 3.25-1.75 = 1.5, so the
	// scaled column is [-1, -1/3, 1/3, 1]; b scales identically.
	third := 1.0 / 3.0
	wantScaled := []float64{-1, -third, third, 1}
	for i, want := range wantScaled {
		assert.InDelta(t, want, out.At(i, 0), 1e-12, "column a, row %d", i)
		assert.InDelta(t, want, out.At(i, 1), 1e-12, "column b, row %d", i)
		assert.InDelta(t, want*want, out.At(i, 2), 1e-12, "column a^2, row %d", i)
		assert.InDelta(t, want*want, out.At(i, 3), 1e-12, "column a*b, row %d", i)
		assert.InDelta(t, want*want, out.At(i, 4), 1e-12, "column b^2, row %d", i)
	}

	names, err := p.FeatureNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "a^2", "a b", "b^2"}, names)
}

func TestIncludeBiasPrependsConstant(t *testing.T) {
	cfg := twoColConfig()
	cfg.IncludeBias = true
	p := New(cfg)

	out, err := p.FitTransform(twoColFrame(t, []float64{1, 2, 3}, []float64{4, 5, 6}))
	require.NoError(t, err)

	_, cols := out.Dims()
	assert.Equal(t, 6, cols)
	for i := 0; i < 3; i++ {
		assert.Equal(t, 1.0, out.At(i, 0))
	}

	names, err := p.FeatureNames()
	require.NoError(t, err)
	assert.Equal(t, "1", names[0])
}

func TestImputationUsesFittedMedian(t *testing.T) {
	p := New(twoColConfig())
	require.NoError(t, p.Fit(twoColFrame(t, []float64{1, 2, 3}, []float64{1, 2, 3})))

	// At transform time a NaN must be filled with the median learned at
	// fit time (2), not anything derived from the current batch.
	out, err := p.Transform(twoColFrame(t, []float64{math.NaN()}, []float64{100}))
	require.NoError(t, err)

	// (2 - 2) / IQR == 0 regardless of the rest of the batch.
	assert.Equal(t, 0.0, out.At(0, 0))
}

func TestFitWithMissingValues(t *testing.T) {
	p := New(twoColConfig())
	f := twoColFrame(t, []float64{1, math.NaN(), 3}, []float64{4, 5, 6})

	out, err := p.FitTransform(f)
	require.NoError(t, err)

	rows, _ := out.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < 5; j++ {
			assert.False(t, math.IsNaN(out.At(i, j)), "NaN leaked to output at %d,%d", i, j)
		}
	}
}

func TestZeroIQRFallsBackToUnitScale(t *testing.T) {
	p := New(twoColConfig())
	out, err := p.FitTransform(twoColFrame(t, []float64{5, 5, 5}, []float64{1, 2, 3}))
	require.NoError(t, err)

	// Constant column: center 5, scale forced to 1, all zeros.
	for i := 0; i < 3; i++ {
		assert.Equal(t, 0.0, out.At(i, 0))
	}
}

func TestTransformBeforeFit(t *testing.T) {
	p := New(twoColConfig())
	_, err := p.Transform(twoColFrame(t, []float64{1}, []float64{2}))

	var notFitted *core.NotFittedError
	require.ErrorAs(t, err, &notFitted)
	assert.Equal(t, "Transform", notFitted.Op)
}

func TestFitEmptyInput(t *testing.T) {
	p := New(twoColConfig())
	err := p.Fit(twoColFrame(t, nil, nil))

	var empty *core.EmptyInputError
	assert.ErrorAs(t, err, &empty)
}

func TestTransformEmptyInput(t *testing.T) {
	p := New(twoColConfig())
	require.NoError(t, p.Fit(twoColFrame(t, []float64{1, 2}, []float64{3, 4})))

	// The schema of a zero-row frame still matches, so this must come back
	// as a typed error rather than a panic when building the matrix.
	_, err := p.Transform(twoColFrame(t, nil, nil))

	var empty *core.EmptyInputError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, "Transform", empty.Op)
}

func TestSchemaMismatch(t *testing.T) {
	p := New(twoColConfig())
	require.NoError(t, p.Fit(twoColFrame(t, []float64{1, 2}, []float64{3, 4})))

	t.Run("missing column", func(t *testing.T) {
		f, err := dataset.FromColumns([]string{"a"}, [][]float64{{1}})
		require.NoError(t, err)

		_, err = p.Transform(f)
		var mismatch *core.SchemaMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, []string{"b"}, mismatch.Missing)
	})

	t.Run("unexpected column", func(t *testing.T) {
		f, err := dataset.FromColumns([]string{"a", "b", "c"}, [][]float64{{1}, {2}, {3}})
		require.NoError(t, err)

		_, err = p.Transform(f)
		var mismatch *core.SchemaMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, []string{"c"}, mismatch.Unexpected)
	})

	t.Run("fit input lacking configured feature", func(t *testing.T) {
		fresh := New(twoColConfig())
		f, err := dataset.FromColumns([]string{"a"}, [][]float64{{1, 2}})
		require.NoError(t, err)

		err = fresh.Fit(f)
		var mismatch *core.SchemaMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, []string{"b"}, mismatch.Missing)
	})
}

func TestExtraColumnsAtFitAreCarriedInSchema(t *testing.T) {
	// Columns beyond the configured features are tolerated at fit time
	// but become part of the required transform schema.
	p := New(twoColConfig())
	f, err := dataset.FromColumns([]string{"a", "b", "extra"}, [][]float64{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, err)
	require.NoError(t, p.Fit(f))

	_, err = p.Transform(twoColFrame(t, []float64{1}, []float64{2}))
	var mismatch *core.SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, []string{"extra"}, mismatch.Missing)
}

func TestRefitIsIdempotent(t *testing.T) {
	f := twoColFrame(t, []float64{1, 2, 3, 4}, []float64{10, 20, 30, 40})
	probe := twoColFrame(t, []float64{2.5}, []float64{17})

	p := New(twoColConfig())
	require.NoError(t, p.Fit(f))
	first, err := p.Transform(probe)
	require.NoError(t, err)

	require.NoError(t, p.Fit(f))
	second, err := p.Transform(probe)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(denseData(first), denseData(second)))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	f := twoColFrame(t, []float64{1, 2, 3, 4, 5}, []float64{2, 3, 5, 8, 13})
	probe := twoColFrame(t, []float64{1.7, math.NaN()}, []float64{4.2, 6.1})

	p := New(twoColConfig())
	require.NoError(t, p.Fit(f))

	path := filepath.Join(t.TempDir(), "preprocessor.gob")
	require.NoError(t, p.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	want, err := p.Transform(probe)
	require.NoError(t, err)
	got, err := loaded.Transform(probe)
	require.NoError(t, err)

	// Exact equality is the bar: the downstream coefficients are bound
	// bit-for-bit to these columns.
	assert.Empty(t, cmp.Diff(denseData(want), denseData(got)))
}

func TestSaveUnfitted(t *testing.T) {
	p := New(twoColConfig())
	err := p.Save(filepath.Join(t.TempDir(), "preprocessor.gob"))

	var notFitted *core.NotFittedError
	assert.ErrorAs(t, err, &notFitted)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.gob"))
		var loadErr *core.ArtifactLoadError
		assert.ErrorAs(t, err, &loadErr)
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corrupt.gob")
		require.NoError(t, os.WriteFile(path, []byte("not a gob stream"), 0644))

		_, err := Load(path)
		var loadErr *core.ArtifactLoadError
		assert.ErrorAs(t, err, &loadErr)
	})
}

func TestPolynomialPowersOrdering(t *testing.T) {
	// Degree 2 over 3 variables: x0 x1 x2, then x0^2 x0x1 x0x2 x1^2 x1x2 x2^2.
	powers := polynomialPowers(3, 2, false)
	want := [][]int{
		{1, 0, 0}, {0, 1, 0}, {0, 0, 1},
		{2, 0, 0}, {1, 1, 0}, {1, 0, 1},
		{0, 2, 0}, {0, 1, 1}, {0, 0, 2},
	}
	assert.Equal(t, want, powers)
}

func TestPercentile(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	assert.Equal(t, 2.5, median(xs))
	assert.Equal(t, 1.75, percentile(xs, 25))
	assert.Equal(t, 3.25, percentile(xs, 75))
	assert.Equal(t, 1.0, percentile(xs, 0))
	assert.Equal(t, 4.0, percentile(xs, 100))
	assert.Equal(t, []float64{1, 2, 3, 4}, xs, "input must not be reordered")
}

func denseData(d *mat.Dense) []float64 {
	raw := d.RawMatrix()
	out := make([]float64, len(raw.Data))
	copy(out, raw.Data)
	return out
}

// Errors surfaced by the pipeline are the typed kinds, not bare strings.
func TestErrorKindsAreTyped(t *testing.T) {
	p := New(twoColConfig())
	_, err := p.Transform(twoColFrame(t, []float64{1}, []float64{2}))
	assert.False(t, errors.Is(err, os.ErrNotExist))
	var notFitted *core.NotFittedError
	assert.ErrorAs(t, err, &notFitted)
}
