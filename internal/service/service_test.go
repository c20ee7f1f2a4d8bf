package service_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/core"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/dataset"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/feature"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/model"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/preprocess"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/service"
)

// identityEngineer passes input through untouched.
type identityEngineer struct{}

func (identityEngineer) Transform(f *dataset.Frame) (*dataset.Frame, error) { return f, nil }

// passthroughPreprocessor emits one column of zeros per input row.
type passthroughPreprocessor struct {
	err error
}

func (p *passthroughPreprocessor) Fit(*dataset.Frame) error { return nil }
func (p *passthroughPreprocessor) Transform(f *dataset.Frame) (*mat.Dense, error) {
	if p.err != nil {
		return nil, p.err
	}
	return mat.NewDense(f.NumRows(), 1, nil), nil
}
func (p *passthroughPreprocessor) Save(string) error { return nil }

// constModel returns a fixed price per row.
type constModel struct {
	price float64
	err   error
}

func (m *constModel) Fit(*mat.Dense, []float64) error { return nil }
func (m *constModel) Predict(X *mat.Dense) ([]float64, error) {
	if m.err != nil {
		return nil, m.err
	}
	rows, _ := X.Dims()
	out := make([]float64, rows)
	for i := range out {
		out[i] = m.price
	}
	return out, nil
}
func (m *constModel) Save(string) error { return nil }

func sampleHouse() feature.House {
	return feature.House{
		LotArea:      8450,
		YearBuilt:    2003,
		YearRemodAdd: 2003,
		YrSold:       2024,
		OverallQual:  7,
		OverallCond:  5,
	}
}

func TestPredictSingleWiresCollaborators(t *testing.T) {
	svc, err := service.New(identityEngineer{}, &passthroughPreprocessor{}, &constModel{price: 241000})
	require.NoError(t, err)

	price, err := svc.PredictSingle(sampleHouse())
	require.NoError(t, err)
	assert.Equal(t, 241000.0, price)
}

func TestPredictBatch(t *testing.T) {
	svc, err := service.New(identityEngineer{}, &passthroughPreprocessor{}, &constModel{price: 100000})
	require.NoError(t, err)

	f, err := dataset.FromColumns(
		[]string{feature.ColYearBuilt, feature.ColYearRemodAdd, feature.ColYrSold},
		[][]float64{{2000, 1990}, {2000, 1995}, {2020, 2020}},
	)
	require.NoError(t, err)

	prices, err := svc.Predict(f)
	require.NoError(t, err)
	assert.Equal(t, []float64{100000, 100000}, prices)
}

func TestConstructionRequiresCollaborators(t *testing.T) {
	_, err := service.New(identityEngineer{}, nil, &constModel{})
	assert.ErrorContains(t, err, "preprocessor")

	_, err = service.New(identityEngineer{}, &passthroughPreprocessor{}, nil)
	assert.ErrorContains(t, err, "model")
}

func TestNilEngineerDefaults(t *testing.T) {
	svc, err := service.New(nil, &passthroughPreprocessor{}, &constModel{price: 1})
	require.NoError(t, err)

	// The default engineer applies its sale-year policy, so a record
	// without YrSold still predicts.
	h := sampleHouse()
	h.YrSold = 0
	price, err := svc.PredictSingle(h)
	require.NoError(t, err)
	assert.Equal(t, 1.0, price)
}

func TestStageErrorsAreWrapped(t *testing.T) {
	t.Run("preprocessing stage", func(t *testing.T) {
		boom := &core.NotFittedError{Component: "preprocessing pipeline", Op: "Transform"}
		svc, err := service.New(identityEngineer{}, &passthroughPreprocessor{err: boom}, &constModel{})
		require.NoError(t, err)

		_, err = svc.PredictSingle(sampleHouse())
		assert.ErrorContains(t, err, "preprocessing stage")

		var notFitted *core.NotFittedError
		assert.ErrorAs(t, err, &notFitted, "the typed cause must survive wrapping")
	})

	t.Run("prediction stage", func(t *testing.T) {
		boom := errors.New("exploded")
		svc, err := service.New(identityEngineer{}, &passthroughPreprocessor{}, &constModel{err: boom})
		require.NoError(t, err)

		_, err = svc.PredictSingle(sampleHouse())
		assert.ErrorContains(t, err, "prediction stage")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("feature engineering stage", func(t *testing.T) {
		svc, err := service.New(nil, &passthroughPreprocessor{}, &constModel{})
		require.NoError(t, err)

		// Missing YearBuilt makes the real engineer fail.
		f, err2 := dataset.FromColumns([]string{feature.ColLotArea}, [][]float64{{8450}})
		require.NoError(t, err2)

		_, err = svc.Predict(f)
		assert.ErrorContains(t, err, "feature engineering stage")
	})
}

// trainArtifacts fits a real pipeline and model on a small synthetic set
// and saves both, returning the paths.
func trainArtifacts(t *testing.T) (modelPath, prePath string) {
	t.Helper()

	n := 30
	lotArea := make([]float64, n)
	built := make([]float64, n)
	remod := make([]float64, n)
	sold := make([]float64, n)
	qual := make([]float64, n)
	cond := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		lotArea[i] = 5000 + 300*float64(i)
		built[i] = float64(1950 + i)
		remod[i] = built[i]
		if i%3 == 0 {
			remod[i] = built[i] + 10
		}
		sold[i] = 2024
		qual[i] = float64(1 + i%10)
		cond[i] = float64(1 + (i+4)%10)
		y[i] = 80000 + 4000*float64(i)
	}
	raw, err := dataset.FromColumns(
		[]string{feature.ColLotArea, feature.ColYearBuilt, feature.ColYearRemodAdd, feature.ColYrSold, feature.ColOverallQual, feature.ColOverallCond},
		[][]float64{lotArea, built, remod, sold, qual, cond},
	)
	require.NoError(t, err)

	engineered, err := feature.NewEngineer(2024).Transform(raw)
	require.NoError(t, err)

	pipe := preprocess.New(preprocess.DefaultConfig())
	X, err := pipe.FitTransform(engineered)
	require.NoError(t, err)

	mdl := model.New(model.DefaultAlpha)
	require.NoError(t, mdl.Fit(X, y))

	dir := t.TempDir()
	modelPath = filepath.Join(dir, "model.gob")
	prePath = filepath.Join(dir, "preprocessor.gob")
	require.NoError(t, mdl.Save(modelPath))
	require.NoError(t, pipe.Save(prePath))
	return modelPath, prePath
}

func TestFromFiles(t *testing.T) {
	modelPath, prePath := trainArtifacts(t)

	svc, err := service.FromFiles(modelPath, prePath, 2024)
	require.NoError(t, err)

	price, err := svc.PredictSingle(sampleHouse())
	require.NoError(t, err)
	assert.False(t, price <= 0, "price must be positive, got %g", price)
}

func TestPredictHeaderOnlyInput(t *testing.T) {
	modelPath, prePath := trainArtifacts(t)
	svc, err := service.FromFiles(modelPath, prePath, 2024)
	require.NoError(t, err)

	// A CSV with a header but no rows loads into a zero-row frame; the
	// batch path must reject it with a typed error.
	path := filepath.Join(t.TempDir(), "empty.csv")
	header := "LotArea,YearBuilt,YearRemodAdd,YrSold,OverallQual,OverallCond\n"
	require.NoError(t, os.WriteFile(path, []byte(header), 0o644))

	f, err := dataset.ReadCSV(path)
	require.NoError(t, err)
	require.Equal(t, 0, f.NumRows())

	_, err = svc.Predict(f)
	var empty *core.EmptyInputError
	require.ErrorAs(t, err, &empty)
	assert.ErrorContains(t, err, "preprocessing stage")
}

func TestFromFilesMissingArtifacts(t *testing.T) {
	dir := t.TempDir()

	_, err := service.FromFiles(filepath.Join(dir, "m.gob"), filepath.Join(dir, "p.gob"), 0)
	var loadErr *core.ArtifactLoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestLoadedServiceMatchesInMemory(t *testing.T) {
	modelPath, prePath := trainArtifacts(t)

	svc1, err := service.FromFiles(modelPath, prePath, 2024)
	require.NoError(t, err)
	svc2, err := service.FromFiles(modelPath, prePath, 2024)
	require.NoError(t, err)

	h := sampleHouse()
	p1, err := svc1.PredictSingle(h)
	require.NoError(t, err)
	p2, err := svc2.PredictSingle(h)
	require.NoError(t, err)
	assert.Equal(t, p1, p2, "two loads of the same artifacts must agree exactly")
}
