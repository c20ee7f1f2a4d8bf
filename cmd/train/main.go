// Package main trains the house price model: it validates the training
// data, fits the preprocessing pipeline and the regression model, and
// saves both artifacts.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/config"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/dataset"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/feature"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/model"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/preprocess"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/service"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/validation"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/pkg/logger"
)

const targetColumn = "SalePrice"

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to the configuration file")
	dataPath := flag.String("data", "data/train.csv", "Path to the training CSV")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, *dataPath, log); err != nil {
		log.Fatal("training failed", zap.Error(err))
	}
}

func run(cfg *config.Config, dataPath string, log *zap.Logger) error {
	log.Info("loading training data", zap.String("path", dataPath))
	full, err := dataset.ReadCSV(dataPath)
	if err != nil {
		return fmt.Errorf("reading training data: %w", err)
	}

	target, ok := full.Column(targetColumn)
	if !ok {
		return fmt.Errorf("training data has no %s column", targetColumn)
	}
	y := make([]float64, len(target))
	copy(y, target)

	raw, err := full.Select(rawColumns(full))
	if err != nil {
		return fmt.Errorf("selecting feature columns: %w", err)
	}

	checker := validation.NewChecker(cfg.Model.ValidationTolerance)
	result := checker.CheckRaw(raw)
	log.Info("raw data validation", zap.String("result", result.Summary()))
	if err := result.Err(); err != nil {
		return err
	}

	saleYear := cfg.Model.DefaultSaleYear
	if saleYear <= 0 {
		saleYear = time.Now().Year()
	}
	engineer := feature.NewEngineer(saleYear)
	engineered, err := engineer.Transform(raw)
	if err != nil {
		return fmt.Errorf("feature engineering: %w", err)
	}

	result = checker.CheckEngineered(engineered)
	log.Info("engineered data validation", zap.String("result", result.Summary()))
	if err := result.Err(); err != nil {
		return err
	}

	pipeCfg := preprocess.DefaultConfig()
	pipeCfg.Degree = cfg.Model.PolyDegree
	pipeCfg.IncludeBias = bool(cfg.Model.PolyIncludeBias)
	pipe := preprocess.New(pipeCfg)

	X, err := pipe.FitTransform(engineered)
	if err != nil {
		return fmt.Errorf("fitting preprocessor: %w", err)
	}
	width, _ := pipe.NumOutputs()
	log.Info("preprocessor fitted",
		zap.Int("rows", engineered.NumRows()),
		zap.Int("expandedColumns", width))

	mdl := model.New(cfg.Model.RidgeAlpha)
	if err := mdl.Fit(X, y); err != nil {
		return fmt.Errorf("fitting model: %w", err)
	}
	log.Info("model fitted",
		zap.Float64("alpha", mdl.Alpha()),
		zap.String("version", mdl.Version()))

	fitted, err := mdl.Predict(X)
	if err != nil {
		return fmt.Errorf("evaluating model: %w", err)
	}
	log.Info("training fit", zap.Float64("rmse", rmse(y, fitted)))

	if err := pipe.Save(cfg.Model.PreprocessorPath); err != nil {
		return fmt.Errorf("saving preprocessor: %w", err)
	}
	log.Info("saved preprocessor", zap.String("path", cfg.Model.PreprocessorPath))

	if err := mdl.Save(cfg.Model.ModelPath); err != nil {
		return fmt.Errorf("saving model: %w", err)
	}
	log.Info("saved model", zap.String("path", cfg.Model.ModelPath))

	// Sanity check: a service built from the saved artifacts must load.
	if _, err := service.FromFiles(cfg.Model.ModelPath, cfg.Model.PreprocessorPath, saleYear); err != nil {
		return fmt.Errorf("verifying saved artifacts: %w", err)
	}
	log.Info("training complete")
	return nil
}

// rawColumns returns the raw input columns to train on. YrSold is optional
// in the data; everything else the validator will demand.
func rawColumns(f *dataset.Frame) []string {
	cols := []string{
		feature.ColLotArea,
		feature.ColYearBuilt,
		feature.ColYearRemodAdd,
		feature.ColOverallQual,
		feature.ColOverallCond,
	}
	if f.HasColumn(feature.ColYrSold) {
		cols = append(cols, feature.ColYrSold)
	}
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if f.HasColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

func rmse(want, got []float64) float64 {
	if len(want) == 0 {
		return 0
	}
	sum := 0.0
	for i := range want {
		d := want[i] - got[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(want)))
}
