// Package main runs batch inference: raw records in, a submissions CSV of
// predicted prices out.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/config"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/csvwriter"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/dataset"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/feature"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/service"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/pkg/logger"
)

const idColumn = "Id"

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to the configuration file")
	inputPath := flag.String("input", "data/test.csv", "Path to the raw input CSV")
	outputPath := flag.String("output", "data/submissions.csv", "Path to write predictions to")
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

	if err := run(cfg, *inputPath, *outputPath, log); err != nil {
		log.Fatal("batch prediction failed", zap.Error(err))
	}
}

func run(cfg *config.Config, inputPath, outputPath string, log *zap.Logger) error {
	log.Info("loading input data", zap.String("path", inputPath))
	full, err := dataset.ReadCSV(inputPath)
	if err != nil {
		return fmt.Errorf("reading input data: %w", err)
	}

	raw, err := full.Select(featureColumns(full))
	if err != nil {
		return fmt.Errorf("selecting feature columns: %w", err)
	}

	svc, err := service.FromFiles(cfg.Model.ModelPath, cfg.Model.PreprocessorPath, cfg.Model.DefaultSaleYear)
	if err != nil {
		return fmt.Errorf("loading prediction service: %w", err)
	}

	prices, err := svc.Predict(raw)
	if err != nil {
		return err
	}

	writer, err := csvwriter.NewSubmissionWriter(outputPath, log)
	if err != nil {
		return err
	}

	ids, hasIDs := full.Column(idColumn)
	for i, price := range prices {
		id := int64(i + 1)
		if hasIDs {
			id = int64(ids[i])
		}
		if err := writer.Write(id, price); err != nil {
			writer.Close()
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	log.Info("predictions written",
		zap.Int("count", len(prices)),
		zap.String("path", outputPath))
	return nil
}

// featureColumns returns the raw input columns the pipeline consumes,
// skipping any that are absent so schema errors surface from the
// preprocessor with full detail.
func featureColumns(f *dataset.Frame) []string {
	candidates := []string{
		feature.ColLotArea,
		feature.ColYearBuilt,
		feature.ColYearRemodAdd,
		feature.ColYrSold,
		feature.ColOverallQual,
		feature.ColOverallCond,
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if f.HasColumn(c) {
			out = append(out, c)
		}
	}
	return out
}
