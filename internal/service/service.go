// Package service composes feature engineering, preprocessing and the
// regression model behind a single prediction contract.
package service

import (
	"fmt"
	"time"

	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/core"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/dataset"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/feature"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/model"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/preprocess"
)

// Service runs raw records through the full prediction pipeline. A
// constructed Service has all collaborators loaded and never fails a
// predict call for readiness reasons; construction itself fails fast when
// a collaborator is missing or an artifact cannot be loaded. Predict calls
// do not mutate any collaborator, so one Service may serve concurrent
// callers.
type Service struct {
	engineer     core.Transformer
	preprocessor core.Preprocessor
	model        core.Model
}

// New wires a Service from already constructed collaborators. A nil
// engineer defaults to the stock feature engineer with the current year as
// the sale-year fallback; a nil preprocessor or model is a construction
// error.
func New(engineer core.Transformer, preprocessor core.Preprocessor, mdl core.Model) (*Service, error) {
	if engineer == nil {
		engineer = feature.NewEngineer(time.Now().Year())
	}
	if preprocessor == nil {
		return nil, fmt.Errorf("prediction service requires a preprocessor")
	}
	if mdl == nil {
		return nil, fmt.Errorf("prediction service requires a model")
	}
	return &Service{engineer: engineer, preprocessor: preprocessor, model: mdl}, nil
}

// FromFiles loads both fitted artifacts and wires them into a new Service.
// defaultSaleYear is the fallback applied when input lacks a sale year; a
// non-positive value means the current year.
func FromFiles(modelPath, preprocessorPath string, defaultSaleYear int) (*Service, error) {
	if defaultSaleYear <= 0 {
		defaultSaleYear = time.Now().Year()
	}
	pre, err := preprocess.Load(preprocessorPath)
	if err != nil {
		return nil, fmt.Errorf("loading preprocessor: %w", err)
	}
	mdl, err := model.Load(modelPath)
	if err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}
	return New(feature.NewEngineer(defaultSaleYear), pre, mdl)
}

// Predict runs the batch path: feature engineering, preprocessing, then
// prediction. No stage is retried; a failure propagates wrapped with the
// name of the stage that produced it.
func (s *Service) Predict(f *dataset.Frame) ([]float64, error) {
	engineered, err := s.engineer.Transform(f)
	if err != nil {
		return nil, fmt.Errorf("feature engineering stage: %w", err)
	}
	matrix, err := s.preprocessor.Transform(engineered)
	if err != nil {
		return nil, fmt.Errorf("preprocessing stage: %w", err)
	}
	prices, err := s.model.Predict(matrix)
	if err != nil {
		return nil, fmt.Errorf("prediction stage: %w", err)
	}
	return prices, nil
}

// PredictSingle builds a one-row input from the record and unwraps the
// single result.
func (s *Service) PredictSingle(h feature.House) (float64, error) {
	prices, err := s.Predict(h.Frame())
	if err != nil {
		return 0, err
	}
	if len(prices) != 1 {
		return 0, &core.ShapeError{WantRows: 1, GotRows: len(prices), GotCols: 1}
	}
	return prices[0], nil
}
