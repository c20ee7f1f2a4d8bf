package model

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/core"
)

const formatVersion = 1

// modelState is the serialized form of a fitted model. The regressor
// coefficients and the target transform travel in one blob so the pair can
// never get out of sync.
type modelState struct {
	FormatVersion int
	Alpha         float64
	Version       string
	Width         int
	Weights       []float64
	Intercept     float64
	Quantiles     []float64
	References    []float64
}

// Save writes the complete fitted state to path, creating parent
// directories as needed.
func (m *Ridge) Save(path string) error {
	if !m.fitted {
		return &core.NotFittedError{Component: componentName, Op: "Save"}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create artifact file: %w", err)
	}
	defer file.Close()

	state := modelState{
		FormatVersion: formatVersion,
		Alpha:         m.alpha,
		Version:       m.version,
		Width:         m.width,
		Weights:       m.weights,
		Intercept:     m.intercept,
		Quantiles:     m.target.Quantiles,
		References:    m.target.References,
	}
	if err := gob.NewEncoder(file).Encode(&state); err != nil {
		return fmt.Errorf("failed to encode model state: %w", err)
	}
	return nil
}

// Load restores a fitted model from path. The loaded model predicts
// exactly as the saved one did.
func Load(path string) (*Ridge, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &core.ArtifactLoadError{Path: path, Err: err}
	}
	defer file.Close()

	var state modelState
	if err := gob.NewDecoder(file).Decode(&state); err != nil {
		return nil, &core.ArtifactLoadError{Path: path, Err: err}
	}
	if state.FormatVersion != formatVersion {
		return nil, &core.ArtifactLoadError{
			Path: path,
			Err:  fmt.Errorf("unsupported format version %d (want %d)", state.FormatVersion, formatVersion),
		}
	}
	if state.Width != len(state.Weights) || len(state.Quantiles) != len(state.References) {
		return nil, &core.ArtifactLoadError{Path: path, Err: fmt.Errorf("inconsistent model state")}
	}

	return &Ridge{
		alpha:     state.Alpha,
		fitted:    true,
		version:   state.Version,
		width:     state.Width,
		weights:   state.Weights,
		intercept: state.Intercept,
		target: &quantileTransform{
			Quantiles:  state.Quantiles,
			References: state.References,
		},
	}, nil
}
