package preprocess

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/core"
)

// formatVersion guards against loading artifacts written by an
// incompatible build.
const formatVersion = 1

// pipelineState is the serialized form of a fitted pipeline.
type pipelineState struct {
	FormatVersion int
	Features      []string
	Degree        int
	IncludeBias   bool
	Schema        []string
	Medians       []float64
	Centers       []float64
	Scales        []float64
	Powers        [][]int
}

// Save writes the complete fitted state to path, creating parent
// directories as needed.
func (p *Pipeline) Save(path string) error {
	if !p.fitted {
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

	state := pipelineState{
		FormatVersion: formatVersion,
		Features:      p.cfg.Features,
		Degree:        p.cfg.Degree,
		IncludeBias:   p.cfg.IncludeBias,
		Schema:        p.schema,
		Medians:       p.medians,
		Centers:       p.centers,
		Scales:        p.scales,
		Powers:        p.powers,
	}
	if err := gob.NewEncoder(file).Encode(&state); err != nil {
		return fmt.Errorf("failed to encode preprocessor state: %w", err)
	}
	return nil
}

// Load restores a fitted pipeline from path. The loaded pipeline transforms
// any input exactly as the saved one did.
func Load(path string) (*Pipeline, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &core.ArtifactLoadError{Path: path, Err: err}
	}
	defer file.Close()

	var state pipelineState
	if err := gob.NewDecoder(file).Decode(&state); err != nil {
		return nil, &core.ArtifactLoadError{Path: path, Err: err}
	}
	if state.FormatVersion != formatVersion {
		return nil, &core.ArtifactLoadError{
			Path: path,
			Err:  fmt.Errorf("unsupported format version %d (want %d)", state.FormatVersion, formatVersion),
		}
	}

	return &Pipeline{
		cfg: Config{
			Features:    state.Features,
			Degree:      state.Degree,
			IncludeBias: state.IncludeBias,
		},
		fitted:  true,
		schema:  state.Schema,
		medians: state.Medians,
		centers: state.Centers,
		scales:  state.Scales,
		powers:  state.Powers,
	}, nil
}
