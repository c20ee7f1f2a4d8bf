package core

import (
	"fmt"
	"strings"
)

// NotFittedError is returned when an operation requires a prior Fit or Load.
type NotFittedError struct {
	Component string
	Op        string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s: %s called before Fit or Load", e.Component, e.Op)
}

// SchemaMismatchError is returned when the column set seen at transform or
// predict time does not match the one established at fit time.
type SchemaMismatchError struct {
	Missing    []string
	Unexpected []string
	WantWidth  int
	GotWidth   int
}

func (e *SchemaMismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing columns [%s]", strings.Join(e.Missing, ", ")))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, fmt.Sprintf("unexpected columns [%s]", strings.Join(e.Unexpected, ", ")))
	}
	if len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("want %d columns, got %d", e.WantWidth, e.GotWidth))
	}
	return "schema mismatch: " + strings.Join(parts, "; ")
}

// EmptyInputError is returned when an operation receives zero rows.
type EmptyInputError struct {
	Component string
	Op        string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: %s called on empty input", e.Component, e.Op)
}

// ArtifactLoadError is returned when a persisted artifact cannot be
// restored, either because the file is unreadable or because its contents
// are corrupt or from an incompatible format version.
type ArtifactLoadError struct {
	Path string
	Err  error
}

func (e *ArtifactLoadError) Error() string {
	return fmt.Sprintf("failed to load artifact %s: %v", e.Path, e.Err)
}

func (e *ArtifactLoadError) Unwrap() error { return e.Err }

// ShapeError is returned when a model's raw output cannot be reduced to
// exactly one value per input row.
type ShapeError struct {
	WantRows int
	GotRows  int
	GotCols  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("prediction shape mismatch: want %d rows, got %dx%d", e.WantRows, e.GotRows, e.GotCols)
}
