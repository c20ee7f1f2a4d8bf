package validation

import (
	"fmt"
	"strings"
)

// Failure describes one failed check.
type Failure struct {
	Check  string
	Column string
	Detail string
}

// Result summarizes a validation run.
type Result struct {
	Evaluated int
	Failures  []Failure
}

func newResult() Result {
	return Result{}
}

// evaluate records the outcome of one check.
func (r *Result) evaluate(check, column string, passed bool, detail string) {
	r.Evaluated++
	if !passed {
		r.Failures = append(r.Failures, Failure{Check: check, Column: column, Detail: detail})
	}
}

// Passed reports whether every check succeeded.
func (r Result) Passed() bool { return len(r.Failures) == 0 }

// Summary renders a human-readable account of the run.
func (r Result) Summary() string {
	if r.Passed() {
		return fmt.Sprintf("validation passed (%d checks)", r.Evaluated)
	}
	lines := []string{
		fmt.Sprintf("validation failed (%d of %d checks):", len(r.Failures), r.Evaluated),
	}
	for i, f := range r.Failures {
		lines = append(lines, fmt.Sprintf("  %d. %s on %s: %s", i+1, f.Check, f.Column, f.Detail))
	}
	return strings.Join(lines, "\n")
}

// Err returns nil when the run passed and a DataQualityError otherwise.
func (r Result) Err() error {
	if r.Passed() {
		return nil
	}
	return &DataQualityError{Result: r}
}

// DataQualityError reports that a batch fits the pipeline structurally but
// violates domain expectations. It carries the structured result so callers
// can report which checks failed.
type DataQualityError struct {
	Result Result
}

func (e *DataQualityError) Error() string {
	return "data quality check failed: " + e.Result.Summary()
}
