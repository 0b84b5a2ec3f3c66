package grading

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingResult means a schema problem has no entry in the summary.
	ErrMissingResult = errors.New("missing problem result")
	// ErrTestCount means a result reports fewer total tests than passing ones.
	ErrTestCount = errors.New("inconsistent test counts")
	// ErrWeightRange means a problem weight lies outside [0, 1].
	ErrWeightRange = errors.New("problem weight out of range")
	// ErrSchema covers structural schema problems such as duplicate names.
	ErrSchema = errors.New("invalid schema")
)

// Validate checks the invariants the grading pipeline is expected to hold
// and returns every violation joined into one error, or nil.
func Validate(schema Schema, summary Summary) error {
	var errs []error

	if strings.TrimSpace(schema.Title) == "" {
		errs = append(errs, fmt.Errorf("%w: title is empty", ErrSchema))
	}

	seen := make(map[string]struct{}, len(schema.Problems))
	for _, p := range schema.Problems {
		if _, dup := seen[p.Short]; dup {
			errs = append(errs, fmt.Errorf("%w: problem %q listed twice", ErrSchema, p.Short))
			continue
		}
		seen[p.Short] = struct{}{}

		if strings.TrimSpace(p.Title) == "" {
			errs = append(errs, fmt.Errorf("%w: problem %q has no title", ErrSchema, p.Short))
		}
		if p.Percentage < 0 || p.Percentage > 1 {
			errs = append(errs, fmt.Errorf("%w: problem %q weight %v", ErrWeightRange, p.Short, p.Percentage))
		}

		result, ok := summary.Result(p.Short)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: problem %q", ErrMissingResult, p.Short))
			continue
		}
		if result.TestsTotal < len(result.TestsCorrect) {
			errs = append(errs, fmt.Errorf("%w: problem %q has %d passing of %d total",
				ErrTestCount, p.Short, len(result.TestsCorrect), result.TestsTotal))
		}
	}

	return errors.Join(errs...)
}
