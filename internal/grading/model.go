// Package grading holds the grading data a report is rendered from: the
// assignment schema (problems and weights) and the per-submission summary
// (test results per problem), together with loaders, validation and scoring.
package grading

// Schema is the static description of an assignment's problems and weights.
type Schema struct {
	// Title is the assignment title used as the report heading.
	Title string `json:"title" yaml:"title"`
	// Problems lists problem descriptors in report order.
	Problems ProblemSet `json:"problems" yaml:"problems"`
}

// Problem describes a single problem of an assignment.
type Problem struct {
	// Short is the problem short name used to look up its result.
	Short string `json:"short,omitempty" yaml:"short,omitempty"`
	// Title is the human-readable problem title.
	Title string `json:"title" yaml:"title"`
	// Percentage is the problem weight as a fraction of the assignment.
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// ProblemSet is an ordered collection of problems. It decodes from a JSON
// object or YAML mapping keyed by short name, keeping the key order of the
// source document, or from a list of problems that carry their short name.
type ProblemSet []Problem

// Shorts returns the problem short names in order.
func (s ProblemSet) Shorts() []string {
	out := make([]string, 0, len(s))
	for _, p := range s {
		out = append(out, p.Short)
	}
	return out
}

// Summary holds the computed grading results of one submission.
type Summary struct {
	// Problems maps problem short name to its result.
	Problems map[string]ProblemResult `json:"problems" yaml:"problems"`
}

// Result returns the result recorded for a problem.
func (s Summary) Result(short string) (ProblemResult, bool) {
	r, ok := s.Problems[short]
	return r, ok
}

// ProblemResult is the outcome of running one problem's tests.
type ProblemResult struct {
	// SetupFailed reports that the test harness could not run at all.
	SetupFailed bool `json:"setup_failed" yaml:"setup_failed"`
	// SetupError is the harness error output when SetupFailed is set.
	SetupError string `json:"setup_error,omitempty" yaml:"setup_error,omitempty"`
	// TestsCorrect lists passing tests.
	TestsCorrect []TestRecord `json:"tests_correct" yaml:"tests_correct"`
	// TestsTotal is the number of tests that were expected to run.
	TestsTotal int `json:"tests_total" yaml:"tests_total"`
	// TestsPercentage is the passing fraction reported by the grader.
	TestsPercentage float64 `json:"tests_percentage" yaml:"tests_percentage"`
	// TestsIncorrect lists failing tests in grader order.
	TestsIncorrect []TestRecord `json:"tests_incorrect" yaml:"tests_incorrect"`
}

// TestRecord is a single test outcome. Name is always present; any other
// fields emitted by the grader are kept in Details.
type TestRecord struct {
	Name    string
	Details map[string]any
}

// Fields returns the record as a flat map including name.
func (r TestRecord) Fields() map[string]any {
	out := make(map[string]any, len(r.Details)+1)
	for k, v := range r.Details {
		out[k] = v
	}
	out["name"] = r.Name
	return out
}
