package report

import (
	"fmt"
	"time"

	"github.com/curricula/gradereport/internal/env"
	"github.com/curricula/gradereport/internal/grading"
)

// View is the context a report template is executed against. It is built
// once per render and never mutated by templates.
type View struct {
	// Schema is the assignment schema as loaded.
	Schema grading.Schema
	// Summary is the submission summary as loaded.
	Summary grading.Summary
	// Problems joins each schema problem with its result, in schema order.
	Problems []ProblemView
	// Vars contains user variables from config, env files and --vars.
	Vars env.Vars
	// GeneratedAt is the timestamp captured when the view was built.
	GeneratedAt time.Time
}

// ProblemView is a schema problem paired with the summary result for it.
type ProblemView struct {
	grading.Problem
	Result grading.ProblemResult
}

// NewView joins schema and summary. Ordering follows the schema; results are
// looked up by short name, and a schema problem without a result is an error.
func NewView(schema grading.Schema, summary grading.Summary, vars env.Vars, now time.Time) (View, error) {
	problems := make([]ProblemView, 0, len(schema.Problems))
	for _, p := range schema.Problems {
		result, ok := summary.Result(p.Short)
		if !ok {
			return View{}, fmt.Errorf("build report view: %w: problem %q", grading.ErrMissingResult, p.Short)
		}
		problems = append(problems, ProblemView{Problem: p, Result: result})
	}
	if vars == nil {
		vars = env.Vars{}
	}
	return View{
		Schema:      schema,
		Summary:     summary,
		Problems:    problems,
		Vars:        vars,
		GeneratedAt: now,
	}, nil
}

// contextMap exposes the view with the snake_case keys the grader emits,
// for engines that address data by map key.
func (v View) contextMap() map[string]any {
	problems := make([]any, 0, len(v.Problems))
	descriptors := make([]any, 0, len(v.Problems))
	for _, p := range v.Problems {
		descriptor := problemMap(p.Problem)
		descriptors = append(descriptors, descriptor)

		joined := problemMap(p.Problem)
		joined["result"] = resultMap(p.Result)
		problems = append(problems, joined)
	}

	results := make(map[string]any, len(v.Summary.Problems))
	for short, r := range v.Summary.Problems {
		results[short] = resultMap(r)
	}

	vars := make(map[string]any, len(v.Vars))
	for k, val := range v.Vars {
		vars[k] = val
	}

	return map[string]any{
		"schema": map[string]any{
			"title":    v.Schema.Title,
			"problems": descriptors,
		},
		"summary": map[string]any{
			"problems": results,
		},
		"problems":     problems,
		"vars":         vars,
		"generated_at": v.GeneratedAt,
	}
}

func problemMap(p grading.Problem) map[string]any {
	return map[string]any{
		"short":      p.Short,
		"title":      p.Title,
		"percentage": p.Percentage,
	}
}

func resultMap(r grading.ProblemResult) map[string]any {
	return map[string]any{
		"setup_failed":     r.SetupFailed,
		"setup_error":      r.SetupError,
		"tests_correct":    recordList(r.TestsCorrect),
		"tests_total":      r.TestsTotal,
		"tests_percentage": r.TestsPercentage,
		"tests_incorrect":  recordList(r.TestsIncorrect),
	}
}

func recordList(records []grading.TestRecord) []any {
	out := make([]any, 0, len(records))
	for _, r := range records {
		out = append(out, r.Fields())
	}
	return out
}
