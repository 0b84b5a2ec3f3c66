// Package batch renders a directory of grading summaries against one schema,
// writing one Markdown report per submission plus an index of scores.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/curricula/gradereport/internal/env"
	"github.com/curricula/gradereport/internal/grading"
	"github.com/curricula/gradereport/internal/report"
)

// IndexFile is the name of the score index written next to the reports.
const IndexFile = "index.md"

// Options configures a batch run.
type Options struct {
	// Schema is the assignment schema shared by every submission.
	Schema grading.Schema
	// ReportsDir holds one summary document per submission.
	ReportsDir string
	// OutputDir receives <name>.md per submission and the index.
	OutputDir string
	// Renderer renders each report.
	Renderer *report.Renderer
	// Vars are template variables passed to every report.
	Vars env.Vars
	// Jobs caps concurrent renders; zero means GOMAXPROCS.
	Jobs int
	// Strict fails the run when a summary breaks a grading invariant.
	Strict bool
	// Logger receives progress records; nil discards them.
	Logger *slog.Logger
}

// Entry is the outcome for one submission.
type Entry struct {
	// Name is the summary file name without extension.
	Name string
	// Source is the summary path.
	Source string
	// Output is the written report path.
	Output string
	// Score is the weighted assignment score as a fraction.
	Score float64
}

// Result lists every rendered submission in name order.
type Result struct {
	Entries []Entry
	Index   string
}

// Run renders every summary in ReportsDir. The first failure cancels
// outstanding work and is returned.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Renderer == nil {
		return nil, fmt.Errorf("batch: renderer is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sources, err := collectSummaries(opts.ReportsDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %q: %w", opts.OutputDir, err)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	entries := make([]Entry, len(sources))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)

	for i, source := range sources {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			entry, err := renderOne(opts, logger, source)
			if err != nil {
				return err
			}
			logger.Debug("rendered report", "source", source, "output", entry.Output)
			entries[i] = entry
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	index := buildIndex(opts.Schema.Title, entries)
	indexPath := filepath.Join(opts.OutputDir, IndexFile)
	if err := os.WriteFile(indexPath, []byte(index), 0o644); err != nil {
		return nil, fmt.Errorf("write index %q: %w", indexPath, err)
	}
	logger.Info("batch complete", "reports", len(entries), "index", indexPath)

	return &Result{Entries: entries, Index: indexPath}, nil
}

func renderOne(opts Options, logger *slog.Logger, source string) (Entry, error) {
	summary, err := grading.LoadSummary(source)
	if err != nil {
		return Entry{}, err
	}
	if err := grading.Validate(opts.Schema, summary); err != nil {
		if opts.Strict {
			return Entry{}, fmt.Errorf("validate %q: %w", source, err)
		}
		logger.Warn("summary breaks grading invariants", "summary", source, "error", err)
	}

	out, err := opts.Renderer.RenderSummary(opts.Schema, summary, opts.Vars)
	if err != nil {
		return Entry{}, fmt.Errorf("render %q: %w", source, err)
	}

	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	target := filepath.Join(opts.OutputDir, name+".md")
	if err := os.WriteFile(target, []byte(out), 0o644); err != nil {
		return Entry{}, fmt.Errorf("write report %q: %w", target, err)
	}

	return Entry{
		Name:   name,
		Source: source,
		Output: target,
		Score:  grading.Score(opts.Schema, summary),
	}, nil
}

// collectSummaries lists summary documents in dir, sorted by file name.
func collectSummaries(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read reports directory %q: %w", dir, err)
	}

	var out []string
	seen := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := grading.FormatFromPath(e.Name()); err != nil {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if prev, dup := seen[name]; dup {
			return nil, fmt.Errorf("summaries %q and %q would write the same report", prev, e.Name())
		}
		seen[name] = e.Name()
		out = append(out, filepath.Join(dir, e.Name()))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no summary documents (.json, .yaml, .yml) in %q", dir)
	}
	sort.Strings(out)
	return out, nil
}

func buildIndex(title string, entries []Entry) string {
	var b strings.Builder
	if strings.TrimSpace(title) == "" {
		title = "Reports"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	b.WriteString("| Submission | Score |\n")
	b.WriteString("| --- | --- |\n")
	for _, e := range entries {
		score, err := report.FormatPercentage(e.Score, 1)
		if err != nil {
			score = "n/a"
		}
		fmt.Fprintf(&b, "| [%s](%s.md) | %s |\n", e.Name, e.Name, score)
	}
	return b.String()
}
