package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/curricula/gradereport/internal/batch"
	"github.com/curricula/gradereport/internal/grading"
	"github.com/curricula/gradereport/internal/report"
)

func TestValidateAcceptsConsistentSummary(t *testing.T) {
	isolateEnv(t)

	out, _, err := runCLI(t, "validate", "--schema", testSchema, "--summary", testSummary)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out != "ok\n" {
		t.Fatalf("expected ok, got %q", out)
	}
}

func TestValidateListsViolations(t *testing.T) {
	isolateEnv(t)
	summary := writeBadCountSummary(t)

	out, _, err := runCLI(t, "validate", "--schema", testSchema, "--summary", summary)
	if !errors.Is(err, grading.ErrTestCount) {
		t.Fatalf("expected ErrTestCount, got %v", err)
	}
	if !strings.HasPrefix(out, "- ") || !strings.Contains(out, `problem "sort" has 3 passing of 2 total`) {
		t.Fatalf("unexpected violation listing:\n%s", out)
	}
}

func TestTemplatePrintsBuiltin(t *testing.T) {
	isolateEnv(t)

	for _, engine := range report.EngineNames() {
		t.Run(engine, func(t *testing.T) {
			want, err := report.BuiltinTemplate(engine)
			if err != nil {
				t.Fatalf("builtin: %v", err)
			}
			got, _, err := runCLI(t, "template", "--engine", engine)
			if err != nil {
				t.Fatalf("template: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("template mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTemplateUnknownEngine(t *testing.T) {
	isolateEnv(t)
	if _, _, err := runCLI(t, "template", "--engine", "mustache"); err == nil {
		t.Fatalf("expected error for unknown engine")
	}
}

func TestBatchWritesReportsAndIndex(t *testing.T) {
	isolateEnv(t)
	reports := t.TempDir()
	out := filepath.Join(t.TempDir(), "md")

	src, err := os.ReadFile(testSummary)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	for _, name := range []string{"bob.json", "alice.json"} {
		if err := os.WriteFile(filepath.Join(reports, name), src, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if _, _, err := runCLI(t, "batch", "--schema", testSchema, "--reports", reports, "--output", out, "--jobs", "2"); err != nil {
		t.Fatalf("batch: %v", err)
	}

	for _, name := range []string{"alice.md", "bob.md"} {
		data, err := os.ReadFile(filepath.Join(out, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !strings.HasPrefix(string(data), "# Homework 3\n") {
			t.Fatalf("%s: unexpected report:\n%s", name, data)
		}
	}

	index, err := os.ReadFile(filepath.Join(out, batch.IndexFile))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	want := "# Homework 3\n\n" +
		"| Submission | Score |\n" +
		"| --- | --- |\n" +
		"| [alice](alice.md) | 57.5% |\n" +
		"| [bob](bob.md) | 57.5% |\n"
	if diff := cmp.Diff(want, string(index)); diff != "" {
		t.Fatalf("index mismatch (-want +got):\n%s", diff)
	}
}

func TestBatchRequiresDirectories(t *testing.T) {
	isolateEnv(t)
	if _, _, err := runCLI(t, "batch", "--schema", testSchema, "--output", t.TempDir()); err == nil {
		t.Fatalf("expected error without --reports")
	}
}
