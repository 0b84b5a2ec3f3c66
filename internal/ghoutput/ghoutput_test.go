package ghoutput

import (
	"os"
	"path/filepath"
	"testing"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(raw)
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	t.Setenv(outputEnv, path)

	if !Enabled() {
		t.Fatal("expected Enabled with GITHUB_OUTPUT set")
	}
	err := Write(map[string]string{
		"score":  "87.5%",
		"report": "out/report.md",
		"":       "skipped",
		"note":   "line1\nline2",
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	want := "note=line1%0Aline2\nreport=out/report.md\nscore=87.5%\n"
	if got := readFile(t, path); got != want {
		t.Fatalf("output file = %q, want %q", got, want)
	}
}

func TestAppendSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.md")
	t.Setenv(summaryEnv, path)

	if err := AppendSummary("# One\n"); err != nil {
		t.Fatal(err)
	}
	if err := AppendSummary("   "); err != nil {
		t.Fatal(err)
	}
	if err := AppendSummary("# Two"); err != nil {
		t.Fatal(err)
	}

	if got, want := readFile(t, path), "# One\n\n# Two\n\n"; got != want {
		t.Fatalf("summary = %q, want %q", got, want)
	}
}

func TestNoopWithoutActions(t *testing.T) {
	t.Setenv(outputEnv, "")
	t.Setenv(summaryEnv, "")

	if Enabled() {
		t.Fatal("expected Enabled to be false")
	}
	if err := Write(map[string]string{"a": "b"}); err != nil {
		t.Fatal(err)
	}
	if err := AppendSummary("# Report"); err != nil {
		t.Fatal(err)
	}
}
