package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/curricula/gradereport/internal/env"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadRendersTemplateAndMergesVars(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "course.env"), "COURSE=CS101\nTERM=spring\n")
	writeFile(t, filepath.Join(dir, DefaultPath), `
envFiles: [course.env]
engine: '{{ envOr "REPORT_ENGINE" "jinja" }}'
template: templates/{{ envOr "COURSE" "none" | toLower }}.md.j2
schema: grading.json
output: out/{{ default "" "report" }}.md
jobs: 4
vars:
  TERM: fall
  SECTION: '{{ envOr "SECTION" "A" }}'
`)
	t.Setenv(env.VarPrefix+"ROOM", "B12")
	t.Setenv("REPORT_ENGINE", "")

	cfg, err := Load(filepath.Join(dir, DefaultPath), LoadOptions{UserVars: env.Vars{"SECTION": "C"}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Engine != "jinja" || cfg.Jobs != 4 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if got, want := cfg.ResolvePath(cfg.Template), filepath.Join(dir, "templates", "cs101.md.j2"); got != want {
		t.Fatalf("template = %q, want %q", got, want)
	}
	if got, want := cfg.ResolvePath(cfg.Output), filepath.Join(dir, "out", "report.md"); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}

	want := env.Vars{"COURSE": "CS101", "TERM": "fall", "SECTION": "C", "ROOM": "B12"}
	if diff := cmp.Diff(want, cfg.TemplateVars); diff != "" {
		t.Fatalf("template vars mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)

	if _, err := Load(path, LoadOptions{}); err == nil {
		t.Fatal("expected error for missing config")
	}

	cfg, err := Load(path, LoadOptions{AllowMissing: true, UserVars: env.Vars{"A": "1"}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Path != "" || cfg.TemplateVars["A"] != "1" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"template.yaml": "engine: '{{ .Missing.Field }}'\n",
		"yaml.yaml":     "engine: [unclosed\n",
		"jobs.yaml":     "jobs: -1\n",
		"envfile.yaml":  "envFiles: [nope.env]\n",
	}
	for name, content := range cases {
		path := filepath.Join(dir, name)
		writeFile(t, path, content)
		if _, err := Load(path, LoadOptions{}); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestResolvePath(t *testing.T) {
	cfg := &Config{BaseDir: "/srv/course"}
	cases := map[string]string{
		"":             "",
		"a/b.md":       filepath.Join("/srv/course", "a", "b.md"),
		"/abs/path.md": "/abs/path.md",
	}
	for in, want := range cases {
		if got := cfg.ResolvePath(in); got != want {
			t.Errorf("ResolvePath(%q) = %q, want %q", in, got, want)
		}
	}
}
