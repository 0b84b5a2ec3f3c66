package preview

import (
	"strings"
	"testing"
)

func TestRenderPlain(t *testing.T) {
	md := "# Homework 3\n\n## Sorting (50%)\n\nTests score: 3/4 (75%)\n\n- -1 for edge_case_empty_list\n"

	out, err := Render(md, 80, StyleNoTTY)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Homework 3", "Sorting (50%)", "Tests score: 3/4 (75%)", "edge_case_empty_list"} {
		if !strings.Contains(out, want) {
			t.Errorf("preview missing %q:\n%s", want, out)
		}
	}
}

func TestRenderUnknownStyle(t *testing.T) {
	if _, err := Render("# x", 0, "neon"); err == nil {
		t.Fatal("expected error for unknown style")
	}
}
