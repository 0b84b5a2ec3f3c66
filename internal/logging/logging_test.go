package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"info":    LevelInfo,
		"":        LevelInfo,
		"bogus":   LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	cases := []struct {
		count int
		want  Level
	}{
		{-1, LevelWarn},
		{0, LevelWarn},
		{1, LevelInfo},
		{2, LevelDebug},
		{5, LevelDebug},
	}
	for _, tc := range cases {
		if got := LevelFromVerbosity(tc.count); got != tc.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tc.count, got, tc.want)
		}
	}
}

func TestNewTeeLoggerWritesBoth(t *testing.T) {
	var console, file bytes.Buffer
	logger := NewTeeLogger(&console, &file, LevelInfo)

	logger.Debug("hidden")
	logger.Info("rendered report", "path", "out.md")

	for name, buf := range map[string]*bytes.Buffer{"console": &console, "file": &file} {
		out := buf.String()
		if !strings.Contains(out, "rendered report") {
			t.Errorf("%s output missing message: %q", name, out)
		}
		if strings.Contains(out, "hidden") {
			t.Errorf("%s output contains debug record: %q", name, out)
		}
	}
	if strings.Contains(file.String(), "\x1b[") {
		t.Errorf("file output contains color escapes: %q", file.String())
	}
}
