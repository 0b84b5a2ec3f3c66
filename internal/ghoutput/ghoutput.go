// Package ghoutput publishes report results to GitHub Actions: step outputs
// through $GITHUB_OUTPUT and the rendered report through $GITHUB_STEP_SUMMARY.
// Outside Actions both files are unset and every call is a no-op.
package ghoutput

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

const (
	outputEnv  = "GITHUB_OUTPUT"
	summaryEnv = "GITHUB_STEP_SUMMARY"
)

// Enabled reports whether the GitHub Actions output file is available.
func Enabled() bool {
	return strings.TrimSpace(os.Getenv(outputEnv)) != ""
}

// Write appends GitHub Actions outputs to the GITHUB_OUTPUT file when available.
func Write(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		if strings.TrimSpace(k) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s=%s\n", key, sanitize(values[key]))
	}
	return appendTo(outputEnv, b.String())
}

// AppendSummary appends Markdown to the job summary when available.
// Consecutive summaries are separated by a blank line.
func AppendSummary(markdown string) error {
	if strings.TrimSpace(markdown) == "" {
		return nil
	}
	return appendTo(summaryEnv, strings.TrimRight(markdown, "\n")+"\n\n")
}

func appendTo(envName, content string) error {
	path := strings.TrimSpace(os.Getenv(envName))
	if path == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open %s: %w", envName, err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", envName, err)
	}
	return f.Close()
}

func sanitize(value string) string {
	if value == "" {
		return ""
	}
	value = strings.ReplaceAll(value, "\r", "%0D")
	value = strings.ReplaceAll(value, "\n", "%0A")
	return value
}
