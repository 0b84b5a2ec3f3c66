// Package preview renders Markdown reports for display in a terminal.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// DefaultWidth is the word-wrap width used when none is given.
const DefaultWidth = 100

// Style names accepted by Render. StyleAuto picks dark or light from the terminal.
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
	StyleASCII = "ascii"
)

// Render converts Markdown into styled terminal text.
func Render(markdown string, width int, style string) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	switch s := strings.ToLower(strings.TrimSpace(style)); s {
	case "", StyleAuto:
		opts = append(opts, glamour.WithAutoStyle())
	case StyleDark, StyleLight, StyleNoTTY, StyleASCII:
		opts = append(opts, glamour.WithStandardStyle(s))
	default:
		return "", fmt.Errorf("unknown preview style %q", style)
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown preview: %w", err)
	}
	return out, nil
}
