// Package report renders grading reports: it joins a schema with a summary
// into a View and executes a Markdown template against it. Two template
// languages are supported, Go text/template and Jinja-style pongo2; each has
// an embedded default template producing the same document.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/curricula/gradereport/internal/env"
	"github.com/curricula/gradereport/internal/grading"
)

const builtinTemplateDir = "templates"

//go:embed templates/*
var builtinTemplates embed.FS

// BuiltinTemplate returns the embedded default template source for an engine.
func BuiltinTemplate(engineName string) (string, error) {
	engine, err := EngineByName(engineName)
	if err != nil {
		return "", err
	}
	raw, err := builtinTemplates.ReadFile(builtinTemplateDir + "/" + engine.builtin())
	if err != nil {
		return "", fmt.Errorf("load builtin template for engine %q: %w", engine.Name(), err)
	}
	return string(raw), nil
}

// Option configures a Renderer.
type Option func(*options)

type options struct {
	engine       string
	templatePath string
	templateName string
	templateSrc  string
}

// WithEngine selects the template engine by name ("go" or "jinja").
func WithEngine(name string) Option {
	return func(o *options) {
		o.engine = name
	}
}

// WithTemplateFile loads the template from disk instead of the builtin one.
func WithTemplateFile(path string) Option {
	return func(o *options) {
		o.templatePath = strings.TrimSpace(path)
	}
}

// WithTemplateString uses inline template source instead of the builtin one.
func WithTemplateString(name, source string) Option {
	return func(o *options) {
		o.templateName = name
		o.templateSrc = source
	}
}

// Renderer executes one compiled report template. It holds no per-render
// state, so a single Renderer may render many views concurrently.
type Renderer struct {
	engine Engine
	name   string
	tmpl   Template
}

// NewRenderer compiles the configured template. Without a template option
// the engine's builtin template is used.
func NewRenderer(opts ...Option) (*Renderer, error) {
	cfg := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	engine, err := EngineByName(cfg.engine)
	if err != nil {
		return nil, err
	}

	var (
		name    string
		source  string
		baseDir string
	)
	switch {
	case cfg.templatePath != "":
		raw, err := os.ReadFile(cfg.templatePath)
		if err != nil {
			return nil, fmt.Errorf("read report template %q: %w", cfg.templatePath, err)
		}
		name = filepath.Base(cfg.templatePath)
		source = string(raw)
		baseDir = filepath.Dir(cfg.templatePath)
	case cfg.templateSrc != "":
		name = cfg.templateName
		if name == "" {
			name = "inline"
		}
		source = cfg.templateSrc
	default:
		name = engine.builtin()
		source, err = BuiltinTemplate(engine.Name())
		if err != nil {
			return nil, err
		}
	}

	tmpl, err := engine.Compile(name, source, baseDir)
	if err != nil {
		return nil, err
	}
	return &Renderer{engine: engine, name: name, tmpl: tmpl}, nil
}

// EngineName returns the engine the renderer was compiled with.
func (r *Renderer) EngineName() string {
	return r.engine.Name()
}

// TemplateName returns the template file name (or "inline").
func (r *Renderer) TemplateName() string {
	return r.name
}

// Render executes the template against view and returns the Markdown
// document. The document always ends with exactly one newline.
func (r *Renderer) Render(view View) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n") + "\n", nil
}

// RenderSummary builds the view for schema and summary and renders it.
func (r *Renderer) RenderSummary(schema grading.Schema, summary grading.Summary, vars env.Vars) (string, error) {
	view, err := NewView(schema, summary, vars, time.Now().UTC())
	if err != nil {
		return "", err
	}
	return r.Render(view)
}
