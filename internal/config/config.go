// Package config contains the loader and typed model for gradereport.yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/curricula/gradereport/internal/env"
)

// DefaultPath is the config file looked up when no path is given explicitly.
const DefaultPath = "gradereport.yaml"

// Config is the project-level report configuration. Every field is optional;
// command-line flags and GRADEREPORT_* variables take precedence.
type Config struct {
	// Engine selects the template engine ("go" or "jinja").
	Engine string `yaml:"engine,omitempty"`
	// Template is a report template path relative to the config file.
	Template string `yaml:"template,omitempty"`
	// Schema is the default schema path relative to the config file.
	Schema string `yaml:"schema,omitempty"`
	// Output is the default report output path relative to the config file.
	Output string `yaml:"output,omitempty"`
	// EnvFiles lists .env files to load before rendering this file.
	EnvFiles []string `yaml:"envFiles,omitempty"`
	// Vars are user variables exposed to report templates.
	Vars map[string]string `yaml:"vars,omitempty"`
	// Strict turns validation warnings into errors.
	Strict bool `yaml:"strict,omitempty"`
	// Pretty renders terminal output through the Markdown previewer.
	Pretty bool `yaml:"pretty,omitempty"`
	// Jobs caps concurrent renders in batch mode.
	Jobs int `yaml:"jobs,omitempty"`
	// GitHub publishes outputs and the step summary when running in Actions.
	GitHub bool `yaml:"github,omitempty"`

	// BaseDir is the directory relative paths resolve against.
	BaseDir string `yaml:"-"`
	// Path is the file the config was loaded from; empty for defaults.
	Path string `yaml:"-"`
	// TemplateVars merges env files, Vars, GRADEREPORT_VAR_* and inline vars.
	TemplateVars env.Vars `yaml:"-"`
}

// LoadOptions describes parameters that influence loading of gradereport.yaml.
type LoadOptions struct {
	// UserVars are inline variables that override every other source.
	UserVars env.Vars
	// AllowMissing returns defaults instead of an error when the file does not exist.
	AllowMissing bool
}

// TemplateContext is the data gradereport.yaml is rendered against before parsing.
type TemplateContext struct {
	// ConfigDir is the directory containing the config file.
	ConfigDir string
	// Now is the timestamp captured for template rendering.
	Now time.Time
	// EnvMap merges OS env, envFiles, and user variables.
	EnvMap env.Vars
}

// rawHeader extracts fields needed before templating.
type rawHeader struct {
	EnvFiles []string `yaml:"envFiles"`
}

// Load reads gradereport.yaml, renders it as a template with env helpers and
// parses the result. Template variables are merged in increasing precedence:
// envFiles, vars, GRADEREPORT_VAR_* process variables, then opts.UserVars.
func Load(path string, opts LoadOptions) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return defaults(opts)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	rawBytes, err := os.ReadFile(absPath)
	if err != nil {
		if opts.AllowMissing && errors.Is(err, fs.ErrNotExist) {
			return defaults(opts)
		}
		return nil, fmt.Errorf("read config %q: %w", absPath, err)
	}

	var header rawHeader
	if err := yaml.Unmarshal(rawBytes, &header); err != nil {
		return nil, fmt.Errorf("parse top-level config fields: %w", err)
	}

	baseDir := filepath.Dir(absPath)
	envFileVars, err := env.LoadEnvFiles(baseDir, header.EnvFiles)
	if err != nil {
		return nil, err
	}

	ctx := TemplateContext{
		ConfigDir: baseDir,
		Now:       time.Now().UTC(),
		EnvMap:    env.Merge(env.FromOS(), envFileVars, opts.UserVars),
	}

	rendered, err := RenderTemplate(filepath.Base(absPath), rawBytes, ctx)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(rendered, &cfg); err != nil {
		return nil, fmt.Errorf("parse rendered %s: %w", filepath.Base(absPath), err)
	}
	if cfg.Jobs < 0 {
		return nil, fmt.Errorf("config %q: jobs must not be negative", absPath)
	}

	cfg.BaseDir = baseDir
	cfg.Path = absPath
	cfg.TemplateVars = env.Merge(envFileVars, cfg.Vars, env.FromOSPrefixed(), opts.UserVars)
	return &cfg, nil
}

func defaults(opts LoadOptions) (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	return &Config{
		BaseDir:      wd,
		TemplateVars: env.Merge(env.FromOSPrefixed(), opts.UserVars),
	}, nil
}

// ResolvePath resolves a config-relative path. Empty stays empty.
func (c *Config) ResolvePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) || c == nil || c.BaseDir == "" {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}

// RenderTemplate renders arbitrary text content using the config template context and helpers.
func RenderTemplate(name string, raw []byte, ctx TemplateContext) ([]byte, error) {
	tmpl, err := template.New(name).Funcs(buildFuncMap(ctx)).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse template %q: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return nil, fmt.Errorf("execute template %q: %w", name, err)
	}
	return buf.Bytes(), nil
}

// buildFuncMap constructs the helpers available inside gradereport.yaml.
func buildFuncMap(ctx TemplateContext) template.FuncMap {
	return template.FuncMap{
		"default":    funcDef,
		"toLower":    strings.ToLower,
		"slug":       funcSlug,
		"envOr":      funcEnvOr(ctx.EnvMap),
		"ternary":    funcTernary,
		"now":        func() time.Time { return ctx.Now },
		"trimPrefix": funcTrimPrefix,
	}
}

// funcDef returns def when value is empty or whitespace, otherwise value.
func funcDef(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

// funcSlug normalizes a value into a lower-case dash-separated slug.
func funcSlug(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.ReplaceAll(v, " ", "-")
	v = strings.ReplaceAll(v, "_", "-")
	return v
}

// funcEnvOr returns a function that looks up a key in envMap and falls back to def.
func funcEnvOr(envMap env.Vars) func(key, def string) string {
	return func(key, def string) string {
		if v, ok := envMap[key]; ok && v != "" {
			return v
		}
		return def
	}
}

// funcTernary returns a when cond is true, otherwise b.
func funcTernary(cond bool, a, b any) any {
	if cond {
		return a
	}
	return b
}

// funcTrimPrefix removes the prefix from value when present.
func funcTrimPrefix(value, prefix string) string {
	return strings.TrimPrefix(value, prefix)
}
