package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"
)

// Engine names accepted by EngineByName.
const (
	EngineGo    = "go"
	EngineJinja = "jinja"
)

// Engine compiles report templates written in one template language.
type Engine interface {
	// Name returns the canonical engine name.
	Name() string
	// Compile parses template source. baseDir, when set, anchors includes.
	Compile(name, source, baseDir string) (Template, error)
	// builtin returns the embedded default template file name.
	builtin() string
}

// Template is a compiled report template. Execute is safe for concurrent use.
type Template interface {
	Execute(w io.Writer, view View) error
}

var engineAliases = map[string]string{
	"":           EngineGo,
	"go":         EngineGo,
	"gotemplate": EngineGo,
	"text":       EngineGo,
	"jinja":      EngineJinja,
	"jinja2":     EngineJinja,
	"pongo2":     EngineJinja,
}

// EngineNames lists the canonical engine names.
func EngineNames() []string {
	return []string{EngineGo, EngineJinja}
}

// EngineByName resolves an engine by name or alias.
func EngineByName(name string) (Engine, error) {
	switch engineAliases[strings.ToLower(strings.TrimSpace(name))] {
	case EngineGo:
		return goEngine{}, nil
	case EngineJinja:
		return newJinjaEngine(), nil
	}
	aliases := make([]string, 0, len(engineAliases))
	for alias := range engineAliases {
		if alias != "" {
			aliases = append(aliases, alias)
		}
	}
	sort.Strings(aliases)
	return nil, fmt.Errorf("unknown template engine %q (known: %s)", name, strings.Join(aliases, ", "))
}

// goEngine renders text/template sources against View.
type goEngine struct{}

func (goEngine) Name() string    { return EngineGo }
func (goEngine) builtin() string { return "report.md.tmpl" }

func (goEngine) Compile(name, source, _ string) (Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Funcs(buildFuncMap()).Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse template %q: %w", name, err)
	}
	return goTemplate{tmpl: tmpl}, nil
}

type goTemplate struct {
	tmpl *template.Template
}

func (t goTemplate) Execute(w io.Writer, view View) error {
	if err := t.tmpl.Execute(w, view); err != nil {
		return fmt.Errorf("execute template %q: %w", t.tmpl.Name(), err)
	}
	return nil
}

// buildFuncMap constructs the helpers available to Go report templates.
func buildFuncMap() template.FuncMap {
	return template.FuncMap{
		"percentage":  funcPercentage,
		"percentagef": funcPercentageDigits,
		"trim":        Trim,
		"length":      Length,
		"default":     funcDef,
		"toLower":     strings.ToLower,
		"toUpper":     strings.ToUpper,
		"slug":        funcSlug,
		"ternary":     funcTernary,
		"join":        funcJoin,
	}
}

// funcPercentage formats a fraction with no decimal places.
func funcPercentage(value any) (string, error) {
	return FormatPercentage(value, 0)
}

// funcPercentageDigits takes digits first so it reads as {{ .X | percentagef 1 }}.
func funcPercentageDigits(digits int, value any) (string, error) {
	return FormatPercentage(value, digits)
}

// funcDef returns def when value is empty or whitespace, otherwise value.
func funcDef(def, value string) string {
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

// funcTernary returns a when cond is true, otherwise b.
func funcTernary(cond bool, a, b any) any {
	if cond {
		return a
	}
	return b
}

// funcJoin joins a slice of strings with the given separator.
func funcJoin(sep string, values []string) string {
	return strings.Join(values, sep)
}
