package report

import (
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// Markdown is not HTML; escaping would mangle tracebacks and test names.
const (
	autoescapeOff = "{% autoescape off %}"
	autoescapeEnd = "{% endautoescape %}"
)

var registerJinjaFilters = sync.OnceValue(func() error {
	filters := map[string]pongo2.FilterFunction{
		"percentage": jinjaPercentage,
		"trim":       jinjaTrim,
	}
	for name, fn := range filters {
		var err error
		if pongo2.FilterExists(name) {
			err = pongo2.ReplaceFilter(name, fn)
		} else {
			err = pongo2.RegisterFilter(name, fn)
		}
		if err != nil {
			return fmt.Errorf("register filter %q: %w", name, err)
		}
	}
	return nil
})

// jinjaEngine renders Jinja-style templates through pongo2.
type jinjaEngine struct{}

func newJinjaEngine() jinjaEngine { return jinjaEngine{} }

func (jinjaEngine) Name() string    { return EngineJinja }
func (jinjaEngine) builtin() string { return "report.md.j2" }

func (jinjaEngine) Compile(name, source, baseDir string) (Template, error) {
	if err := registerJinjaFilters(); err != nil {
		return nil, err
	}

	var loaders []pongo2.TemplateLoader
	if strings.TrimSpace(baseDir) != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(baseDir)
		if err != nil {
			return nil, fmt.Errorf("template loader for %q: %w", baseDir, err)
		}
		loaders = append(loaders, loader)
	}
	builtins, err := fs.Sub(builtinTemplates, builtinTemplateDir)
	if err != nil {
		return nil, fmt.Errorf("builtin template loader: %w", err)
	}
	loaders = append(loaders, pongo2.NewFSLoader(builtins))
	set := pongo2.NewSet("gradereport-"+name, loaders...)

	tpl, err := set.FromString(autoescapeOff + source + autoescapeEnd)
	if err != nil {
		return nil, fmt.Errorf("parse template %q: %w", name, err)
	}
	return jinjaTemplate{name: name, tpl: tpl}, nil
}

type jinjaTemplate struct {
	name string
	tpl  *pongo2.Template
}

func (t jinjaTemplate) Execute(w io.Writer, view View) error {
	if err := t.tpl.ExecuteWriter(pongo2.Context(view.contextMap()), w); err != nil {
		return fmt.Errorf("execute template %q: %w", t.name, err)
	}
	return nil
}

func jinjaPercentage(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	digits := 0
	if param != nil && !param.IsNil() {
		digits = param.Integer()
	}
	out, err := FormatPercentage(in.Interface(), digits)
	if err != nil {
		return nil, &pongo2.Error{Sender: "filter:percentage", OrigError: err}
	}
	return pongo2.AsValue(out), nil
}

func jinjaTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(Trim(in.String())), nil
}
