package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/curricula/gradereport/internal/config"
	"github.com/curricula/gradereport/internal/env"
	"github.com/curricula/gradereport/internal/ghoutput"
	"github.com/curricula/gradereport/internal/grading"
	"github.com/curricula/gradereport/internal/report"
)

// loadConfigFromCmd reads gradereport.yaml with inline --vars merged on top.
// The default path may be absent; an explicit one must exist.
func loadConfigFromCmd(opts *Options, cmd *cobra.Command, envVars string) (*config.Config, error) {
	raw := envVars
	if f := cmd.Flags().Lookup("vars"); f != nil && (f.Changed || raw == "") {
		raw = f.Value.String()
	}
	inlineVars, err := env.ParseInlineVars(raw)
	if err != nil {
		return nil, err
	}

	explicit := cmd.Flags().Changed("config") || envPresent("GRADEREPORT_CONFIG")
	cfg, err := config.Load(opts.ConfigPath, config.LoadOptions{
		UserVars:     inlineVars,
		AllowMissing: !explicit,
	})
	if err != nil {
		return nil, err
	}
	LoggerFromContext(cmd.Context()).Debug("config loaded", "path", cfg.Path, "vars", cfg.TemplateVars.Keys())
	return cfg, nil
}

// warnGitHubDisabled notes when --github is requested outside GitHub Actions.
func warnGitHubDisabled(cmd *cobra.Command, s templateSettings) {
	if s.GitHub && !ghoutput.Enabled() {
		LoggerFromContext(cmd.Context()).Warn("GITHUB_OUTPUT is not set; GitHub outputs will be skipped")
	}
}

// resolveString applies flag > env > config precedence.
func resolveString(cmd *cobra.Command, flag, envKey, envVal, cfgVal string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return strings.TrimSpace(v)
	}
	if envPresent(envKey) {
		return strings.TrimSpace(envVal)
	}
	if strings.TrimSpace(cfgVal) != "" {
		return strings.TrimSpace(cfgVal)
	}
	v, _ := cmd.Flags().GetString(flag)
	return strings.TrimSpace(v)
}

// resolveBool applies flag > env > config precedence.
func resolveBool(cmd *cobra.Command, flag, envKey string, envVal, cfgVal bool) bool {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetBool(flag)
		return v
	}
	if envPresent(envKey) {
		return envVal
	}
	return cfgVal
}

// resolveInt applies flag > env > config precedence.
func resolveInt(cmd *cobra.Command, flag, envKey string, envVal, cfgVal int) int {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetInt(flag)
		return v
	}
	if envPresent(envKey) {
		return envVal
	}
	if cfgVal != 0 {
		return cfgVal
	}
	v, _ := cmd.Flags().GetInt(flag)
	return v
}

// templateSettings are the resolved inputs shared by render and batch.
type templateSettings struct {
	Engine   string
	Template string
	Schema   string
	Strict   bool
	GitHub   bool
}

func resolveTemplateSettings(cmd *cobra.Command, e templateEnv, cfg *config.Config) templateSettings {
	s := templateSettings{
		Engine: resolveString(cmd, "engine", "GRADEREPORT_ENGINE", e.Engine, cfg.Engine),
		Strict: resolveBool(cmd, "strict", "GRADEREPORT_STRICT", e.Strict, cfg.Strict),
		GitHub: resolveBool(cmd, "github", "GRADEREPORT_GITHUB", e.GitHub, cfg.GitHub),
	}
	// Config-relative paths only apply to values that came from the config file.
	s.Template = resolveString(cmd, "template", "GRADEREPORT_TEMPLATE", e.Template, "")
	if s.Template == "" {
		s.Template = cfg.ResolvePath(cfg.Template)
	}
	s.Schema = resolveString(cmd, "schema", "GRADEREPORT_SCHEMA", e.Schema, "")
	if s.Schema == "" {
		s.Schema = cfg.ResolvePath(cfg.Schema)
	}
	return s
}

// newRendererFromSettings builds a report.Renderer for the resolved engine and template.
func newRendererFromSettings(s templateSettings) (*report.Renderer, error) {
	opts := []report.Option{report.WithEngine(s.Engine)}
	if s.Template != "" {
		opts = append(opts, report.WithTemplateFile(s.Template))
	}
	return report.NewRenderer(opts...)
}

// loadSchema reads the schema named by --schema, GRADEREPORT_SCHEMA or the config file.
func loadSchema(path string) (grading.Schema, error) {
	if path == "" {
		return grading.Schema{}, fmt.Errorf("schema path is required (--schema, GRADEREPORT_SCHEMA or schema in config)")
	}
	return grading.LoadSchema(path)
}
