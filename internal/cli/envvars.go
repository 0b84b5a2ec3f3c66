package cli

import (
	"os"
	"strings"

	envparse "github.com/caarlos0/env/v11"
)

// baseEnv defines root CLI defaults sourced from GRADEREPORT_* env vars.
type baseEnv struct {
	// ConfigPath is the gradereport.yaml path from GRADEREPORT_CONFIG.
	ConfigPath string `env:"GRADEREPORT_CONFIG"`
	// LogLevel is the logging level from GRADEREPORT_LOG_LEVEL.
	LogLevel string `env:"GRADEREPORT_LOG_LEVEL"`
	// LogFile is an extra plain-text log destination from GRADEREPORT_LOG_FILE.
	LogFile string `env:"GRADEREPORT_LOG_FILE"`
}

// templateEnv selects how reports are rendered.
type templateEnv struct {
	// Engine is the template engine from GRADEREPORT_ENGINE.
	Engine string `env:"GRADEREPORT_ENGINE"`
	// Template is a report template path from GRADEREPORT_TEMPLATE.
	Template string `env:"GRADEREPORT_TEMPLATE"`
	// Vars is a k=v,k2=v2 list from GRADEREPORT_VARS.
	Vars string `env:"GRADEREPORT_VARS"`
	// Schema is the schema path from GRADEREPORT_SCHEMA.
	Schema string `env:"GRADEREPORT_SCHEMA"`
	// Strict toggles fatal validation from GRADEREPORT_STRICT.
	Strict bool `env:"GRADEREPORT_STRICT"`
	// GitHub toggles Actions outputs from GRADEREPORT_GITHUB.
	GitHub bool `env:"GRADEREPORT_GITHUB"`
}

// renderEnv captures GRADEREPORT_* inputs for the render command.
type renderEnv struct {
	templateEnv
	// Summary is the summary path from GRADEREPORT_SUMMARY.
	Summary string `env:"GRADEREPORT_SUMMARY"`
	// Output is the report path from GRADEREPORT_OUTPUT.
	Output string `env:"GRADEREPORT_OUTPUT"`
	// Pretty toggles terminal preview from GRADEREPORT_PRETTY.
	Pretty bool `env:"GRADEREPORT_PRETTY"`
	// CommentPR is the pull request to comment on from GRADEREPORT_COMMENT_PR.
	CommentPR int `env:"GRADEREPORT_COMMENT_PR"`
	// CommentKey distinguishes report comments from GRADEREPORT_COMMENT_KEY.
	CommentKey string `env:"GRADEREPORT_COMMENT_KEY"`
	// Repository is the owner/repo slug from GITHUB_REPOSITORY.
	Repository string `env:"GITHUB_REPOSITORY"`
	// Token authenticates gh from GITHUB_TOKEN.
	Token string `env:"GITHUB_TOKEN"`
}

// batchEnv captures GRADEREPORT_* inputs for the batch command.
type batchEnv struct {
	templateEnv
	// Reports is the summaries directory from GRADEREPORT_REPORTS.
	Reports string `env:"GRADEREPORT_REPORTS"`
	// OutputDir is the reports output directory from GRADEREPORT_OUTPUT_DIR.
	OutputDir string `env:"GRADEREPORT_OUTPUT_DIR"`
	// Jobs caps concurrent renders from GRADEREPORT_JOBS.
	Jobs int `env:"GRADEREPORT_JOBS"`
}

// parseEnv fills target from GRADEREPORT_* env vars via caarlos0/env.
func parseEnv(target interface{}) error {
	return envparse.Parse(target)
}

// envPresent reports whether a non-empty env var exists.
func envPresent(key string) bool {
	val, ok := os.LookupEnv(key)
	if !ok {
		return false
	}
	return strings.TrimSpace(val) != ""
}
