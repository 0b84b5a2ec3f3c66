package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/curricula/gradereport/internal/grading"
)

// newValidateCommand creates the "validate" subcommand that checks a summary against a schema.
func newValidateCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a summary satisfies the grading invariants of a schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			var envCfg renderEnv
			if err := parseEnv(&envCfg); err != nil {
				return err
			}
			cfg, err := loadConfigFromCmd(opts, cmd, "")
			if err != nil {
				return err
			}

			schemaPath := resolveString(cmd, "schema", "GRADEREPORT_SCHEMA", envCfg.Schema, "")
			if schemaPath == "" {
				schemaPath = cfg.ResolvePath(cfg.Schema)
			}
			summaryPath := resolveString(cmd, "summary", "GRADEREPORT_SUMMARY", envCfg.Summary, "")
			if summaryPath == "" {
				return errors.New("summary path is required (--summary or GRADEREPORT_SUMMARY)")
			}

			schema, err := loadSchema(schemaPath)
			if err != nil {
				return err
			}
			summary, err := grading.LoadSummary(summaryPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			verr := grading.Validate(schema, summary)
			if verr == nil {
				logger.Info("summary is valid", "schema", schemaPath, "summary", summaryPath)
				_, err := fmt.Fprintln(out, "ok")
				return err
			}

			problems := strings.Split(verr.Error(), "\n")
			for _, p := range problems {
				if _, err := fmt.Fprintf(out, "- %s\n", p); err != nil {
					return err
				}
			}
			return fmt.Errorf("%s: %d invariant violation(s): %w", summaryPath, len(problems), verr)
		},
	}

	cmd.Flags().String("schema", "", "Path to the assignment schema (JSON or YAML)")
	cmd.Flags().String("summary", "", "Path to the grading summary (JSON or YAML)")

	return cmd
}
