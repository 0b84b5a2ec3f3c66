package cli

import (
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/curricula/gradereport/internal/batch"
	"github.com/curricula/gradereport/internal/ghoutput"
)

// newBatchCommand creates the "batch" subcommand that renders a directory of summaries.
func newBatchCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Render every summary in a directory and write a score index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			var envCfg batchEnv
			if err := parseEnv(&envCfg); err != nil {
				return err
			}
			cfg, err := loadConfigFromCmd(opts, cmd, envCfg.Vars)
			if err != nil {
				return err
			}

			settings := resolveTemplateSettings(cmd, envCfg.templateEnv, cfg)
			reportsDir := resolveString(cmd, "reports", "GRADEREPORT_REPORTS", envCfg.Reports, "")
			outputDir := resolveString(cmd, "output", "GRADEREPORT_OUTPUT_DIR", envCfg.OutputDir, "")
			jobs := resolveInt(cmd, "jobs", "GRADEREPORT_JOBS", envCfg.Jobs, cfg.Jobs)
			if reportsDir == "" {
				return errors.New("reports directory is required (--reports or GRADEREPORT_REPORTS)")
			}
			if outputDir == "" {
				return errors.New("output directory is required (--output or GRADEREPORT_OUTPUT_DIR)")
			}
			warnGitHubDisabled(cmd, settings)

			schema, err := loadSchema(settings.Schema)
			if err != nil {
				return err
			}
			renderer, err := newRendererFromSettings(settings)
			if err != nil {
				return err
			}

			res, err := batch.Run(cmd.Context(), batch.Options{
				Schema:     schema,
				ReportsDir: reportsDir,
				OutputDir:  outputDir,
				Renderer:   renderer,
				Vars:       cfg.TemplateVars,
				Jobs:       jobs,
				Strict:     settings.Strict,
				Logger:     logger,
			})
			if err != nil {
				return err
			}

			if settings.GitHub {
				return ghoutput.Write(map[string]string{
					"index":   res.Index,
					"reports": strconv.Itoa(len(res.Entries)),
				})
			}
			return nil
		},
	}

	addTemplateFlags(cmd)
	cmd.Flags().String("reports", "", "Directory of grading summaries (*.json, *.yaml, *.yml)")
	cmd.Flags().StringP("output", "o", "", "Directory receiving one report per summary and index.md")
	cmd.Flags().Int("jobs", 0, "Maximum concurrent renders (0 uses GOMAXPROCS)")

	return cmd
}
