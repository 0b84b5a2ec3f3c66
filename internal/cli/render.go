package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/curricula/gradereport/internal/config"
	"github.com/curricula/gradereport/internal/ghoutput"
	"github.com/curricula/gradereport/internal/githubapi"
	"github.com/curricula/gradereport/internal/grading"
	"github.com/curricula/gradereport/internal/preview"
	"github.com/curricula/gradereport/internal/report"
	"github.com/curricula/gradereport/internal/watch"
)

// renderJob is one fully resolved render invocation.
type renderJob struct {
	settings templateSettings
	cfg      *config.Config
	summary  string
	output   string
	pretty   bool
	width    int
	style    string
	out      io.Writer
	logger   *slog.Logger

	commentPR  int
	commentKey string
	repo       string
	token      string
}

// newRenderCommand creates the "render" subcommand that renders one grading summary.
func newRenderCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a grading summary as a Markdown report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			var envCfg renderEnv
			if err := parseEnv(&envCfg); err != nil {
				return err
			}
			cfg, err := loadConfigFromCmd(opts, cmd, envCfg.Vars)
			if err != nil {
				return err
			}

			job := renderJob{
				settings: resolveTemplateSettings(cmd, envCfg.templateEnv, cfg),
				cfg:      cfg,
				summary:  resolveString(cmd, "summary", "GRADEREPORT_SUMMARY", envCfg.Summary, ""),
				pretty:   resolveBool(cmd, "pretty", "GRADEREPORT_PRETTY", envCfg.Pretty, cfg.Pretty),
				out:      cmd.OutOrStdout(),
				logger:   logger,
			}
			job.output = resolveString(cmd, "output", "GRADEREPORT_OUTPUT", envCfg.Output, "")
			if job.output == "" {
				job.output = cfg.ResolvePath(cfg.Output)
			}
			if toStdout, _ := cmd.Flags().GetBool("stdout"); toStdout {
				job.output = ""
			}
			job.commentPR = resolveInt(cmd, "comment-pr", "GRADEREPORT_COMMENT_PR", envCfg.CommentPR, 0)
			job.commentKey = resolveString(cmd, "comment-key", "GRADEREPORT_COMMENT_KEY", envCfg.CommentKey, "")
			job.repo = resolveString(cmd, "repo", "GITHUB_REPOSITORY", envCfg.Repository, "")
			job.token = envCfg.Token
			job.width, _ = cmd.Flags().GetInt("width")
			job.style, _ = cmd.Flags().GetString("style")
			if job.summary == "" {
				return errors.New("summary path is required (--summary or GRADEREPORT_SUMMARY)")
			}
			warnGitHubDisabled(cmd, job.settings)

			markdown, err := job.run()
			if err != nil {
				return err
			}
			if job.commentPR > 0 {
				if err := job.comment(cmd.Context(), markdown); err != nil {
					return err
				}
			}

			watchMode, _ := cmd.Flags().GetBool("watch")
			if !watchMode {
				return nil
			}
			return job.watch(cmd.Context())
		},
	}

	addTemplateFlags(cmd)
	cmd.Flags().String("summary", "", "Path to the grading summary (JSON or YAML)")
	cmd.Flags().StringP("output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().Bool("stdout", false, "Print to stdout even when an output path is configured")
	cmd.Flags().Bool("pretty", false, "Style the report for the terminal instead of printing raw Markdown")
	cmd.Flags().Int("width", preview.DefaultWidth, "Word-wrap width for --pretty")
	cmd.Flags().String("style", preview.StyleAuto, "Preview style for --pretty (auto, dark, light, notty, ascii)")
	cmd.Flags().Bool("watch", false, "Re-render whenever the schema, summary or template changes")
	cmd.Flags().Int("comment-pr", 0, "Post or update the report as a comment on this pull request (uses gh)")
	cmd.Flags().String("comment-key", "", "Key distinguishing this report's comment from other gradereport comments")
	cmd.Flags().String("repo", "", "Repository owner/name for --comment-pr (defaults to GITHUB_REPOSITORY)")

	return cmd
}

// run loads inputs, renders the report and delivers it once.
func (j renderJob) run() (string, error) {
	schema, err := loadSchema(j.settings.Schema)
	if err != nil {
		return "", err
	}
	summary, err := grading.LoadSummary(j.summary)
	if err != nil {
		return "", err
	}

	if err := grading.Validate(schema, summary); err != nil {
		if j.settings.Strict {
			return "", err
		}
		j.logger.Warn("summary breaks grading invariants", "summary", j.summary, "error", err)
	}

	renderer, err := newRendererFromSettings(j.settings)
	if err != nil {
		return "", err
	}
	view, err := report.NewView(schema, summary, j.cfg.TemplateVars, time.Now().UTC())
	if err != nil {
		return "", err
	}
	markdown, err := renderer.Render(view)
	if err != nil {
		return "", err
	}
	j.logger.Debug("rendered report", "engine", renderer.EngineName(), "template", renderer.TemplateName(),
		"problems", schema.Problems.Shorts())

	if err := j.deliver(markdown); err != nil {
		return "", err
	}

	if j.settings.GitHub {
		score, err := report.FormatPercentage(grading.Score(schema, summary), 1)
		if err != nil {
			return "", err
		}
		outputs := map[string]string{
			"score":    score,
			"problems": strconv.Itoa(len(schema.Problems)),
		}
		if j.output != "" {
			outputs["report"] = j.output
		}
		if err := ghoutput.Write(outputs); err != nil {
			return "", err
		}
		if err := ghoutput.AppendSummary(markdown); err != nil {
			return "", err
		}
	}
	return markdown, nil
}

// deliver writes the report to the output file or stdout.
func (j renderJob) deliver(markdown string) error {
	if j.output != "" {
		if dir := filepath.Dir(j.output); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output directory %q: %w", dir, err)
			}
		}
		if err := os.WriteFile(j.output, []byte(markdown), 0o644); err != nil {
			return fmt.Errorf("write report %q: %w", j.output, err)
		}
		j.logger.Info("report written", "path", j.output)
		return nil
	}

	if j.pretty {
		styled, err := preview.Render(markdown, j.width, j.style)
		if err != nil {
			return err
		}
		markdown = styled
	}
	_, err := io.WriteString(j.out, markdown)
	return err
}

// watch re-runs the render after each burst of input changes until ctx ends.
func (j renderJob) watch(ctx context.Context) error {
	paths := []string{j.settings.Schema, j.summary}
	if j.settings.Template != "" {
		paths = append(paths, j.settings.Template)
	}
	w, err := watch.New(paths)
	if err != nil {
		return err
	}
	defer w.Close()

	j.logger.Info("watching for changes", "paths", paths)
	return w.Run(ctx, watch.DefaultDebounce, func(changed []string) {
		if _, err := j.run(); err != nil {
			j.logger.Error("render failed", "error", err)
			return
		}
		j.logger.Info("report re-rendered", "changed", changed)
	})
}

// comment publishes markdown as a sticky pull request comment.
func (j renderJob) comment(ctx context.Context, markdown string) error {
	if j.repo == "" {
		return errors.New("repository is required for --comment-pr (--repo or GITHUB_REPOSITORY)")
	}
	client, err := githubapi.NewClient(j.logger, j.token, j.repo)
	if err != nil {
		return err
	}
	_, err = client.UpsertReportComment(ctx, j.commentPR, githubapi.Marker(j.commentKey), markdown)
	return err
}
