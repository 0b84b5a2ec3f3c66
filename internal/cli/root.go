// Package cli defines the command-line interface for gradereport.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/curricula/gradereport/internal/config"
	"github.com/curricula/gradereport/internal/logging"
)

// Options stores global CLI options shared between commands.
type Options struct {
	ConfigPath string
	LogLevel   logging.Level
	Verbose    int
	LogFile    string

	logFile io.Closer
}

// Execute builds the root command, runs it with the provided args and logger, and returns any error.
func Execute(ctx context.Context, args []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, logging.LevelWarn)
	}

	rootOpts := &Options{
		ConfigPath: config.DefaultPath,
		LogLevel:   logging.LevelWarn,
	}

	rootCmd := newRootCommand(rootOpts, logger)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if rootOpts.logFile != nil {
		_ = rootOpts.logFile.Close()
	}
	return err
}

// newRootCommand constructs the root cobra.Command with global flags and subcommands.
func newRootCommand(opts *Options, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gradereport",
		Short:         "gradereport renders grading summaries as Markdown reports",
		Long:          "gradereport turns an assignment schema and a grading summary into a Markdown report, for single submissions, whole directories, or CI job summaries.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var envCfg baseEnv
			if err := parseEnv(&envCfg); err != nil {
				return err
			}
			if !cmd.Flags().Changed("config") && envPresent("GRADEREPORT_CONFIG") {
				opts.ConfigPath = envCfg.ConfigPath
			}
			if !cmd.Flags().Changed("log-file") && envPresent("GRADEREPORT_LOG_FILE") {
				opts.LogFile = envCfg.LogFile
			}

			level := logging.LevelFromVerbosity(opts.Verbose)
			switch {
			case cmd.Flags().Changed("log-level"):
				level = logging.ParseLevel(cmd.Flag("log-level").Value.String())
			case opts.Verbose == 0 && envPresent("GRADEREPORT_LOG_LEVEL"):
				level = logging.ParseLevel(envCfg.LogLevel)
			}
			opts.LogLevel = level

			if opts.LogFile != "" {
				f, err := os.OpenFile(opts.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
				if err != nil {
					return fmt.Errorf("open log file %q: %w", opts.LogFile, err)
				}
				opts.logFile = f
				logger = logging.NewTeeLogger(cmd.ErrOrStderr(), f, level)
			} else {
				logger = logging.NewLogger(cmd.ErrOrStderr(), level)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
			logger.Debug("logger initialized", "level", level)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", config.DefaultPath, "Path to gradereport.yaml configuration file")
	cmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().CountVarP(&opts.Verbose, "verbose", "v", "Increase verbosity (-v info, -vv debug)")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "Also write plain-text logs to this file")

	cmd.AddCommand(
		newRenderCommand(opts),
		newBatchCommand(opts),
		newValidateCommand(opts),
		newTemplateCommand(),
	)

	return cmd
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return logging.NewLogger(os.Stderr, logging.LevelWarn)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logging.NewLogger(os.Stderr, logging.LevelWarn)
}
