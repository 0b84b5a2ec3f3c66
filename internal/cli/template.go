package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/curricula/gradereport/internal/report"
)

// newTemplateCommand creates the "template" subcommand that prints a built-in report template.
func newTemplateCommand() *cobra.Command {
	var engineName string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Print the built-in report template as a starting point for --template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, err := report.BuiltinTemplate(engineName)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), source)
			return err
		},
	}

	cmd.Flags().StringVar(&engineName, "engine", report.EngineGo, "Template engine ("+strings.Join(report.EngineNames(), ", ")+")")

	return cmd
}
