package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/curricula/gradereport/internal/report"
)

func addVarsFlags(cmd *cobra.Command) {
	cmd.Flags().String("vars", "", "Additional template variables in k=v,k2=v2 format")
}

func addTemplateFlags(cmd *cobra.Command) {
	cmd.Flags().String("schema", "", "Path to the assignment schema (JSON or YAML)")
	cmd.Flags().String("engine", report.EngineGo, "Template engine ("+strings.Join(report.EngineNames(), ", ")+")")
	cmd.Flags().String("template", "", "Custom report template file (defaults to the built-in template)")
	cmd.Flags().Bool("strict", false, "Fail when a summary breaks a grading invariant")
	cmd.Flags().Bool("github", false, "Write GitHub Actions outputs and job summary")
	addVarsFlags(cmd)
}
