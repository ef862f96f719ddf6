package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buildwatch/depreport/pkg/runner"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the report body to stdout without publishing",
	Long: `Compute the dependencies report for the given assets folders and
print the comment body to stdout. No token is needed and nothing is
posted anywhere; useful for checking a report locally.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.ValidateLocal(); err != nil {
			return err
		}

		rep, ok, err := runner.BuildReport(cmd.Context(), cfg)
		if err != nil || !ok {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), rep.Body)
		return nil
	},
}

func init() {
	addReportFlags(renderCmd)
	rootCmd.AddCommand(renderCmd)
}
