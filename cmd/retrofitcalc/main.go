package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "retrofitcalc",
		Short:        "Steady-state heat loss, embodied carbon and cost of house retrofits",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file (.yaml/.yml/.json)")

	rootCmd.AddCommand(reportCmd(&configPath))
	rootCmd.AddCommand(scenariosCmd(&configPath))
	rootCmd.AddCommand(serveCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func reportCmd(configPath *string) *cobra.Command {
	var format string
	var ids []string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the report of every scenario, or of the selected ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd.OutOrStdout(), *configPath, format, ids)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	cmd.Flags().StringSliceVarP(&ids, "scenario", "s", nil, "scenario id to report (repeatable)")
	return cmd
}

func scenariosCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the configured scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScenarios(cmd.OutOrStdout(), *configPath)
		},
	}
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Expose the scenarios over the enabled HTTP, MQTT and Modbus controllers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}
