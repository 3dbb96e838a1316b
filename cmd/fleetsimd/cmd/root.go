package cmd

import (
	"github.com/spf13/cobra"

	"github.com/asicfleet/simulator/internal/version"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:     "fleetsimd",
	Short:   "Simulate a fleet of ASIC miners over HTTP",
	Long:    `fleetsimd runs a virtual fleet of simulated ASIC miners, exposing both a reference HTTP API and a device-compat dialect that mimics real firmware.`,
	Version: version.Build,
}

// Execute adds all child commands to the root command and runs it. Called
// by main.main once.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a JSON config file (optional)")
}
