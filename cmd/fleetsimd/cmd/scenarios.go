package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asicfleet/simulator/internal/preset"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List available behavioral scenario presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := preset.Load()
		if err != nil {
			return fmt.Errorf("scenarios: load preset catalog: %w", err)
		}
		data, err := json.MarshalIndent(catalog.ListScenarios(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scenariosCmd)
}
