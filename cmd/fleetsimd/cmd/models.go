package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asicfleet/simulator/internal/preset"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available ASIC model presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := preset.Load()
		if err != nil {
			return fmt.Errorf("models: load preset catalog: %w", err)
		}
		data, err := json.MarshalIndent(catalog.ListModels(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
