package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asicfleet/simulator/internal/version"
)

const builtinCatalogSchemaVersion = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build and catalog schema compatibility info",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(version.Current(builtinCatalogSchemaVersion), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
