package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/lzjever/microsvc/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective settings with secrets redacted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load(envFile)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(settings.Redacted())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
