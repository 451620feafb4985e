package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lzjever/microsvc/internal/config"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "microsvc",
	Short: "microsvc - minimal HTTP microservice",
	Long: `microsvc serves health, info and API documentation endpoints behind a
configurable CORS policy. Settings come from the environment and an optional .env file.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "Env file read before the process environment (missing file is ignored)")
}
