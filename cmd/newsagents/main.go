package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "newsagents",
	Short: "Sector news sentiment agents",
	Long: `newsagents runs a two-agent news sentiment pipeline for equity sectors:
Agent-1 maps raw news to per-sector sentiment records and calibrates same-day
aggregates against next-day price moves, Agent-2 turns calibrated records into
an UP / DOWN / NO_IMPACT call for a sector or ticker set.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
