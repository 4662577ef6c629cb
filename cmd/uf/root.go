package main

import (
	"github.com/spf13/cobra"

	"uf/internal/version"
)

var (
	// logFormatFlag is the CLI --log-format flag value
	logFormatFlag string
	// logLevelFlag is the CLI --log-level flag value
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "uf",
	Short: "uf - understand a codebase before changing it",
	Long: `uf builds a navigable model of what a codebase does from static source
and optional runtime traces, then carves out a small, relevant subgraph
(a "lens") around your seeds to produce a guided walkthrough.

Typical flow:
  uf scan .                                 # build maps/out.json
  uf lens from-seeds --seed checkout --map maps/out.json
  uf lens merge-trace maps/lens.json trace.json
  uf tour maps/lens.json -o tours/tour.md`,
	Version: version.Info(),
}

func init() {
	rootCmd.SetVersionTemplate("uf version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: human or json (default from config)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, error (default from config)")
}
