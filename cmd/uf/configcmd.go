package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"uf/internal/config"
)

var configValidatePath string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and validate configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the config file",
	RunE:  runConfigValidate,
}

func init() {
	configValidateCmd.Flags().StringVar(&configValidatePath, "path", config.ConfigFileName, "Config file to validate")
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	errs := config.ValidateFile(configValidatePath)
	if len(errs) == 0 {
		fmt.Printf("%s is valid\n", configValidatePath)
		return nil
	}
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "  %v\n", err)
	}
	return fmt.Errorf("%s: %d problem(s)", configValidatePath, len(errs))
}
