package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"uf/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long:  `Write a default ` + config.ConfigFileName + ` in the current directory.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(config.ConfigFileName); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", config.ConfigFileName)
	}

	cfg := config.DefaultConfig()
	cfg.SeedsFor = map[string][]string{
		"checkout": {"checkout", "payment"},
	}
	if err := cfg.Save(config.ConfigFileName); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", config.ConfigFileName)
	return nil
}
