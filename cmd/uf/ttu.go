package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"uf/internal/config"
)

var ttuDays int

var ttuCmd = &cobra.Command{
	Use:   "ttu",
	Short: "Summarize time-to-understanding metrics",
	Long: `Summarize the locally recorded time-to-understanding measurements.
Requires metrics to be enabled in the config; nothing is ever sent
anywhere.`,
	RunE: runTTU,
}

func init() {
	ttuCmd.Flags().IntVar(&ttuDays, "days", 30, "Window in days")
	rootCmd.AddCommand(ttuCmd)
}

func runTTU(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger := newLogger(cfg)

	if !cfg.Metrics.Enabled {
		fmt.Printf("Metrics are disabled. Enable them in %s:\n", config.ConfigFileName)
		fmt.Println("  metrics:")
		fmt.Println("    enabled: true")
		return nil
	}

	rec := openMetrics(cfg, logger)
	if rec == nil {
		return fmt.Errorf("metrics store at %s could not be opened", cfg.Metrics.DBPath)
	}
	defer func() { _ = rec.Close() }()

	since := time.Now().AddDate(0, 0, -ttuDays)
	summaries, err := rec.Summaries(since)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No measurements recorded yet.")
		return nil
	}

	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
