package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"uf/internal/codemap"
	"uf/internal/scanner"
)

var (
	scanOutput  string
	scanNoCache bool
	scanWorkers int
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a source tree into a code map",
	Long: `Scan walks a directory tree, extracts a per-function call map from
every recognized source file, and writes the CodeMap document.

Unchanged files are served from the content cache; files that fail to
parse contribute nothing and never abort the scan.

Examples:
  uf scan .
  uf scan path/to/repo -o maps/out.json
  uf scan . --no-cache --workers 8`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "maps/out.json", "Output path for the map document")
	scanCmd.Flags().BoolVar(&scanNoCache, "no-cache", false, "Disable the content cache")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "Parse worker count (0 = min(4, CPUs))")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	start := time.Now()
	cfg := loadConfig()
	logger := newLogger(cfg)
	rec := openMetrics(cfg, logger)
	defer func() { _ = rec.Close() }()

	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	workers := cfg.Scan.Workers
	if scanWorkers > 0 {
		workers = scanWorkers
	}

	m, err := scanner.Scan(root, scanner.Options{
		UseCache:  cfg.Scan.UseCache && !scanNoCache,
		CachePath: cfg.Scan.CachePath,
		Workers:   workers,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("scanning %s: %w", root, err)
	}

	if err := codemap.WriteMap(m, scanOutput); err != nil {
		return err
	}

	rec.TrackEvent("scan", map[string]interface{}{
		"functions":   len(m.Functions),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	fmt.Printf("Wrote %s (%d functions)\n", scanOutput, len(m.Functions))
	return nil
}
