package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"uf/internal/codemap"
	"uf/internal/report"
)

var reportOutputDir string

var reportCmd = &cobra.Command{
	Use:   "report <map.json>",
	Short: "Render a hotspot report from a code map",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutputDir, "output", "o", "maps", "Output directory for the report")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	m, err := codemap.LoadMap(args[0])
	if err != nil {
		return err
	}

	stem := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	mdPath := filepath.Join(reportOutputDir, stem+".md")
	if err := writeFileMakingDirs(mdPath, []byte(report.HotspotsMarkdown(m))); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", mdPath)
	return nil
}
