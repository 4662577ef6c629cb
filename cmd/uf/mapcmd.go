package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"uf/internal/codemap"
	"uf/internal/report"
)

var mapOutputDir string

var mapCmd = &cobra.Command{
	Use:   "map <map.json>",
	Short: "Export a code map as a Graphviz digraph",
	Args:  cobra.ExactArgs(1),
	RunE:  runMap,
}

func init() {
	mapCmd.Flags().StringVarP(&mapOutputDir, "output", "o", "maps", "Output directory for the .dot file")
	rootCmd.AddCommand(mapCmd)
}

func runMap(cmd *cobra.Command, args []string) error {
	m, err := codemap.LoadMap(args[0])
	if err != nil {
		return err
	}

	if err := os.MkdirAll(mapOutputDir, 0755); err != nil {
		return err
	}
	stem := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	dotPath := filepath.Join(mapOutputDir, stem+".dot")

	f, err := os.Create(dotPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := report.WriteDot(m, f); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", dotPath)
	return nil
}
