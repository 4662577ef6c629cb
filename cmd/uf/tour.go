package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"uf/internal/lens"
	"uf/internal/report"
)

var tourOutput string

var tourCmd = &cobra.Command{
	Use:   "tour <lens.json>",
	Short: "Write a guided walkthrough from a ranked lens",
	Args:  cobra.ExactArgs(1),
	RunE:  runTour,
}

func init() {
	tourCmd.Flags().StringVarP(&tourOutput, "output", "o", "tours/tour.md", "Output path for the tour")
	rootCmd.AddCommand(tourCmd)
}

func runTour(cmd *cobra.Command, args []string) error {
	l, err := lens.LoadLens(args[0])
	if err != nil {
		return err
	}
	if err := writeFileMakingDirs(tourOutput, []byte(report.TourMarkdown(l))); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", tourOutput)
	return nil
}
