package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"uf/internal/lens"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Extract lens seeds from external text",
}

var ingestGithubCmd = &cobra.Command{
	Use:   "github <ci-log>",
	Short: "Extract seeds from a CI failure log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printSeeds(args[0], lens.SeedsFromTestLog)
	},
}

var ingestJiraCmd = &cobra.Command{
	Use:   "jira <ticket.txt>",
	Short: "Extract seeds from ticket text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printSeeds(args[0], lens.SeedsFromTicket)
	},
}

func init() {
	ingestCmd.AddCommand(ingestGithubCmd, ingestJiraCmd)
	rootCmd.AddCommand(ingestCmd)
}

func printSeeds(path string, extract func(string) []string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	seeds := extract(string(data))
	if len(seeds) == 0 {
		fmt.Println("No seeds found.")
		return nil
	}
	fmt.Println(strings.Join(seeds, "\n"))
	return nil
}
