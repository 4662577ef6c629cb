package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"uf/internal/codemap"
	"uf/internal/config"
	"uf/internal/lens"
)

var (
	lensSeeds   []string
	lensMapPath string
	lensOutput  string
	lensHops    int
)

var lensCmd = &cobra.Command{
	Use:   "lens",
	Short: "Build and refine task lenses",
	Long: `A lens is the small subgraph of the code map relevant to one task:
functions matching your seeds plus their heuristic neighbors within a
hop budget, optionally annotated with runtime hits and relevance scores.`,
}

var lensFromSeedsCmd = &cobra.Command{
	Use:   "from-seeds",
	Short: "Build a lens from seed strings",
	Long: `Build a ranked lens around the given seeds. Seeds are matched as
plain substrings of qualified names, so function names, file fragments,
and free text all work. With no --seed, the top functions by outbound
call count stand in.

Examples:
  uf lens from-seeds --seed checkout --seed cart --map maps/out.json
  uf lens from-seeds --map maps/out.json --hops 1`,
	RunE: runLensFromSeeds,
}

var lensFromIssueCmd = &cobra.Command{
	Use:   "from-issue <issue.md>",
	Short: "Build a lens from an issue description",
	Args:  cobra.ExactArgs(1),
	RunE:  runLensFromIssue,
}

var lensMergeTraceCmd = &cobra.Command{
	Use:   "merge-trace <lens.json> <trace.json>",
	Short: "Overlay a runtime trace onto a lens",
	Args:  cobra.ExactArgs(2),
	RunE:  runLensMergeTrace,
}

var lensPresetCmd = &cobra.Command{
	Use:   "preset <label>",
	Short: "Build a lens from a named seed preset in the config",
	Args:  cobra.ExactArgs(1),
	RunE:  runLensPreset,
}

var (
	explainLensPath string
)

var lensExplainCmd = &cobra.Command{
	Use:   "explain <qualified-name>",
	Short: "Explain why a function is in a lens",
	Args:  cobra.ExactArgs(1),
	RunE:  runLensExplain,
}

func init() {
	lensFromSeedsCmd.Flags().StringArrayVar(&lensSeeds, "seed", nil, "Seed string (repeatable)")
	for _, c := range []*cobra.Command{lensFromSeedsCmd, lensFromIssueCmd, lensPresetCmd, lensExplainCmd} {
		c.Flags().StringVar(&lensMapPath, "map", "maps/out.json", "Code map document")
	}
	for _, c := range []*cobra.Command{lensFromSeedsCmd, lensFromIssueCmd, lensMergeTraceCmd, lensPresetCmd} {
		c.Flags().StringVarP(&lensOutput, "output", "o", "maps/lens.json", "Output path for the lens document")
	}
	for _, c := range []*cobra.Command{lensFromSeedsCmd, lensFromIssueCmd, lensPresetCmd} {
		c.Flags().IntVar(&lensHops, "hops", -1, "Neighbor expansion rounds (default from config)")
	}
	lensExplainCmd.Flags().StringVar(&explainLensPath, "lens", "maps/lens.json", "Lens document")

	lensCmd.AddCommand(lensFromSeedsCmd, lensFromIssueCmd, lensMergeTraceCmd, lensPresetCmd, lensExplainCmd)
	rootCmd.AddCommand(lensCmd)
}

// buildAndWriteLens runs the build-rank-write tail shared by every
// lens-producing command.
func buildAndWriteLens(seeds []string) error {
	start := time.Now()
	cfg := loadConfig()
	logger := newLogger(cfg)
	rec := openMetrics(cfg, logger)
	defer func() { _ = rec.Close() }()

	m, err := codemap.LoadMap(lensMapPath)
	if err != nil {
		return err
	}

	hops := lensHops
	if hops < 0 {
		hops = cfg.Hops
	}
	if len(seeds) == 0 {
		seeds = cfg.Seeds
	}

	l := lens.Build(m, seeds, hops)
	lens.Rank(l)

	if err := lens.WriteLens(l, lensOutput); err != nil {
		return err
	}

	rec.TrackEvent("lens", map[string]interface{}{
		"seeds":     len(l.Seeds),
		"functions": len(l.Functions),
		"hops":      hops,
	})
	rec.TrackTTU("lens", time.Since(start), true)
	fmt.Printf("Wrote %s (%d functions)\n", lensOutput, len(l.Functions))
	return nil
}

func runLensFromSeeds(cmd *cobra.Command, args []string) error {
	return buildAndWriteLens(lensSeeds)
}

func runLensFromIssue(cmd *cobra.Command, args []string) error {
	text, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading issue: %w", err)
	}
	return buildAndWriteLens(lens.SeedsFromIssue(string(text)))
}

func runLensPreset(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	seeds := cfg.SeedsFor[args[0]]
	if len(seeds) == 0 {
		return fmt.Errorf("no preset %q in %s", args[0], config.ConfigFileName)
	}
	return buildAndWriteLens(seeds)
}

func runLensMergeTrace(cmd *cobra.Command, args []string) error {
	l, err := lens.LoadLens(args[0])
	if err != nil {
		return err
	}
	t, err := lens.LoadTrace(args[1])
	if err != nil {
		return err
	}

	lens.Merge(l, t)
	lens.Rank(l)

	out := lensOutput
	if !cmd.Flags().Changed("output") {
		out = args[0] // refine in place by default
	}
	if err := lens.WriteLens(l, out); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d runtime hits)\n", out, l.Runtime.HitCount)
	return nil
}

func runLensExplain(cmd *cobra.Command, args []string) error {
	l, err := lens.LoadLens(explainLensPath)
	if err != nil {
		return err
	}
	m, err := codemap.LoadMap(lensMapPath)
	if err != nil {
		return err
	}

	exp := lens.Explain(args[0], l, m)
	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
