// Package report renders human-facing artifacts (tour, hotspot report,
// Graphviz export) from ranked lenses and code maps. Pure consumers of
// the interchange documents; nothing here feeds back into the engine.
package report

import (
	"fmt"
	"sort"
	"strings"

	"uf/internal/lens"
)

// tourFileCount is how many starting files the tour suggests.
const tourFileCount = 3

// TourMarkdown renders a short guided walkthrough from a ranked lens:
// the top files by error proximity, an invariants checklist, and the
// seeds that produced the lens.
func TourMarkdown(l *lens.Lens) string {
	type entry struct {
		q     string
		file  string
		score float64
	}
	ranked := make([]entry, 0, len(l.Functions))
	for q, rec := range l.Functions {
		score := 0.0
		if rec.ErrorProximity != nil {
			score = *rec.ErrorProximity
		}
		ranked = append(ranked, entry{q: q, file: rec.File, score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].q < ranked[j].q
	})

	var files []string
	seen := make(map[string]bool)
	for _, e := range ranked {
		if e.file != "" && !seen[e.file] {
			seen[e.file] = true
			files = append(files, e.file)
		}
	}
	if len(files) > tourFileCount {
		files = files[:tourFileCount]
	}

	var b strings.Builder
	b.WriteString("# 10-minute Task Tour\n\n")
	b.WriteString("## Start here (3 files)\n")
	for i, f := range files {
		fmt.Fprintf(&b, "%d. `%s`\n", i+1, f)
	}
	b.WriteString("\n## Invariants to check\n")
	b.WriteString("- Inputs/outputs on public functions\n")
	b.WriteString("- Side effects documented (files, network, globals)\n")
	b.WriteString("\n## Minimal fixture\n")
	b.WriteString("Run the generated fixture (if present) to hit the hot path.\n")
	b.WriteString("\n## Seeds\n")
	b.WriteString(strings.Join(l.Seeds, ", "))
	b.WriteString("\n")
	return b.String()
}
