package report

import (
	"fmt"
	"sort"
	"strings"

	"uf/internal/codemap"
)

// hotspotCount caps the symbols listed in the hotspot report.
const hotspotCount = 10

// HotspotsMarkdown renders the most-called raw symbol names in a map.
// Counts are over unresolved callee names, so they measure textual
// popularity, not resolved fan-in.
func HotspotsMarkdown(m *codemap.CodeMap) string {
	counts := make(map[string]int)
	for _, rec := range m.Functions {
		for _, c := range rec.Calls {
			counts[c]++
		}
	}

	type hotspot struct {
		name  string
		count int
	}
	ranked := make([]hotspot, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, hotspot{name: name, count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].name < ranked[j].name
	})
	if len(ranked) > hotspotCount {
		ranked = ranked[:hotspotCount]
	}

	var b strings.Builder
	b.WriteString("# Understanding Report\n\n")
	b.WriteString("## Hotspots (most called symbols)\n")
	for _, h := range ranked {
		fmt.Fprintf(&b, "- `%s` has %d inbound calls\n", h.name, h.count)
	}
	b.WriteString("\n## Next steps\n")
	b.WriteString("- Confirm invariants for hotspots.\n")
	b.WriteString("- Create/run a minimal fixture on the hot path.\n")
	return b.String()
}
