// Package lens carves a small, navigable subgraph out of a CodeMap
// around a set of seed strings, then annotates it with runtime trace
// hits and a heuristic relevance score.
//
// Membership is decided by string containment, not symbol resolution.
// That imprecision is deliberate and load-bearing: downstream ranking
// and its consumers depend on exactly these matching semantics.
package lens

import (
	"sort"
	"strings"

	"uf/internal/codemap"
)

// RuntimeInfo summarizes a merged trace.
type RuntimeInfo struct {
	HitCount int `json:"hit_count"`
}

// Lens is an induced subgraph of a CodeMap: a strict subset of its
// function keys plus the seeds that selected them. Built once per
// request; Merge and Rank mutate it in place and are both idempotent.
type Lens struct {
	Seeds     []string                          `json:"seeds"`
	Functions map[string]codemap.FunctionRecord `json:"-"`
	Runtime   *RuntimeInfo                      `json:"-"`
}

// fallbackSeeds is how many top functions stand in for missing seeds.
const fallbackSeeds = 10

// Build computes the lens for the given seeds with exactly hops rounds
// of neighbor expansion. It never errors: unmatched seeds or an empty
// map just produce a smaller (possibly empty) lens.
func Build(m *codemap.CodeMap, seeds []string, hops int) *Lens {
	if len(seeds) == 0 {
		seeds = topByOutboundCalls(m, fallbackSeeds)
	}

	kept := make(map[string]bool)
	for q := range m.Functions {
		if anySubstring(seeds, q) {
			kept[q] = true
		}
	}

	for hop := 0; hop < hops; hop++ {
		expand(m, kept)
	}

	functions := make(map[string]codemap.FunctionRecord, len(kept))
	for q := range kept {
		functions[q] = m.Functions[q]
	}
	return &Lens{Seeds: seeds, Functions: functions}
}

// expand performs one hop of the loose two-directional closure. Kept
// functions pull in anything their callee names point at (suffix or
// substring match); not-yet-kept functions whose own calls overlap a
// kept function's calls are pulled in as upstream peers. The kept set
// only ever grows.
func expand(m *codemap.CodeMap, kept map[string]bool) {
	// Callee names reachable from the kept set, for the peer check.
	keptCalls := make(map[string]bool)
	for q := range kept {
		for _, c := range m.Functions[q].Calls {
			keptCalls[c] = true
		}
	}

	added := make(map[string]bool)
	for q, rec := range m.Functions {
		if kept[q] {
			for _, c := range rec.Calls {
				for q2 := range m.Functions {
					if matchesCallee(q2, c) {
						added[q2] = true
					}
				}
			}
			continue
		}
		for _, c := range rec.Calls {
			if keptCalls[c] {
				added[q] = true
				break
			}
		}
	}

	for q := range added {
		kept[q] = true
	}
}

// matchesCallee reports whether qualified name q plausibly defines the
// raw callee name c: either q ends with ":"+c or c appears anywhere in
// q. Loose by design.
func matchesCallee(q, c string) bool {
	if c == "" {
		return false
	}
	return strings.HasSuffix(q, ":"+c) || strings.Contains(q, c)
}

// topByOutboundCalls synthesizes fallback seeds: the qualified names of
// the n functions with the most outbound calls, so a lens is never
// vacuously empty just because no seeds were supplied.
func topByOutboundCalls(m *codemap.CodeMap, n int) []string {
	type entry struct {
		q     string
		calls int
	}
	ranked := make([]entry, 0, len(m.Functions))
	for q, rec := range m.Functions {
		ranked = append(ranked, entry{q: q, calls: len(rec.Calls)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].calls != ranked[j].calls {
			return ranked[i].calls > ranked[j].calls
		}
		return ranked[i].q < ranked[j].q
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	seeds := make([]string, n)
	for i := 0; i < n; i++ {
		seeds[i] = ranked[i].q
	}
	return seeds
}

func anySubstring(needles []string, s string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}
