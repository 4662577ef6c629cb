package lens

import (
	"math"
	"sort"
	"strings"

	"uf/internal/codemap"
)

// Explanation says why a function is in a lens: its heuristic edges and
// the signals behind its score.
type Explanation struct {
	QualifiedName string   `json:"qname"`
	SeedDistance  *float64 `json:"seed_distance,omitempty"`
	RuntimeHit    bool     `json:"runtime_hit,omitempty"`
	Score         *float64 `json:"error_proximity,omitempty"`
	Callers       []string `json:"callers"`
	Callees       []string `json:"callees"`
}

// Explain reports the callers and callees of qname by the same loose
// matching the lens uses, plus its distance to the nearest seed (1 minus
// the best name Jaccard). The function need not be in the lens; edges
// come from the full map.
func Explain(qname string, l *Lens, m *codemap.CodeMap) Explanation {
	name := codemap.ShortName(qname)
	rec := l.Functions[qname]

	exp := Explanation{
		QualifiedName: qname,
		RuntimeHit:    rec.RuntimeHit != nil && *rec.RuntimeHit,
		Score:         rec.ErrorProximity,
	}

	callerSet := make(map[string]bool)
	for callerQ, caller := range m.Functions {
		for _, c := range caller.Calls {
			if strings.HasSuffix(qname, ":"+c) || name == c {
				callerSet[callerQ] = true
				break
			}
		}
	}
	exp.Callers = sortedKeys(callerSet)

	calleeSet := make(map[string]bool)
	for _, c := range m.Functions[qname].Calls {
		for candidate := range m.Functions {
			if matchesCallee(candidate, c) {
				calleeSet[candidate] = true
			}
		}
	}
	exp.Callees = sortedKeys(calleeSet)

	best := math.Inf(1)
	for _, s := range l.Seeds {
		d := 1.0 - charJaccard(name, codemap.ShortName(s))
		if d < best {
			best = d
		}
	}
	if !math.IsInf(best, 1) {
		rounded := math.Round(best*1000) / 1000
		exp.SeedDistance = &rounded
	}

	return exp
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
