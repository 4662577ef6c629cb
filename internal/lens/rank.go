package lens

import (
	"math"

	"uf/internal/codemap"
)

// Rank scores every function in the lens by error proximity: a coarse
// proxy for "how relevant is this to what the seeds describe". It is a
// heuristic, not a validated relevance model; resist the urge to make
// it precise.
//
// Per function, starting from zero:
//   - +2.0 when any seed is a substring of the qualified name
//   - +1.5 when the function has a runtime hit
//   - +0.5 x character-set Jaccard between the short name and each
//     seed's short name
//
// Scores are rounded to 3 decimals. Deterministic and idempotent.
func Rank(l *Lens) {
	for q, rec := range l.Functions {
		name := codemap.ShortName(q)
		score := 0.0
		if anySubstring(l.Seeds, q) {
			score += 2.0
		}
		if rec.RuntimeHit != nil && *rec.RuntimeHit {
			score += 1.5
		}
		for _, s := range l.Seeds {
			score += 0.5 * charJaccard(name, codemap.ShortName(s))
		}
		rounded := math.Round(score*1000) / 1000
		rec.ErrorProximity = &rounded
		l.Functions[q] = rec
	}
}

// charJaccard computes |A∩B| / |A∪B| over the rune sets of two names.
// An empty union counts as denominator 1, scoring two empty names 0.
func charJaccard(a, b string) float64 {
	setA := runeSet(a)
	setB := runeSet(b)

	union := len(setB)
	inter := 0
	for r := range setA {
		if setB[r] {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		union = 1
	}
	return float64(inter) / float64(union)
}

func runeSet(s string) map[rune]bool {
	set := make(map[rune]bool, len(s))
	for _, r := range s {
		set[r] = true
	}
	return set
}
