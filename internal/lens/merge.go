package lens

import (
	"uf/internal/codemap"
)

// TraceEvent is one runtime call event. Func carries the short function
// name as the instrumentation saw it.
type TraceEvent struct {
	Type string `json:"type"`
	Func string `json:"func"`
	File string `json:"file"`
}

// Trace is an ordered, append-only runtime call log, consumed once.
type Trace struct {
	Events      []TraceEvent `json:"events"`
	DurationSec float64      `json:"duration_sec"`
}

// Merge overlays a trace onto the lens, marking a function as runtime
// hit when its short name or full qualified name appears in the trace's
// hit set, and records the hit-set size. Mutates and returns l.
//
// Idempotent: RuntimeHit only ever flips false to true, and HitCount
// depends only on the trace.
func Merge(l *Lens, t *Trace) *Lens {
	hits := make(map[string]bool, len(t.Events))
	for _, ev := range t.Events {
		if ev.Func != "" {
			hits[ev.Func] = true
		}
	}

	for q, rec := range l.Functions {
		if hits[codemap.ShortName(q)] || hits[q] {
			hit := true
			rec.RuntimeHit = &hit
			l.Functions[q] = rec
		}
	}

	l.Runtime = &RuntimeInfo{HitCount: len(hits)}
	return l
}
