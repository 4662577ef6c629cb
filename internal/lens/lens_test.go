package lens

import (
	"fmt"
	"testing"

	"uf/internal/codemap"
)

func mapWith(functions map[string]codemap.FunctionRecord) *codemap.CodeMap {
	m := codemap.New("python")
	for q, rec := range functions {
		m.Functions[q] = rec
	}
	return m
}

func TestBuildSeedMatch(t *testing.T) {
	m := mapWith(map[string]codemap.FunctionRecord{
		"a/file:f": {File: "a/file.py", Calls: []string{"g"}},
		"a/file:g": {File: "a/file.py", Calls: []string{}},
		"b/out:h":  {File: "b/out.py", Calls: []string{}},
	})

	t.Run("one hop pulls in callee", func(t *testing.T) {
		l := Build(m, []string{"f"}, 1)
		if _, ok := l.Functions["a/file:f"]; !ok {
			t.Error("expected seed match a/file:f in lens")
		}
		if _, ok := l.Functions["a/file:g"]; !ok {
			t.Error("expected callee a/file:g pulled in after one hop")
		}
	})

	t.Run("zero hops is seed matches only", func(t *testing.T) {
		l := Build(m, []string{"b/out"}, 0)
		if len(l.Functions) != 1 {
			t.Fatalf("functions = %d, want 1", len(l.Functions))
		}
		if _, ok := l.Functions["b/out:h"]; !ok {
			t.Error("expected b/out:h to match by file fragment")
		}
	})

	t.Run("seed matching is case sensitive", func(t *testing.T) {
		l := Build(m, []string{"FILE"}, 0)
		if len(l.Functions) != 0 {
			t.Errorf("functions = %d, want 0 for non-matching case", len(l.Functions))
		}
	})
}

func TestBuildUpstreamPeers(t *testing.T) {
	// q3 is not matched and not called by anything kept, but it calls
	// the same name a kept function calls, so the peer rule pulls it in.
	m := mapWith(map[string]codemap.FunctionRecord{
		"a:seedfn": {File: "a.py", Calls: []string{"shared"}},
		"b:peer":   {File: "b.py", Calls: []string{"shared"}},
	})
	l := Build(m, []string{"seedfn"}, 1)
	if _, ok := l.Functions["b:peer"]; !ok {
		t.Error("expected upstream peer b:peer pulled in via shared callee")
	}
}

func TestBuildHopMonotonicity(t *testing.T) {
	// A small chain so each hop can add something.
	m := mapWith(map[string]codemap.FunctionRecord{
		"p/a:one":   {File: "p/a.py", Calls: []string{"two"}},
		"p/b:two":   {File: "p/b.py", Calls: []string{"three"}},
		"p/c:three": {File: "p/c.py", Calls: []string{"four"}},
		"p/d:four":  {File: "p/d.py", Calls: []string{}},
	})

	prev := -1
	for h := 0; h <= 4; h++ {
		l := Build(m, []string{"one"}, h)
		if len(l.Functions) < prev {
			t.Fatalf("hop %d shrank lens: %d < %d", h, len(l.Functions), prev)
		}
		prev = len(l.Functions)
	}
}

func TestBuildSeedFallback(t *testing.T) {
	t.Run("small map uses every function", func(t *testing.T) {
		m := mapWith(map[string]codemap.FunctionRecord{
			"x:a": {File: "x.py", Calls: []string{"b", "c"}},
			"x:b": {File: "x.py", Calls: []string{"c"}},
			"x:c": {File: "x.py", Calls: []string{}},
		})
		l := Build(m, nil, 0)
		if len(l.Seeds) != 3 {
			t.Errorf("seeds = %d, want 3 (min(10, map size))", len(l.Seeds))
		}
	})

	t.Run("large map caps at ten", func(t *testing.T) {
		m := codemap.New("python")
		for i := 0; i < 25; i++ {
			q := fmt.Sprintf("m/f%02d:fn%02d", i, i)
			m.Functions[q] = codemap.FunctionRecord{File: "m.py", Calls: make([]string, i)}
		}
		l := Build(m, nil, 0)
		if len(l.Seeds) != 10 {
			t.Errorf("seeds = %d, want 10", len(l.Seeds))
		}
	})

	t.Run("fallback prefers most outbound calls", func(t *testing.T) {
		m := mapWith(map[string]codemap.FunctionRecord{
			"x:busy":  {File: "x.py", Calls: []string{"a", "b", "c"}},
			"x:quiet": {File: "x.py", Calls: []string{}},
		})
		l := Build(m, nil, 0)
		if l.Seeds[0] != "x:busy" {
			t.Errorf("first fallback seed = %q, want x:busy", l.Seeds[0])
		}
	})
}

func TestBuildEmptyInputs(t *testing.T) {
	t.Run("empty map", func(t *testing.T) {
		l := Build(codemap.New("python"), []string{"anything"}, 3)
		if len(l.Functions) != 0 {
			t.Errorf("functions = %d, want 0", len(l.Functions))
		}
	})

	t.Run("unmatched seeds", func(t *testing.T) {
		m := mapWith(map[string]codemap.FunctionRecord{
			"x:a": {File: "x.py", Calls: []string{}},
		})
		l := Build(m, []string{"zzz"}, 2)
		if len(l.Functions) != 0 {
			t.Errorf("functions = %d, want 0", len(l.Functions))
		}
	})
}

func TestBuildDoesNotMutateMap(t *testing.T) {
	m := mapWith(map[string]codemap.FunctionRecord{
		"x:a": {File: "x.py", Calls: []string{"b"}},
		"x:b": {File: "x.py", Calls: []string{}},
	})
	l := Build(m, []string{"a"}, 1)
	Rank(l)
	for q, rec := range m.Functions {
		if rec.ErrorProximity != nil || rec.RuntimeHit != nil {
			t.Errorf("source map record %s was mutated", q)
		}
	}
}
