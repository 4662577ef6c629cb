package report

import (
	"strings"
	"testing"

	"uf/internal/codemap"
	"uf/internal/lens"
)

func scored(v float64) *float64 { return &v }

func TestTourMarkdown(t *testing.T) {
	l := &lens.Lens{
		Seeds: []string{"charge"},
		Functions: map[string]codemap.FunctionRecord{
			"billing/pay:charge":   {File: "billing/pay.py", ErrorProximity: scored(2.5)},
			"billing/pay:refund":   {File: "billing/pay.py", ErrorProximity: scored(1.0)},
			"app/web:handler":      {File: "app/web.py", ErrorProximity: scored(2.0)},
			"app/db:save":          {File: "app/db.py", ErrorProximity: scored(0.5)},
			"util/strings:slugify": {File: "util/strings.py", ErrorProximity: scored(0.1)},
		},
	}
	md := TourMarkdown(l)

	if !strings.HasPrefix(md, "# 10-minute Task Tour\n") {
		t.Errorf("unexpected header:\n%s", md)
	}
	// Top three distinct files by score: pay (2.5), web (2.0), db (0.5).
	for _, want := range []string{
		"1. `billing/pay.py`",
		"2. `app/web.py`",
		"3. `app/db.py`",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("tour missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "util/strings.py") {
		t.Error("fourth file should be cut")
	}
	if !strings.Contains(md, "charge") {
		t.Error("seeds section missing seed")
	}
}

func TestTourMarkdownUnranked(t *testing.T) {
	// An unranked lens still renders; files tie at zero and fall back
	// to name order.
	l := &lens.Lens{
		Seeds: []string{"f"},
		Functions: map[string]codemap.FunctionRecord{
			"a:f": {File: "a.py"},
		},
	}
	md := TourMarkdown(l)
	if !strings.Contains(md, "`a.py`") {
		t.Errorf("tour missing file:\n%s", md)
	}
}

func TestHotspotsMarkdown(t *testing.T) {
	m := codemap.New("python")
	m.Functions["a:f"] = codemap.FunctionRecord{File: "a.py", Calls: []string{"log", "save"}}
	m.Functions["a:g"] = codemap.FunctionRecord{File: "a.py", Calls: []string{"log"}}
	m.Functions["b:h"] = codemap.FunctionRecord{File: "b.py", Calls: []string{"log", "save"}}

	md := HotspotsMarkdown(m)
	if !strings.Contains(md, "- `log` has 3 inbound calls") {
		t.Errorf("hotspots missing log count:\n%s", md)
	}
	if !strings.Contains(md, "- `save` has 2 inbound calls") {
		t.Errorf("hotspots missing save count:\n%s", md)
	}
	logIdx := strings.Index(md, "`log`")
	saveIdx := strings.Index(md, "`save`")
	if logIdx > saveIdx {
		t.Error("hotspots not ordered by count")
	}
}

func TestWriteDot(t *testing.T) {
	m := codemap.New("python")
	m.Functions["a:f"] = codemap.FunctionRecord{File: "a.py", Calls: []string{"g"}}
	m.Functions["a:g"] = codemap.FunctionRecord{File: "a.py", Calls: []string{}}

	var b strings.Builder
	if err := WriteDot(m, &b); err != nil {
		t.Fatalf("WriteDot: %v", err)
	}
	out := b.String()

	if !strings.HasPrefix(out, "digraph G {\n") || !strings.HasSuffix(out, "}\n") {
		t.Errorf("not a well-formed digraph:\n%s", out)
	}
	for _, want := range []string{
		"  \"a:f\";\n",
		"  \"a:g\";\n",
		"  \"a:f\" -> \"g\";\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dot output missing %q:\n%s", want, out)
		}
	}

	t.Run("deterministic", func(t *testing.T) {
		var b2 strings.Builder
		if err := WriteDot(m, &b2); err != nil {
			t.Fatal(err)
		}
		if b2.String() != out {
			t.Error("output not stable across calls")
		}
	})
}
