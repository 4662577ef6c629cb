package report

import (
	"fmt"
	"io"
	"sort"

	"uf/internal/codemap"
)

// WriteDot renders the raw call edges of a map as a Graphviz digraph.
// Edges point at unresolved callee names, so a target node may not be a
// defined function. Output is sorted for stable diffs.
func WriteDot(m *codemap.CodeMap, w io.Writer) error {
	names := make([]string, 0, len(m.Functions))
	for q := range m.Functions {
		names = append(names, q)
	}
	sort.Strings(names)

	if _, err := fmt.Fprintln(w, "digraph G {"); err != nil {
		return err
	}
	for _, q := range names {
		if _, err := fmt.Fprintf(w, "  %q;\n", q); err != nil {
			return err
		}
	}
	for _, q := range names {
		for _, callee := range m.Functions[q].Calls {
			if _, err := fmt.Fprintf(w, "  %q -> %q;\n", q, callee); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}
