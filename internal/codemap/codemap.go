// Package codemap defines the CodeMap document: one record per analyzed
// function, keyed by qualified name. The map is built once per scan and
// is read-only afterwards; downstream stages work on Lens views.
package codemap

import (
	"path/filepath"
	"strings"
)

// FunctionRecord is one entry per analyzed function definition.
//
// Calls holds raw callee names in call-site order, duplicates included.
// They are unresolved: a name is whatever textually appeared at the call
// site, with no guarantee it refers to the record it happens to match.
// RuntimeHit and ErrorProximity stay nil until a trace merge or ranking
// pass sets them; they only ever appear on Lens views, never on the map
// a scan returned.
type FunctionRecord struct {
	File           string   `json:"file"`
	Calls          []string `json:"calls"`
	RuntimeHit     *bool    `json:"runtime_hit,omitempty"`
	ErrorProximity *float64 `json:"error_proximity,omitempty"`
}

// CodeMap is the aggregate result of one scan.
type CodeMap struct {
	Language  string                    `json:"language"`
	Functions map[string]FunctionRecord `json:"functions"`
}

// New returns an empty CodeMap for the given language tag.
func New(language string) *CodeMap {
	return &CodeMap{
		Language:  language,
		Functions: make(map[string]FunctionRecord),
	}
}

// QualifiedName derives the unique key for a function: the file path
// without its extension (forward slashes) joined to the function name
// with a colon. Two same-named definitions in one file collide; the
// later one wins, matching scan merge order.
func QualifiedName(file, function string) string {
	rel := strings.TrimSuffix(file, filepath.Ext(file))
	rel = filepath.ToSlash(rel)
	return rel + ":" + function
}

// ShortName returns the last ":"-delimited segment of a qualified name.
func ShortName(qualified string) string {
	if i := strings.LastIndex(qualified, ":"); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
