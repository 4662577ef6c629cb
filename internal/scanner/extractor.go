// Package scanner walks a source tree and builds a CodeMap: one record
// per function definition with the raw callee names that appear in its
// body. Parsing is best effort; a file that will not parse contributes
// nothing and the scan keeps going.
package scanner

import (
	"sort"

	"uf/internal/codemap"
)

// FileResult is the per-file parse result: bare function name to record.
// This is also the unit of cache serialization, so its JSON encoding
// must stay stable across releases.
type FileResult map[string]codemap.FunctionRecord

// Extractor turns one source file into a FileResult. Implementations
// are not required to be thread safe; the scanner creates one per
// worker. Languages other than the built-in Python extractor plug in
// through Register.
type Extractor interface {
	// Language is the tag recorded on the resulting CodeMap.
	Language() string

	// Extract parses source and returns the functions defined in it.
	// filePath is the repo-relative posix path recorded on each record.
	// A syntax or encoding failure must return an empty result and nil
	// error; errors are reserved for extractor-internal faults.
	Extract(filePath string, source []byte) (FileResult, error)
}

type registration struct {
	language   string
	extensions []string
	factory    func() Extractor
}

var registry []registration

// Register adds an extractor factory for a language. Each scan worker
// calls the factory once, so implementations may keep per-instance
// parser state. Called from init in per-language files.
func Register(language string, extensions []string, factory func() Extractor) {
	registry = append(registry, registration{
		language:   language,
		extensions: extensions,
		factory:    factory,
	})
}

// extractorFor returns the registration handling ext, or nil.
func extractorFor(ext string) *registration {
	for i := range registry {
		for _, e := range registry[i].extensions {
			if e == ext {
				return &registry[i]
			}
		}
	}
	return nil
}

// RegisteredExtensions lists every recognized extension, sorted.
func RegisteredExtensions() []string {
	var exts []string
	for _, r := range registry {
		exts = append(exts, r.extensions...)
	}
	sort.Strings(exts)
	return exts
}
