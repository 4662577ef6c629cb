package scanner

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Directories that never contain first-party source worth mapping.
var skipDirs = map[string]bool{
	"__pycache__":  true,
	"node_modules": true,
	"vendor":       true,
	"venv":         true,
	"dist":         true,
	"build":        true,
}

// candidate is a discovered source file awaiting parse.
type candidate struct {
	abs  string // absolute path on disk
	rel  string // root-relative posix path, the cache key and File field
	lang *registration
}

// discover enumerates candidate source files under root: recognized
// extension, no hidden path segment, none of the well-known junk dirs.
// Walk errors on individual entries are skipped, not fatal.
func discover(root string) []candidate {
	var found []candidate
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(name, ".") || skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		reg := extractorFor(filepath.Ext(name))
		if reg == nil {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		found = append(found, candidate{
			abs:  path,
			rel:  filepath.ToSlash(rel),
			lang: reg,
		})
		return nil
	})
	return found
}
