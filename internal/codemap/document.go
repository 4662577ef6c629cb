package codemap

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"uf/internal/errors"
)

// LoadMap reads a CodeMap document from disk.
//
// A malformed document is a contract violation by whatever produced it,
// so this fails fast with MAP_INVALID instead of degrading.
func LoadMap(path string) (*CodeMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.MapInvalid, "cannot open map document", err)
	}
	defer func() { _ = f.Close() }()
	return ReadMap(f)
}

// ReadMap decodes a CodeMap document from r.
func ReadMap(r io.Reader) (*CodeMap, error) {
	var raw struct {
		Language  *string                    `json:"language"`
		Functions *map[string]FunctionRecord `json:"functions"`
	}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.MapInvalid, "malformed map document", err)
	}
	if raw.Functions == nil {
		return nil, errors.New(errors.MapInvalid, "map document missing required field").WithField("functions")
	}
	m := &CodeMap{Functions: *raw.Functions}
	if raw.Language != nil {
		m.Language = *raw.Language
	}
	if m.Functions == nil {
		m.Functions = make(map[string]FunctionRecord)
	}
	return m, nil
}

// WriteMap writes the CodeMap document to path, creating parent
// directories as needed.
func WriteMap(m *CodeMap, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.InternalError, "cannot create output directory", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(errors.InternalError, "cannot encode map document", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
