package lens

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"uf/internal/codemap"
	"uf/internal/errors"
)

// lensDocument is the interchange shape: the seeds live under a "lens"
// wrapper, functions and runtime at the top level. Stable contract;
// alternate front-ends only need to emit this shape to reuse the engine.
type lensDocument struct {
	Lens struct {
		Seeds []string `json:"seeds"`
	} `json:"lens"`
	Functions map[string]codemap.FunctionRecord `json:"functions"`
	Runtime   *RuntimeInfo                      `json:"runtime,omitempty"`
}

// LoadLens reads a Lens document, failing fast on malformed input:
// lens documents are produced by a prior pipeline stage, so a bad one
// is an upstream bug rather than a transient condition.
func LoadLens(path string) (*Lens, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.LensInvalid, "cannot open lens document", err)
	}
	defer func() { _ = f.Close() }()
	return ReadLens(f)
}

// ReadLens decodes a Lens document from r.
func ReadLens(r io.Reader) (*Lens, error) {
	var raw struct {
		Lens *struct {
			Seeds []string `json:"seeds"`
		} `json:"lens"`
		Functions *map[string]codemap.FunctionRecord `json:"functions"`
		Runtime   *RuntimeInfo                       `json:"runtime"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.LensInvalid, "malformed lens document", err)
	}
	if raw.Lens == nil {
		return nil, errors.New(errors.LensInvalid, "lens document missing required field").WithField("lens")
	}
	if raw.Functions == nil {
		return nil, errors.New(errors.LensInvalid, "lens document missing required field").WithField("functions")
	}
	l := &Lens{
		Seeds:     raw.Lens.Seeds,
		Functions: *raw.Functions,
		Runtime:   raw.Runtime,
	}
	if l.Functions == nil {
		l.Functions = make(map[string]codemap.FunctionRecord)
	}
	return l, nil
}

// WriteLens writes the Lens document to path, creating parent
// directories as needed.
func WriteLens(l *Lens, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.InternalError, "cannot create output directory", err)
	}
	doc := lensDocument{
		Functions: l.Functions,
		Runtime:   l.Runtime,
	}
	doc.Lens.Seeds = l.Seeds
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.InternalError, "cannot encode lens document", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// LoadTrace reads a Trace document. Missing or malformed fields fail
// fast with TRACE_INVALID; an empty event list is fine.
func LoadTrace(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.TraceInvalid, "cannot open trace document", err)
	}
	defer func() { _ = f.Close() }()
	return ReadTrace(f)
}

// ReadTrace decodes a Trace document from r.
func ReadTrace(r io.Reader) (*Trace, error) {
	var raw struct {
		Events      *[]TraceEvent `json:"events"`
		DurationSec float64       `json:"duration_sec"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.TraceInvalid, "malformed trace document", err)
	}
	if raw.Events == nil {
		return nil, errors.New(errors.TraceInvalid, "trace document missing required field").WithField("events")
	}
	return &Trace{Events: *raw.Events, DurationSec: raw.DurationSec}, nil
}
