package scanner

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"uf/internal/codemap"
)

// writeTree materializes a map of relative path to file content under a
// fresh temp dir and returns its root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestScanBasic(t *testing.T) {
	root := writeTree(t, map[string]string{
		"app/web.py": "def handler(req):\n    data = parse(req)\n    save(data)\n\n\ndef parse(req):\n    return req\n",
		"app/db.py":  "def save(data):\n    pass\n",
	})

	m, err := Scan(root, Options{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if m.Language != "python" {
		t.Errorf("language = %q, want python", m.Language)
	}
	if len(m.Functions) != 3 {
		t.Fatalf("functions = %d, want 3: %v", len(m.Functions), keysOf(m))
	}

	rec, ok := m.Functions["app/web:handler"]
	if !ok {
		t.Fatal("missing app/web:handler")
	}
	if rec.File != "app/web.py" {
		t.Errorf("file = %q, want app/web.py", rec.File)
	}
	if !reflect.DeepEqual(rec.Calls, []string{"parse", "save"}) {
		t.Errorf("calls = %v, want [parse save]", rec.Calls)
	}

	if rec := m.Functions["app/db:save"]; len(rec.Calls) != 0 {
		t.Errorf("save calls = %v, want none", rec.Calls)
	}
}

func TestScanSyntaxErrorFileContributesNothing(t *testing.T) {
	root := writeTree(t, map[string]string{
		"good.py":   "def fine():\n    pass\n",
		"broken.py": "def broken(:\n    this is not python at all ((\n",
	})

	m, err := Scan(root, Options{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if _, ok := m.Functions["good:fine"]; !ok {
		t.Error("healthy file should still be mapped")
	}
	for q := range m.Functions {
		if codemap.ShortName(q) == "broken" {
			t.Errorf("syntax-error file leaked function %s", q)
		}
	}
}

func TestScanSkipsJunk(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/main.py":                 "def main():\n    pass\n",
		"src/__pycache__/cached.py":   "def ghost():\n    pass\n",
		"node_modules/dep/lib.py":     "def ghost():\n    pass\n",
		".hidden/secret.py":           "def ghost():\n    pass\n",
		"src/.hidden.py":              "def ghost():\n    pass\n",
		"src/readme.txt":              "def ghost():\n    pass\n",
		"venv/lib/site_packages/x.py": "def ghost():\n    pass\n",
	})

	m, err := Scan(root, Options{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(m.Functions) != 1 {
		t.Errorf("functions = %v, want only src/main:main", keysOf(m))
	}
	if _, ok := m.Functions["src/main:main"]; !ok {
		t.Error("missing src/main:main")
	}
}

func TestScanMissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"), Options{})
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestScanEmptyRoot(t *testing.T) {
	m, err := Scan(t.TempDir(), Options{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(m.Functions) != 0 {
		t.Errorf("functions = %v, want none", keysOf(m))
	}
}

func TestScanWorkerCountEquivalence(t *testing.T) {
	files := make(map[string]string)
	files["pkg/a.py"] = "def one():\n    two()\n\n\ndef two():\n    pass\n"
	files["pkg/b.py"] = "def three():\n    one()\n    two()\n"
	files["pkg/c.py"] = "def four():\n    helper.run()\n"
	root := writeTree(t, files)

	sequential, err := Scan(root, Options{Workers: 1})
	if err != nil {
		t.Fatalf("Scan workers=1: %v", err)
	}
	parallel, err := Scan(root, Options{Workers: 4})
	if err != nil {
		t.Fatalf("Scan workers=4: %v", err)
	}
	if !reflect.DeepEqual(sequential.Functions, parallel.Functions) {
		t.Errorf("worker count changed scan output:\n1: %v\n4: %v",
			sequential.Functions, parallel.Functions)
	}
}

func TestScanCacheReuse(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py": "def f():\n    g()\n\n\ndef g():\n    pass\n",
	})
	cachePath := filepath.Join(t.TempDir(), "cache.sqlite")
	opts := Options{UseCache: true, CachePath: cachePath}

	first, err := Scan(root, opts)
	if err != nil {
		t.Fatalf("first scan: %v", err)
	}
	second, err := Scan(root, opts)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if !reflect.DeepEqual(first.Functions, second.Functions) {
		t.Errorf("cached scan differs:\nfirst: %v\nsecond: %v",
			first.Functions, second.Functions)
	}
}

func TestScanCacheInvalidation(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py": "def old_name():\n    pass\n",
	})
	cachePath := filepath.Join(t.TempDir(), "cache.sqlite")
	opts := Options{UseCache: true, CachePath: cachePath}

	if _, err := Scan(root, opts); err != nil {
		t.Fatalf("first scan: %v", err)
	}

	path := filepath.Join(root, "a.py")
	if err := os.WriteFile(path, []byte("def new_name():\n    pass\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Force a visible mtime change even on coarse filesystem clocks.
	bumped := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, bumped, bumped); err != nil {
		t.Fatal(err)
	}

	m, err := Scan(root, opts)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if _, ok := m.Functions["a:new_name"]; !ok {
		t.Errorf("stale cache served old content: %v", keysOf(m))
	}
	if _, ok := m.Functions["a:old_name"]; ok {
		t.Error("old function survived content change")
	}
}

func TestScanUnusableCacheDegrades(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py": "def f():\n    pass\n",
	})
	// A directory where the database file should be makes Open fail.
	cachePath := t.TempDir()

	m, err := Scan(root, Options{UseCache: true, CachePath: cachePath})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if _, ok := m.Functions["a:f"]; !ok {
		t.Error("scan should proceed without a usable cache")
	}
}

func TestDefaultWorkers(t *testing.T) {
	n := DefaultWorkers()
	if n < 1 || n > 4 {
		t.Errorf("DefaultWorkers = %d, want 1..4", n)
	}
}

func TestRegisteredExtensions(t *testing.T) {
	exts := RegisteredExtensions()
	found := false
	for _, e := range exts {
		if e == ".py" {
			found = true
		}
	}
	if !found {
		t.Errorf("extensions %v missing .py", exts)
	}
}

func keysOf(m *codemap.CodeMap) []string {
	var keys []string
	for q := range m.Functions {
		keys = append(keys, q)
	}
	return keys
}
