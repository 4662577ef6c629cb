package scanner

import (
	"encoding/json"
	"os"
	"runtime"
	"sync"

	"uf/internal/cachestore"
	"uf/internal/codemap"
	"uf/internal/logging"
)

// Options controls a single scan invocation. Everything is explicit;
// the scanner keeps no global state between scans.
type Options struct {
	// UseCache enables the content cache at CachePath. A cache that
	// cannot be opened downgrades to scanning without one.
	UseCache  bool
	CachePath string

	// Workers bounds the parse pool. Zero or negative means
	// min(4, NumCPU). One means sequential parsing with identical
	// observable results.
	Workers int

	Logger *logging.Logger
}

// DefaultWorkers returns the default parse pool size.
func DefaultWorkers() int {
	if n := runtime.NumCPU(); n < 4 {
		return n
	}
	return 4
}

// workItem is one uncached file headed for the parse pool.
type workItem struct {
	cand   candidate
	sig    cachestore.Signature
	hasSig bool
}

// parsed pairs a work item with its parse result.
type parsed struct {
	item   workItem
	result FileResult
}

// Scan walks root and returns a CodeMap of every function definition it
// can extract. Individual parse failures are silent by contract (debug
// logged only); the scan itself only fails if root is unusable.
func Scan(root string, opts Options) (*codemap.CodeMap, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	cands := discover(root)

	var cache *cachestore.Store
	if opts.UseCache {
		var err error
		cache, err = cachestore.Open(opts.CachePath, logger)
		if err != nil {
			logger.Warn("content cache unavailable, scanning without it", map[string]interface{}{
				"path": opts.CachePath, "error": err.Error(),
			})
			cache = nil
		} else {
			defer func() { _ = cache.Close() }()
		}
	}

	m := codemap.New("python")
	languages := make(map[string]bool)

	// Partition candidates into cache hits (merged immediately) and
	// work for the parse pool.
	var work []workItem
	cacheHits := 0
	for _, c := range cands {
		languages[c.lang.language] = true

		if cache == nil {
			work = append(work, workItem{cand: c})
			continue
		}

		sig, err := cachestore.FileSignature(c.abs)
		if err != nil {
			work = append(work, workItem{cand: c})
			continue
		}
		if data, ok := cache.Lookup(c.rel, sig); ok {
			var fr FileResult
			if err := json.Unmarshal(data, &fr); err == nil {
				mergeResult(m, c.rel, fr)
				cacheHits++
				continue
			}
			logger.Debug("cached result undecodable, re-parsing", map[string]interface{}{
				"path": c.rel, "error": err.Error(),
			})
		}
		work = append(work, workItem{cand: c, sig: sig, hasSig: true})
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}

	// Aggregation happens strictly after the pool joins, in this
	// goroutine, so neither the map nor the cache needs locking.
	for _, p := range parseAll(work, workers, logger) {
		mergeResult(m, p.item.cand.rel, p.result)
		if cache != nil && p.item.hasSig {
			if data, err := json.Marshal(p.result); err == nil {
				cache.Store(p.item.cand.rel, p.item.sig, data)
			}
		}
	}

	switch len(languages) {
	case 0, 1:
		for lang := range languages {
			m.Language = lang
		}
	default:
		m.Language = "multi"
	}

	logger.Info("scan complete", map[string]interface{}{
		"root":      root,
		"files":     len(cands),
		"cached":    cacheHits,
		"parsed":    len(work),
		"functions": len(m.Functions),
	})
	return m, nil
}

// parseAll runs the parse pool: a bounded set of stateless workers, one
// file in, one result out, joined before anything is aggregated. With a
// single worker it degenerates to a sequential loop over the same code
// path.
func parseAll(work []workItem, workers int, logger *logging.Logger) []parsed {
	results := make([]parsed, len(work))
	if len(work) == 0 {
		return results
	}
	if workers > len(work) {
		workers = len(work)
	}

	jobs := make(chan int, len(work))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Tree-sitter parsers are not thread safe; every worker
			// builds its own per language.
			extractors := make(map[string]Extractor)
			for idx := range jobs {
				item := work[idx]
				results[idx] = parsed{item: item, result: parseOne(item.cand, extractors, logger)}
			}
		}()
	}

	for i := range work {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// parseOne parses a single file, returning an empty result on any
// failure. No file ever aborts the scan.
func parseOne(c candidate, extractors map[string]Extractor, logger *logging.Logger) FileResult {
	ex, ok := extractors[c.lang.language]
	if !ok {
		ex = c.lang.factory()
		extractors[c.lang.language] = ex
	}

	source, err := os.ReadFile(c.abs)
	if err != nil {
		logger.Debug("unreadable source file skipped", map[string]interface{}{
			"path": c.rel, "error": err.Error(),
		})
		return FileResult{}
	}

	fr, err := ex.Extract(c.rel, source)
	if err != nil {
		logger.Debug("extraction failed, file skipped", map[string]interface{}{
			"path": c.rel, "error": err.Error(),
		})
		return FileResult{}
	}
	return fr
}

// mergeResult folds a per-file result into the map under deterministic
// qualified names. Collisions overwrite: last write wins.
func mergeResult(m *codemap.CodeMap, rel string, fr FileResult) {
	for name, rec := range fr {
		m.Functions[codemap.QualifiedName(rel, name)] = rec
	}
}
