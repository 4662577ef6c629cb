// Package cachestore persists per-file parse results keyed by file
// identity (path, mtime, size, content hash). A stored entry is reused
// only when all three signature components still match the file on disk,
// so a stale mtime alone forces a re-parse even for identical bytes.
//
// The store is grow-only: entries are overwritten per path but never
// evicted. Every failure path degrades to "nothing cached" so a broken
// or missing store can never fail a scan.
package cachestore

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"uf/internal/errors"
	"uf/internal/logging"
)

// hotEntries bounds the in-process read-through layer, so a re-scan in
// the same process skips SQLite for unchanged files.
const hotEntries = 4096

// Signature identifies a file's state at scan time.
type Signature struct {
	Mtime int64
	Size  int64
	Sha   string
}

// hotEntry pairs a parse result with the signature it was stored under.
// The signature is re-checked on every hit so the hot layer can never
// outlive the all-three-match validity rule.
type hotEntry struct {
	sig    Signature
	result []byte
}

// Store is a SQLite-backed content cache.
type Store struct {
	db      *sql.DB
	logger  *logging.Logger
	hot     *lru.Cache[string, hotEntry]
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// FileSignature computes the (mtime, size, sha256) identity of a file.
func FileSignature(path string) (Signature, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Signature{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Signature{}, err
	}
	sum := sha256.Sum256(data)
	return Signature{
		Mtime: st.ModTime().Unix(),
		Size:  st.Size(),
		Sha:   hex.EncodeToString(sum[:]),
	}, nil
}

// Open opens or creates the cache database at dbPath. The parent
// directory is created if missing. Callers should treat an error as
// "scan without cache", not as fatal.
func Open(dbPath string, logger *logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, errors.Wrap(errors.CacheUnavailable, "cannot create cache directory", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(errors.CacheUnavailable, "cannot open cache database", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(errors.CacheUnavailable, "cannot configure cache database", err)
		}
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS files (
			path  TEXT PRIMARY KEY,
			mtime INTEGER NOT NULL,
			size  INTEGER NOT NULL,
			sha   TEXT NOT NULL,
			data  BLOB NOT NULL
		)
	`); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.CacheUnavailable, "cannot initialize cache schema", err)
	}

	hot, err := lru.New[string, hotEntry](hotEntries)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.InternalError, "cannot create hot cache", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.InternalError, "cannot create zstd encoder", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.InternalError, "cannot create zstd decoder", err)
	}

	return &Store{db: db, logger: logger, hot: hot, encoder: enc, decoder: dec}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Lookup returns the cached parse result for path if the stored
// signature matches sig exactly. Safe for concurrent readers. Any read
// or decode failure is reported as a miss.
func (s *Store) Lookup(path string, sig Signature) ([]byte, bool) {
	if s == nil {
		return nil, false
	}

	if he, ok := s.hot.Get(path); ok && he.sig == sig {
		return he.result, true
	}

	var mtime, size int64
	var sha string
	var data []byte
	err := s.db.QueryRow(
		"SELECT mtime, size, sha, data FROM files WHERE path = ?", path,
	).Scan(&mtime, &size, &sha, &data)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		s.logger.Debug("cache lookup failed, treating as miss", map[string]interface{}{
			"path": path, "error": err.Error(),
		})
		return nil, false
	}

	if mtime != sig.Mtime || size != sig.Size || sha != sig.Sha {
		return nil, false
	}

	result, err := s.decoder.DecodeAll(data, nil)
	if err != nil {
		s.logger.Debug("cache entry corrupt, treating as miss", map[string]interface{}{
			"path": path, "error": err.Error(),
		})
		return nil, false
	}

	s.hot.Add(path, hotEntry{sig: sig, result: result})
	return result, true
}

// Store writes (or overwrites) the parse result for path. Last write
// wins; there is no versioning. Store failures are logged and swallowed
// since the scan result is already in hand.
func (s *Store) Store(path string, sig Signature, result []byte) {
	if s == nil {
		return
	}

	compressed := s.encoder.EncodeAll(result, nil)
	_, err := s.db.Exec(
		"REPLACE INTO files(path, mtime, size, sha, data) VALUES (?, ?, ?, ?, ?)",
		path, sig.Mtime, sig.Size, sig.Sha, compressed,
	)
	if err != nil {
		s.logger.Warn("cache store failed", map[string]interface{}{
			"path": path, "error": err.Error(),
		})
		return
	}
	s.hot.Add(path, hotEntry{sig: sig, result: result})
}

// Len reports the number of persisted entries, for diagnostics.
func (s *Store) Len() (int, error) {
	if s == nil {
		return 0, nil
	}
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM files").Scan(&n); err != nil {
		return 0, fmt.Errorf("cache count failed: %w", err)
	}
	return n, nil
}
