// Package speccache memoizes short-notation parse results in a small
// SQLite table. FluxML documents repeat the identical measurement-group
// specification across many time points; the cache turns repeat
// CheckSpec calls into a single-row lookup.
package speccache

import (
	"database/sql"
	"encoding/hex"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite" // pure Go SQLite driver

	"fluxcore/internal/notation"
)

const schema = `
CREATE TABLE IF NOT EXISTS spec_cache (
	key       TEXT PRIMARY KEY,
	spec      TEXT NOT NULL,
	kind      INTEGER NOT NULL,
	dimension INTEGER NOT NULL,
	created   INTEGER NOT NULL
);`

// Cache is a persistent memoization table in front of the notation
// parsers. Only successful parses are cached; failures are re-parsed so
// the caller always receives the full typed error.
type Cache struct {
	db     *sql.DB
	parser *notation.Parser

	mu     sync.Mutex
	hits   int
	misses int
}

// Open opens (or creates) the cache database at dsn. Use ":memory:" for
// a process-local cache.
func Open(dsn string) (*Cache, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "speccache: open")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "speccache: ping")
	}
	// A single writer keeps the driver's locking out of the picture.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "speccache: create schema")
	}
	return &Cache{db: db, parser: notation.NewParser()}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Stats reports the number of cache hits and misses since Open.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func cacheKey(spec string) string {
	sum := blake2b.Sum256([]byte(spec))
	return hex.EncodeToString(sum[:16])
}

// CheckSpec classifies and parses spec, consulting the cache first.
func (c *Cache) CheckSpec(spec string) (notation.Kind, int, error) {
	key := cacheKey(spec)

	var kind, dimension int
	err := c.db.QueryRow(
		`SELECT kind, dimension FROM spec_cache WHERE key = ?`, key,
	).Scan(&kind, &dimension)
	switch {
	case err == nil:
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return notation.Kind(kind), dimension, nil
	case err != sql.ErrNoRows:
		return notation.KindUnknown, 0, errors.Wrap(err, "speccache: lookup")
	}

	c.mu.Lock()
	c.misses++
	c.mu.Unlock()

	k, dim, perr := c.parser.CheckSpec(spec)
	if perr != nil {
		return k, dim, perr
	}
	if _, err := c.db.Exec(
		`INSERT OR REPLACE INTO spec_cache (key, spec, kind, dimension, created) VALUES (?, ?, ?, ?, ?)`,
		key, spec, int(k), dim, time.Now().Unix(),
	); err != nil {
		return k, dim, errors.Wrap(err, "speccache: store")
	}
	return k, dim, nil
}
