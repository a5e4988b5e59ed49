// Package sigcache persists a compiled callable's canonical signature
// set (the public Signatures map's keys, not the compiled defs —
// those close over Go closures and predicates and cannot survive a
// process restart) across restarts, keyed by engine name and a hash
// of those canonical signature strings.
package sigcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps a sqlite-backed cache of signature sets seen by
// previously compiled engines.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening signature cache %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS signature_sets (
	engine_name TEXT NOT NULL,
	set_hash    TEXT NOT NULL,
	signature   TEXT NOT NULL,
	seen_at     TEXT NOT NULL,
	PRIMARY KEY (engine_name, set_hash, signature)
)`)
	if err != nil {
		return fmt.Errorf("migrating signature cache schema: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Hash computes the stable cache key for a set of signature strings:
// sorted, joined, sha256-hex. Order of the input map iteration must
// never affect the hash, hence the sort.
func Hash(signatures []string) string {
	sorted := append([]string(nil), signatures...)
	sort.Strings(sorted)
	sum := sha256.Sum256([]byte(strings.Join(sorted, "\x00")))
	return hex.EncodeToString(sum[:])
}

// Record stores the canonical signature strings of a just-compiled
// engine under (engineName, Hash(signatures)), so a later process can
// confirm "this exact signature set was built before" without
// recompiling.
func (s *Store) Record(ctx context.Context, engineName string, signatures []string) error {
	hash := Hash(signatures)
	now := time.Now().UTC().Format(time.RFC3339)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("recording signature set: %w", err)
	}
	defer tx.Rollback()

	for _, sig := range signatures {
		if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO signature_sets (engine_name, set_hash, signature, seen_at)
VALUES (?, ?, ?, ?)`, engineName, hash, sig, now); err != nil {
			return fmt.Errorf("recording signature %q: %w", sig, err)
		}
	}
	return tx.Commit()
}

// Seen reports whether the exact signature set (by hash) has already
// been recorded for engineName.
func (s *Store) Seen(ctx context.Context, engineName string, signatures []string) (bool, error) {
	hash := Hash(signatures)
	var count int
	err := s.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM signature_sets WHERE engine_name = ? AND set_hash = ?`,
		engineName, hash).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking signature set: %w", err)
	}
	return count > 0, nil
}

// History returns up to limit distinct (engineName, signature) pairs
// recorded so far, each with its latest seen time, most recently seen
// first.
func (s *Store) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT engine_name, signature, MAX(seen_at) AS last_seen FROM signature_sets
GROUP BY engine_name, signature
ORDER BY last_seen DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying signature history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var h HistoryEntry
		if err := rows.Scan(&h.EngineName, &h.Signature, &h.SeenAt); err != nil {
			return nil, fmt.Errorf("scanning signature history: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// HistoryEntry is one recorded (engine, signature) observation.
type HistoryEntry struct {
	EngineName string
	Signature  string
	SeenAt     string
}
