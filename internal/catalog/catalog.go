// Package catalog publishes a verified derived dataset into SQLite for
// read-only consumers. A publish replaces the whole catalog, matching the
// dataset lifecycle: records are never patched in place.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"codex/internal/node"
	"codex/internal/verify"
)

// nowUTC returns the current UTC time as an ISO 8601 string.
func nowUTC() string { return time.Now().UTC().Format(time.RFC3339) }

// Entry is one catalogued record.
type Entry struct {
	Position    int
	NodeID      int
	Name        string
	LockHash    string
	PublishedAt string
	Record      *node.Record
}

// Catalog is a SQLite-backed node catalog.
type Catalog struct {
	db *sql.DB
}

// Open opens or creates a catalog at path and runs migrations.
// Creates the parent directory if it does not exist.
func Open(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create catalog dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return open(db)
}

// OpenExisting opens a catalog that must already exist at path. Unlike
// Open it never creates a file or directory; a missing catalog gives an
// error matching os.ErrNotExist.
func OpenExisting(path string) (*Catalog, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("catalog not found at %s: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("stat catalog: %w", err)
	}
	return Open(path)
}

// OpenMemory returns a catalog held in memory, for tests and dry runs.
func OpenMemory() (*Catalog, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Every pooled connection would get its own empty database.
	db.SetMaxOpenConns(1)
	return open(db)
}

func open(db *sql.DB) (*Catalog, error) {
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	c := &Catalog{db: db}
	if err := c.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Catalog) migrate() error {
	var tableCount int
	err := c.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableCount == 0 {
		return c.freshInstall()
	}

	var v int
	err = c.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return c.freshInstall()
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if v != currentSchemaVersion {
		return fmt.Errorf("unknown schema version %d", v)
	}
	return nil
}

func (c *Catalog) freshInstall() error {
	if _, err := c.db.Exec(schemaV1); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := c.db.Exec("INSERT INTO schema_version(version) VALUES(?)", currentSchemaVersion); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	return nil
}

// Close releases the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Replace swaps the catalog contents for recs in one transaction. Records
// are verified first; any hash mismatch aborts with an error matching
// verify.ErrIntegrity and leaves the catalog unchanged.
func (c *Catalog) Replace(ctx context.Context, recs []*node.Record) (int, error) {
	res, err := verify.Records(recs)
	if err != nil {
		return 0, err
	}
	if err := res.Err(); err != nil {
		return 0, err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM nodes"); err != nil {
		return 0, fmt.Errorf("clear nodes: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO nodes(position, node_id, name, lock_hash, payload, published_at) VALUES(?, ?, ?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := nowUTC()
	for i, r := range recs {
		payload, err := node.Marshal(r, node.Compact)
		if err != nil {
			return 0, fmt.Errorf("encode record %d: %w", i, err)
		}
		id, _ := r.NodeID()
		name, _ := r.String("name")
		hash, _ := r.String(node.HashField)
		if _, err := stmt.ExecContext(ctx, i, id, name, hash, string(payload), now); err != nil {
			return 0, fmt.Errorf("insert node %d: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(recs), nil
}

const selectEntry = "SELECT position, node_id, name, lock_hash, payload, published_at FROM nodes"

// Get returns the first entry with nodeID in dataset order, or nil if none.
func (c *Catalog) Get(ctx context.Context, nodeID int) (*Entry, error) {
	row := c.db.QueryRowContext(ctx, selectEntry+" WHERE node_id = ? ORDER BY position LIMIT 1", nodeID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get node %d: %w", nodeID, err)
	}
	return e, nil
}

// List returns every entry in dataset order.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, selectEntry+" ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list nodes: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	var e Entry
	var payload string
	if err := s.Scan(&e.Position, &e.NodeID, &e.Name, &e.LockHash, &payload, &e.PublishedAt); err != nil {
		return nil, err
	}
	e.Record = node.New()
	if err := e.Record.UnmarshalJSON([]byte(payload)); err != nil {
		return nil, fmt.Errorf("decode payload of node %d: %w", e.NodeID, err)
	}
	return &e, nil
}
