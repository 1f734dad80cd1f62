// Package storage persists block sets in a SQLite database.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/yacobolo/vpcss/internal/editor"
	"github.com/yacobolo/vpcss/internal/style"
	"github.com/yacobolo/vpcss/internal/viewport"
)

// ErrNotFound is returned when no block has the requested id.
var ErrNotFound = errors.New("block not found")

// DB wraps the SQLite database connection.
type DB struct {
	conn *sql.DB
}

var _ editor.Persister = (*DB)(nil)

// Open opens (or creates) the SQLite file at path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	conn, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer at a time
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS blocks (
			id TEXT PRIMARY KEY,
			saves_json TEXT NOT NULL DEFAULT '{}',
			changes_json TEXT NOT NULL DEFAULT '{}',
			removes_json TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_blocks_updated ON blocks(updated_at)`,
	}
	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Put inserts or replaces block b.
func (db *DB) Put(ctx context.Context, b editor.Block) error {
	if b.ID == "" {
		return errors.New("put block: empty id")
	}
	saves, err := encodeSet(b.Saves)
	if err != nil {
		return fmt.Errorf("encode saves: %w", err)
	}
	changes, err := encodeSet(b.Changes)
	if err != nil {
		return fmt.Errorf("encode changes: %w", err)
	}
	removes, err := encodeSet(b.Removes)
	if err != nil {
		return fmt.Errorf("encode removes: %w", err)
	}
	now := time.Now()
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO blocks (id, saves_json, changes_json, removes_json, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET saves_json = excluded.saves_json, changes_json = excluded.changes_json,
		 removes_json = excluded.removes_json, updated_at = excluded.updated_at`,
		b.ID, saves, changes, removes, now, now,
	)
	if err != nil {
		return fmt.Errorf("put block %s: %w", b.ID, err)
	}
	return nil
}

// Get returns the block with id.
func (db *DB) Get(ctx context.Context, id string) (editor.Block, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, saves_json, changes_json, removes_json FROM blocks WHERE id = ?`, id)
	b, err := scanBlock(row)
	if errors.Is(err, sql.ErrNoRows) {
		return editor.Block{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return editor.Block{}, fmt.Errorf("get block: %w", err)
	}
	return b, nil
}

// List returns every block ordered by id.
func (db *DB) List(ctx context.Context) ([]editor.Block, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, saves_json, changes_json, removes_json FROM blocks ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []editor.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

// Delete removes the block with id.
func (db *DB) Delete(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM blocks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete block: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBlock(s scanner) (editor.Block, error) {
	var b editor.Block
	var saves, changes, removes string
	if err := s.Scan(&b.ID, &saves, &changes, &removes); err != nil {
		return editor.Block{}, err
	}
	var err error
	if b.Saves, err = decodeSet(saves); err != nil {
		return editor.Block{}, fmt.Errorf("decode saves of %s: %w", b.ID, err)
	}
	if b.Changes, err = decodeSet(changes); err != nil {
		return editor.Block{}, fmt.Errorf("decode changes of %s: %w", b.ID, err)
	}
	if b.Removes, err = decodeSet(removes); err != nil {
		return editor.Block{}, fmt.Errorf("decode removes of %s: %w", b.ID, err)
	}
	return b, nil
}

func encodeSet(s viewport.Set) (string, error) {
	if s == nil {
		s = viewport.Set{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeSet reads a set column, turning nested objects back into trees.
func decodeSet(text string) (viewport.Set, error) {
	var raw map[int]map[int]map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, err
	}
	out := viewport.Set{}
	for bp, ranges := range raw {
		for r, t := range ranges {
			tree, _ := style.AsTree(style.Normalize(t))
			out.Put(viewport.Address{Breakpoint: bp, Range: r}, tree)
		}
	}
	return out, nil
}
