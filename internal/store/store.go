// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store indexes conversion results in a SQLite database so a batch
// can be queried and exported after it has run.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/instruction-engine/pkg/types"
)

const dbFile = "results.db"

// ErrNotFound is returned when no result is stored for a filename.
var ErrNotFound = errors.New("result not found")

// Store manages the result index.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates cfg.Dir/results.db and its schema.
func Open(cfg types.StoreConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, errors.New("store directory not configured")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Batch workers save concurrently; SQLite takes one writer at a time.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			filename TEXT PRIMARY KEY,
			outcome TEXT NOT NULL,
			score INTEGER NOT NULL,
			source_filename TEXT,
			item_count INTEGER NOT NULL,
			converted_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			filename TEXT NOT NULL REFERENCES conversions(filename) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			id TEXT NOT NULL,
			group_name TEXT,
			text TEXT NOT NULL,
			sub_text TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS violations (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			filename TEXT NOT NULL REFERENCES conversions(filename) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			rule TEXT NOT NULL,
			message TEXT,
			critical INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS penalties (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			filename TEXT NOT NULL REFERENCES conversions(filename) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			reason TEXT NOT NULL,
			points INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_filename ON items(filename)`,
		`CREATE INDEX IF NOT EXISTS idx_violations_filename ON violations(filename)`,
		`CREATE INDEX IF NOT EXISTS idx_violations_rule ON violations(rule)`,
		`CREATE INDEX IF NOT EXISTS idx_penalties_filename ON penalties(filename)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_outcome ON conversions(outcome)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores result, replacing any earlier result for the same filename.
func (s *Store) Save(ctx context.Context, result types.ConversionResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM conversions WHERE filename = ?`, result.Filename); err != nil {
		return fmt.Errorf("deleting old result: %w", err)
	}

	items := result.WorkInstructions.Items
	_, err = tx.ExecContext(ctx,
		`INSERT INTO conversions (filename, outcome, score, source_filename, item_count, converted_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		result.Filename, string(result.Outcome()), result.ConversionScore,
		result.WorkInstructions.SourceFilename, len(items),
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting conversion %s: %w", result.Filename, err)
	}

	itemStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO items (filename, position, id, group_name, text, sub_text) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing item insert: %w", err)
	}
	defer itemStmt.Close()
	for i, it := range items {
		if _, err := itemStmt.ExecContext(ctx, result.Filename, i, it.ID, it.GroupName, it.Text, it.SubText); err != nil {
			return fmt.Errorf("inserting item %s: %w", it.ID, err)
		}
	}

	for i, v := range result.RuleViolations {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO violations (filename, position, rule, message, critical) VALUES (?, ?, ?, ?, ?)`,
			result.Filename, i, v.Rule, v.Message, v.Critical)
		if err != nil {
			return fmt.Errorf("inserting violation %q: %w", v.Rule, err)
		}
	}

	for i, p := range result.Penalties {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO penalties (filename, position, reason, points) VALUES (?, ?, ?, ?)`,
			result.Filename, i, p.Reason, p.Points)
		if err != nil {
			return fmt.Errorf("inserting penalty %q: %w", p.Reason, err)
		}
	}

	return tx.Commit()
}
