package indexdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"minipak.dev/internal/minipak"
)

// Ledger records every successful conversion so slot assignments can be
// audited across runs.
type Ledger struct {
	db *sql.DB
}

type SlotRow struct {
	World int
	Index int
	Name  string
	Slot  int
}

func OpenSQLite(path string) (*Ledger, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Ledger{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			run_id TEXT PRIMARY KEY,
			pak_id TEXT NOT NULL,
			pak_name TEXT NOT NULL,
			worlds INTEGER NOT NULL,
			stages INTEGER NOT NULL,
			digest TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_pak ON conversions(pak_id, created_at);`,
		`CREATE TABLE IF NOT EXISTS stages (
			run_id TEXT NOT NULL REFERENCES conversions(run_id) ON DELETE CASCADE,
			world INTEGER NOT NULL,
			idx INTEGER NOT NULL,
			name TEXT NOT NULL,
			save_slot INTEGER NOT NULL,
			bytes INTEGER NOT NULL,
			PRIMARY KEY (run_id, world, idx)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// RecordBuild stores one conversion and its stages in a single transaction.
func (l *Ledger) RecordBuild(ctx context.Context, runID, digest string, b *minipak.Build) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO conversions(run_id,pak_id,pak_name,worlds,stages,digest,created_at) VALUES(?,?,?,?,?,?,?)`,
		runID, b.PakID, b.PakName, len(b.Worlds), b.StageCount, digest,
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert conversion: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO stages(run_id,world,idx,name,save_slot,bytes) VALUES(?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, w := range b.Worlds {
		for _, st := range w {
			if _, err := stmt.ExecContext(ctx, runID, st.World, st.Index, st.Name, st.Slot, len(st.Encoded.Text)); err != nil {
				return fmt.Errorf("insert stage %q: %w", st.Name, err)
			}
		}
	}
	return tx.Commit()
}

// SlotsForPak lists the stage slots of the most recent conversion of pakID.
func (l *Ledger) SlotsForPak(ctx context.Context, pakID string) ([]SlotRow, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT s.world, s.idx, s.name, s.save_slot FROM stages s
		WHERE s.run_id = (
			SELECT run_id FROM conversions WHERE pak_id = ?
			ORDER BY created_at DESC, rowid DESC LIMIT 1
		)
		ORDER BY s.world, s.idx`, pakID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SlotRow
	for rows.Next() {
		var r SlotRow
		if err := rows.Scan(&r.World, &r.Index, &r.Name, &r.Slot); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
