package indexdb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"minipak.dev/internal/minipak"
	"minipak.dev/internal/stage"
)

func build(slots ...int) *minipak.Build {
	b := &minipak.Build{PakID: "cart", PakName: "Cart", Worlds: [][]minipak.StageBuild{nil}}
	for i, s := range slots {
		b.Worlds[0] = append(b.Worlds[0], minipak.StageBuild{
			World: 0, Index: i, Name: "s", Slot: s,
			Encoded: &stage.Encoded{Text: "0123"},
		})
		b.StageCount++
	}
	return b
}

func TestLedger_RecordBuild(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger", "minipak.db")

	l, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := l.RecordBuild(ctx, "run-1", "d1", build(3, 7)); err != nil {
		t.Fatalf("RecordBuild: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	var (
		pak    string
		stages int
		digest string
		bytes  int
	)
	if err := db.QueryRow(`SELECT pak_id,stages,digest FROM conversions WHERE run_id='run-1'`).Scan(&pak, &stages, &digest); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if pak != "cart" || stages != 2 || digest != "d1" {
		t.Fatalf("row mismatch: pak=%q stages=%d digest=%q", pak, stages, digest)
	}
	if err := db.QueryRow(`SELECT bytes FROM stages WHERE run_id='run-1' AND idx=1`).Scan(&bytes); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if bytes != 4 {
		t.Fatalf("bytes=%d want 4", bytes)
	}
}

func TestLedger_SlotsForPakUsesLatestRun(t *testing.T) {
	ctx := context.Background()
	l, err := OpenSQLite(filepath.Join(t.TempDir(), "minipak.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer l.Close()

	if err := l.RecordBuild(ctx, "run-1", "d1", build(3, 7)); err != nil {
		t.Fatalf("RecordBuild: %v", err)
	}
	if err := l.RecordBuild(ctx, "run-2", "d2", build(8)); err != nil {
		t.Fatalf("RecordBuild: %v", err)
	}
	rows, err := l.SlotsForPak(ctx, "cart")
	if err != nil {
		t.Fatalf("SlotsForPak: %v", err)
	}
	if len(rows) != 1 || rows[0].Slot != 8 {
		t.Fatalf("rows=%+v want one row with slot 8", rows)
	}

	if rows, err := l.SlotsForPak(ctx, "other"); err != nil || len(rows) != 0 {
		t.Fatalf("other pak rows=%+v err=%v", rows, err)
	}
}

func TestLedger_DuplicateRunRejected(t *testing.T) {
	ctx := context.Background()
	l, err := OpenSQLite(filepath.Join(t.TempDir(), "minipak.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer l.Close()

	if err := l.RecordBuild(ctx, "run-1", "d1", build(1)); err != nil {
		t.Fatalf("RecordBuild: %v", err)
	}
	if err := l.RecordBuild(ctx, "run-1", "d1", build(2)); err == nil {
		t.Fatalf("expected duplicate run id error")
	}
	rows, err := l.SlotsForPak(ctx, "cart")
	if err != nil || len(rows) != 1 || rows[0].Slot != 1 {
		t.Fatalf("rows=%+v err=%v", rows, err)
	}
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	if _, err := OpenSQLite(""); err == nil {
		t.Fatalf("expected error")
	}
}
