package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"minipak.dev/internal/persistence/archive"
	"minipak.dev/internal/persistence/indexdb"
)

func main() {
	var (
		archivePath = flag.String("archive", "", "path to .json.zst build archive")
		docPath     = flag.String("doc", "", "level document to check against the archive (optional)")
		dbPath      = flag.String("db", "", "conversion ledger to compare save slots with (optional)")
	)
	flag.Parse()

	if *archivePath == "" {
		fmt.Fprintln(os.Stderr, "missing -archive")
		os.Exit(2)
	}

	m, err := archive.ReadManifest(*archivePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read archive:", err)
		os.Exit(1)
	}
	fmt.Printf("archive v%d run=%s pak=%s name=%q worlds=%d stages=%d created=%s\n",
		m.Header.Version, m.Header.RunID, m.Header.PakID, m.PakName, m.Worlds, len(m.Stages), m.CreatedAt)

	if *docPath != "" {
		if err := verifyDocument(m, *docPath); err != nil {
			fmt.Fprintln(os.Stderr, "verify document:", err)
			os.Exit(1)
		}
		fmt.Println("document ok: digest", m.Header.Digest)
	}

	if *dbPath != "" {
		if err := verifySlots(m, *dbPath); err != nil {
			fmt.Fprintln(os.Stderr, "verify slots:", err)
			os.Exit(1)
		}
		fmt.Printf("slots ok: %d stage(s)\n", len(m.Stages))
	}
}

func verifyDocument(m archive.Manifest, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if got := archive.Digest(string(b)); got != m.Header.Digest {
		return fmt.Errorf("digest mismatch: got=%s want=%s", got, m.Header.Digest)
	}
	return nil
}

// verifySlots checks the archive against the latest ledger run for its pak.
func verifySlots(m archive.Manifest, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	ledger, err := indexdb.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer ledger.Close()

	rows, err := ledger.SlotsForPak(context.Background(), m.Header.PakID)
	if err != nil {
		return err
	}
	if len(rows) != len(m.Stages) {
		return fmt.Errorf("ledger has %d stage(s), archive has %d", len(rows), len(m.Stages))
	}
	for i, r := range rows {
		st := m.Stages[i]
		if r.World != st.World || r.Index != st.Index || r.Slot != st.Slot {
			return fmt.Errorf("stage %d/%d %q: ledger slot %d, archive slot %d", st.World+1, st.Index+1, st.Name, r.Slot, st.Slot)
		}
	}
	return nil
}
