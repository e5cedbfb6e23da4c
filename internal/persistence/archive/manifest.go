package archive

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"minipak.dev/internal/minipak"
	"minipak.dev/internal/stage"
)

const Version = 1

var ErrCorrupt = errors.New("corrupt build archive")

type Header struct {
	Version int    `json:"version"`
	RunID   string `json:"run_id"`
	PakID   string `json:"pak_id"`
	// Digest is the hex SHA-256 of the level document.
	Digest string `json:"digest"`
}

type StageEntry struct {
	World int    `json:"world"`
	Index int    `json:"index"`
	Name  string `json:"name"`
	Slot  int    `json:"save_slot"`
	Text  string `json:"text"`
}

// Manifest is everything needed to audit a build without the source pak.
type Manifest struct {
	Header Header `json:"header"`

	PakName          string       `json:"pak_name"`
	BeatRequirements string       `json:"beat_requirements"`
	Worlds           int          `json:"worlds"`
	Stages           []StageEntry `json:"stages"`
	CreatedAt        string       `json:"created_at"`
}

func Digest(doc string) string {
	sum := sha256.Sum256([]byte(doc))
	return hex.EncodeToString(sum[:])
}

func NewManifest(runID string, b *minipak.Build) Manifest {
	m := Manifest{
		Header: Header{
			Version: Version,
			RunID:   runID,
			PakID:   b.PakID,
			Digest:  Digest(b.LevelDocument()),
		},
		PakName:          b.PakName,
		BeatRequirements: b.BeatRequirements,
		Worlds:           len(b.Worlds),
		Stages:           make([]StageEntry, 0, b.StageCount),
		CreatedAt:        time.Now().UTC().Format(time.RFC3339Nano),
	}
	for _, w := range b.Worlds {
		for _, st := range w {
			m.Stages = append(m.Stages, StageEntry{
				World: st.World,
				Index: st.Index,
				Name:  st.Name,
				Slot:  st.Slot,
				Text:  st.Encoded.Text,
			})
		}
	}
	return m
}

// LevelDocument rebuilds the level document from the archived stage texts.
func (m Manifest) LevelDocument() string {
	b := &minipak.Build{
		PakID:            m.Header.PakID,
		PakName:          m.PakName,
		BeatRequirements: m.BeatRequirements,
		Worlds:           make([][]minipak.StageBuild, m.Worlds),
		StageCount:       len(m.Stages),
	}
	for _, st := range m.Stages {
		if st.World < 0 || st.World >= len(b.Worlds) {
			continue
		}
		b.Worlds[st.World] = append(b.Worlds[st.World], minipak.StageBuild{
			World: st.World, Index: st.Index, Name: st.Name, Slot: st.Slot,
			Encoded: &stage.Encoded{Text: st.Text},
		})
	}
	return b.LevelDocument()
}

// WriteManifest writes a header line followed by the JSON manifest, zstd
// compressed at the given level.
func WriteManifest(path string, m Manifest, level zstd.EncoderLevel) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(level))
	if err != nil {
		return err
	}
	werr := writeBody(enc, m)
	cerr := enc.Close()
	if werr != nil {
		return werr
	}
	if cerr != nil {
		return cerr
	}
	return f.Close()
}

func writeBody(w io.Writer, m Manifest) error {
	bw := bufio.NewWriter(w)
	hb, _ := json.Marshal(m.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := json.NewEncoder(bw).Encode(&m); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return bw.Flush()
}

// ReadManifest reads an archive back and checks that the stage texts still
// match the recorded digest.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	f, err := os.Open(path)
	if err != nil {
		return m, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return m, err
	}
	defer dec.Close()

	br := bufio.NewReader(dec)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return m, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	var h Header
	if err := json.Unmarshal(line, &h); err != nil {
		return m, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	if h.Version != Version {
		return m, fmt.Errorf("%w: version %d", ErrCorrupt, h.Version)
	}
	if err := json.NewDecoder(br).Decode(&m); err != nil {
		return m, fmt.Errorf("%w: json decode: %v", ErrCorrupt, err)
	}
	if m.Header != h {
		return m, fmt.Errorf("%w: header mismatch", ErrCorrupt)
	}
	if got := Digest(m.LevelDocument()); got != h.Digest {
		return m, fmt.Errorf("%w: digest %s want %s", ErrCorrupt, got, h.Digest)
	}
	return m, nil
}
