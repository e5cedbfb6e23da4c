package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"minipak.dev/internal/config"
	"minipak.dev/internal/minipak"
	"minipak.dev/internal/persistence/archive"
	"minipak.dev/internal/persistence/indexdb"
	"minipak.dev/internal/tiles"
	"minipak.dev/internal/worldpak"
)

var (
	errUsage         = errors.New("usage")
	errInputNotFound = errors.New("input not found")
)

type options struct {
	in, out, mapPath string
	configPath       string
	archivePath      string
	dbPath           string
}

func main() {
	logger := log.New(os.Stdout, "[minipak] ", log.LstdFlags)
	err := run(os.Args[1:], os.Stderr, logger)
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		os.Exit(2)
	default:
		logger.Printf("error: %v", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("minipak", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.in, "in", "", "worldpak JSON to convert")
	fs.StringVar(&o.out, "out", "", "level document to write")
	fs.StringVar(&o.mapPath, "map", "", "tile-rule map cart to write (optional)")
	fs.StringVar(&o.configPath, "config", "", "path to minipak.yaml (optional)")
	fs.StringVar(&o.archivePath, "archive", "", "zstd build archive to write (optional)")
	fs.StringVar(&o.dbPath, "db", "", "sqlite conversion ledger (optional)")
	if err := fs.Parse(args); err != nil {
		return o, errUsage
	}
	o.in = strings.TrimSpace(o.in)
	o.out = strings.TrimSpace(o.out)
	if o.in == "" || o.out == "" {
		fmt.Fprintln(stderr, "missing -in or -out")
		fs.Usage()
		return o, errUsage
	}
	return o, nil
}

func run(args []string, stderr io.Writer, logger *log.Logger) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if _, err := os.Stat(o.in); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", errInputNotFound, o.in)
		}
		return err
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	level, err := cfg.EncoderLevel()
	if err != nil {
		return err
	}

	pak, err := worldpak.ReadFile(o.in)
	if err != nil {
		return err
	}
	rules := tiles.Rules()
	conv := minipak.Converter{Config: cfg, Rules: rules, Logger: logger}
	build, err := conv.Convert(pak)
	if err != nil {
		return err
	}

	doc := build.LevelDocument()
	if err := writeFile(o.out, doc); err != nil {
		return err
	}
	logger.Printf("wrote %s (%s)", o.out, humanize.Bytes(uint64(len(doc))))

	if o.mapPath != "" {
		m := minipak.MapDocument(rules, cfg)
		if err := writeFile(o.mapPath, m); err != nil {
			return err
		}
		logger.Printf("wrote %s (%s)", o.mapPath, humanize.Bytes(uint64(len(m))))
	}

	if o.archivePath == "" && o.dbPath == "" {
		return nil
	}
	runID := uuid.NewString()
	digest := archive.Digest(doc)

	if o.archivePath != "" {
		if err := archive.WriteManifest(o.archivePath, archive.NewManifest(runID, build), level); err != nil {
			return fmt.Errorf("write archive: %w", err)
		}
		if fi, err := os.Stat(o.archivePath); err == nil {
			logger.Printf("archived run=%s to %s (%s)", runID, o.archivePath, humanize.Bytes(uint64(fi.Size())))
		}
	}

	if o.dbPath != "" {
		ledger, err := indexdb.OpenSQLite(o.dbPath)
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		defer ledger.Close()
		if err := ledger.RecordBuild(context.Background(), runID, digest, build); err != nil {
			return fmt.Errorf("record build: %w", err)
		}
		logger.Printf("recorded run=%s in %s", runID, o.dbPath)
	}
	return nil
}

func writeFile(path, s string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(s), 0o644)
}
