package minipak

import (
	"errors"
	"fmt"
	"log"

	"minipak.dev/internal/config"
	"minipak.dev/internal/stage"
	"minipak.dev/internal/tiles"
	"minipak.dev/internal/worldpak"
)

var (
	ErrVersionTooOld     = errors.New("worldpak version too old")
	ErrTooManyStages     = errors.New("too many stages")
	ErrDuplicateSaveSlot = errors.New("duplicate save slot")
)

// Converter turns a decoded worldpak into a build. The zero value uses the
// default config and the shared tile table and logs nothing.
type Converter struct {
	Config config.Config
	Rules  *tiles.Table
	Logger *log.Logger
}

type StageBuild struct {
	World   int
	Index   int
	Name    string
	Slot    int
	Encoded *stage.Encoded
}

type Build struct {
	PakID            string
	PakName          string
	BeatRequirements string
	Worlds           [][]StageBuild
	StageCount       int
}

func (c *Converter) Convert(p *worldpak.Pak) (*Build, error) {
	cfg := c.Config
	if cfg == (config.Config{}) {
		cfg = config.Defaults()
	}
	cfg.Normalize()
	rules := c.Rules
	if rules == nil {
		rules = tiles.Rules()
	}

	minVersion := max(cfg.MinFileVersion, config.MinFileVersion)
	if p.FileVersion < minVersion {
		return nil, fmt.Errorf("%w: file version %v, need %v or newer", ErrVersionTooOld, p.FileVersion, minVersion)
	}

	b := &Build{
		PakID:   p.ID,
		PakName: p.Name,
		Worlds:  make([][]StageBuild, 0, len(p.Worlds)),
	}
	var used [config.SaveSlots]bool
	for wi, w := range p.Worlds {
		b.BeatRequirements += fmt.Sprintf("%x", clamp(int(w.RequiredStars), 0, 15))

		stages := make([]StageBuild, 0, len(w.Stages))
		for si, st := range w.Stages {
			b.StageCount++
			if b.StageCount > cfg.MaxStages {
				return nil, fmt.Errorf("%w: more than %d", ErrTooManyStages, cfg.MaxStages)
			}

			slot := SaveSlot(st.ID)
			if used[slot] {
				return nil, fmt.Errorf("%w: stage %q (id %v) wants slot %d", ErrDuplicateSaveSlot, st.Name, st.ID, slot)
			}
			used[slot] = true
			st.SaveSlot = slot

			enc, err := stage.Encode(st, rules)
			if err != nil {
				return nil, fmt.Errorf("world %d stage %d: %w", wi+1, si+1, err)
			}
			stages = append(stages, StageBuild{World: wi, Index: si, Name: st.Name, Slot: slot, Encoded: enc})
		}
		b.Worlds = append(b.Worlds, stages)
	}

	c.printf("Converted %d stage(s) across %d world(s)", b.StageCount, len(b.Worlds))
	return b, nil
}

// SaveSlot maps a stage id onto the cart's save slots.
func SaveSlot(id float64) int {
	return clamp(int(id)%config.SaveSlots, 0, config.SaveSlots-1)
}

func (c *Converter) printf(format string, args ...any) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
