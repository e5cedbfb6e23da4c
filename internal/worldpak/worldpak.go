package worldpak

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

const (
	// MinFileVersion is the oldest worldpak format the converter accepts.
	MinFileVersion = 13.0
	// MaxTime is the default for missing stage times.
	MaxTime = 599.9999
)

var ErrInvalidDocument = errors.New("invalid worldpak document")

type Pak struct {
	Name        string  `json:"pak_name"`
	FileVersion float64 `json:"file_version"`
	ID          string  `json:"pak_id"`
	Worlds      []World `json:"pak_worlds"`
}

type World struct {
	Stages        []Stage `json:"world_stages"`
	RequiredStars float64 `json:"world_required_stars"`
}

type Stage struct {
	Name       string  `json:"stage_name"`
	Author     string  `json:"stage_author"`
	Width      float64 `json:"stage_width"`
	Height     float64 `json:"stage_height"`
	ID         float64 `json:"stage_id"`
	TargetTime float64 `json:"stage_target_time"`
	DevTime    float64 `json:"stage_dev_time"`
	ReplayData string  `json:"stage_replay_data"`
	HintCount  float64 `json:"stage_hint_count"`
	Data       string  `json:"stage_data"`

	// SaveSlot is assigned during conversion.
	SaveSlot int `json:"-"`
}

func DefaultPak() Pak {
	return Pak{
		Name:        "No Name",
		FileVersion: MinFileVersion,
		Worlds:      []World{DefaultWorld()},
	}
}

func DefaultWorld() World {
	return World{Stages: []Stage{DefaultStage()}}
}

func DefaultStage() Stage {
	return Stage{
		Name:       "No Name",
		Author:     "No Author",
		Width:      1,
		Height:     1,
		TargetTime: MaxTime,
		DevTime:    MaxTime,
	}
}

func (p *Pak) UnmarshalJSON(b []byte) error {
	type plain Pak
	v := plain(DefaultPak())
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Pak(v)
	return nil
}

func (w *World) UnmarshalJSON(b []byte) error {
	type plain World
	v := plain(DefaultWorld())
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*w = World(v)
	return nil
}

func (s *Stage) UnmarshalJSON(b []byte) error {
	type plain Stage
	v := plain(DefaultStage())
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = Stage(v)
	return nil
}

// StageCount is the total number of stages across all worlds.
func (p *Pak) StageCount() int {
	n := 0
	for _, w := range p.Worlds {
		n += len(w.Stages)
	}
	return n
}

// Decode validates raw against the worldpak schema and decodes it.
func Decode(raw []byte) (*Pak, error) {
	if err := Validate(raw); err != nil {
		return nil, err
	}
	var p Pak
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &p, nil
}

func ReadFile(path string) (*Pak, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
