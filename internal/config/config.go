package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

const (
	// SaveSlots is how many save slots the cart has.
	SaveSlots = 60
	// MinFileVersion is the oldest worldpak format the converter understands.
	MinFileVersion = 13.0
)

type Config struct {
	// MinFileVersion can raise the accepted worldpak version, never lower it.
	MinFileVersion float64 `yaml:"min_file_version"`
	// MaxStages caps the stages of one pak; at most SaveSlots.
	MaxStages int `yaml:"max_stages"`
	// CartVersion is written to the version line of the map file.
	CartVersion int `yaml:"cart_version"`
	// ArchiveLevel is the zstd level name used for build archives.
	ArchiveLevel string `yaml:"archive_level"`
}

func Defaults() Config {
	return Config{
		MinFileVersion: MinFileVersion,
		MaxStages:      SaveSlots,
		CartVersion:    42,
		ArchiveLevel:   "default",
	}
}

// Load reads a YAML config over the defaults. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Normalize() {
	d := Defaults()
	if c.MaxStages <= 0 {
		c.MaxStages = d.MaxStages
	}
	if c.CartVersion <= 0 {
		c.CartVersion = d.CartVersion
	}
	c.ArchiveLevel = strings.ToLower(strings.TrimSpace(c.ArchiveLevel))
	if c.ArchiveLevel == "" {
		c.ArchiveLevel = d.ArchiveLevel
	}
}

func (c Config) Validate() error {
	if c.MinFileVersion < MinFileVersion {
		return fmt.Errorf("min_file_version %v is below %v", c.MinFileVersion, MinFileVersion)
	}
	if c.MaxStages > SaveSlots {
		return fmt.Errorf("max_stages %d exceeds the %d save slots", c.MaxStages, SaveSlots)
	}
	if _, err := c.EncoderLevel(); err != nil {
		return err
	}
	return nil
}

// EncoderLevel resolves ArchiveLevel ("fastest", "default", "better", "best").
func (c Config) EncoderLevel() (zstd.EncoderLevel, error) {
	ok, lvl := zstd.EncoderLevelFromString(c.ArchiveLevel)
	if !ok {
		return 0, fmt.Errorf("unknown archive_level %q", c.ArchiveLevel)
	}
	return lvl, nil
}
