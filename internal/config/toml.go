// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/qrhunt/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Hunt    HuntConfig    `toml:"hunt"`
	Catalog []EntityEntry `toml:"catalog"`
}

// HuntConfig maps hunt-related settings.
type HuntConfig struct {
	Prefix      *string `toml:"prefix"`
	DebounceMs  *int    `toml:"debounce-ms"`
	Engine      *string `toml:"engine"`
	LogDir      *string `toml:"log-dir"`
	DBPath      *string `toml:"db"`
	CatalogFile *string `toml:"catalog-file"`
	LogLevel    *string `toml:"log-level"`
}

// EntityEntry is one [[catalog]] table.
type EntityEntry struct {
	Name   string `toml:"name"`
	Points int    `toml:"points"`
}

// Entities converts the [[catalog]] tables into model entities.
func (c FileConfig) Entities() []model.Entity {
	if len(c.Catalog) == 0 {
		return nil
	}
	out := make([]model.Entity, 0, len(c.Catalog))
	for _, e := range c.Catalog {
		out = append(out, model.Entity{Name: e.Name, Points: e.Points})
	}
	return out
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
