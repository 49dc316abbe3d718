// Package config loads the plugin settings from config.yml and the spell
// templates from spells.yml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config holds the plugin wide settings.
type Config struct {
	Log  LogConfig  `yaml:"log"`
	Undo UndoConfig `yaml:"undo"`
	Wand WandConfig `yaml:"wand"`

	// Materials are the named material sets. Entries are block names or the
	// names of other sets; "*" matches every block.
	Materials map[string][]string `yaml:"materials"`
	Defaults  DefaultsConfig      `yaml:"defaults"`

	// Bypass lists the players whose spells ignore indestructible rules.
	Bypass []string `yaml:"bypass"`
	// SuperPowered lists the players whose spells ignore indestructible rules.
	SuperPowered []string `yaml:"super_powered"`
	// Protected lists the players that spells of others do not affect.
	Protected []string `yaml:"protected"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	// File is the path of the log file. Empty logs to stderr only.
	File       string `yaml:"file"`
	Format     string `yaml:"format"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// UndoConfig holds undo settings.
type UndoConfig struct {
	// MaxQueue is the number of spells each player can undo.
	MaxQueue int `yaml:"max_queue"`
	// JournalPath is the directory of the journal of temporary changes.
	JournalPath string `yaml:"journal_path"`
}

// WandConfig holds the settings of the wand item.
type WandConfig struct {
	// Spells are the spells a wand cycles through, in order.
	Spells []string `yaml:"spells"`
}

// DefaultsConfig names the material sets used when a spell does not define
// its own.
type DefaultsConfig struct {
	Destructible   string `yaml:"destructible"`
	Indestructible string `yaml:"indestructible"`
}

// DefaultConfig returns a Config with the default settings.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		Undo: UndoConfig{
			MaxQueue:    32,
			JournalPath: DefaultJournalPath(),
		},
		Wand: WandConfig{
			Spells: []string{"blink", "cushion", "fling", "tree", "disintegrate"},
		},
		Materials: map[string][]string{
			"natural": {
				"stone", "granite", "diorite", "andesite", "dirt", "grass_block",
				"coarse_dirt", "podzol", "sand", "red_sand", "gravel", "clay",
				"snow_layer", "snow", "netherrack", "end_stone",
			},
			"plants": {
				"oak_leaves", "spruce_leaves", "birch_leaves", "jungle_leaves",
				"acacia_leaves", "dark_oak_leaves", "short_grass", "tall_grass", "fern",
			},
			"logs": {
				"oak_log", "spruce_log", "birch_log", "jungle_log", "acacia_log", "dark_oak_log",
			},
			"liquids":        {"water", "flowing_water", "lava", "flowing_lava"},
			"destructible":   {"natural", "plants", "logs", "liquids", "air"},
			"indestructible": {"bedrock", "obsidian", "barrier", "end_portal_frame"},
		},
		Defaults: DefaultsConfig{
			Destructible:   "destructible",
			Indestructible: "indestructible",
		},
	}
}

// DefaultJournalPath returns the journal directory under the user's data
// home.
func DefaultJournalPath() string {
	return filepath.Join(xdg.DataHome, "magic", "journal")
}

// Load reads the configuration at path over the defaults. A missing file
// yields the defaults.
func Load(path string) (Config, error) {
	conf := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return conf, nil
		}
		return conf, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return DefaultConfig(), fmt.Errorf("decode config %v: %w", path, err)
	}
	if err := conf.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return conf, nil
}

// Save writes conf to path, creating the directory if needed.
func Save(path string, conf Config) error {
	data, err := yaml.Marshal(conf)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks conf for settings that cannot work.
func (conf Config) Validate() error {
	if conf.Undo.MaxQueue <= 0 {
		return fmt.Errorf("undo.max_queue must be positive, got %d", conf.Undo.MaxQueue)
	}
	for _, name := range []string{conf.Defaults.Destructible, conf.Defaults.Indestructible} {
		if name == "" || name == "*" {
			continue
		}
		if _, ok := conf.Materials[name]; !ok {
			return fmt.Errorf("defaults refer to unknown material set %q", name)
		}
	}
	return nil
}

// HasBypass reports whether the player with the name passed holds the bypass
// permission.
func (conf Config) HasBypass(name string) bool {
	return containsFold(conf.Bypass, name)
}

// IsSuperPowered ...
func (conf Config) IsSuperPowered(name string) bool {
	return containsFold(conf.SuperPowered, name)
}

// IsProtected ...
func (conf Config) IsProtected(name string) bool {
	return containsFold(conf.Protected, name)
}

func containsFold(s []string, name string) bool {
	return slices.ContainsFunc(s, func(e string) bool { return strings.EqualFold(e, name) })
}
