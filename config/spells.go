package config

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed spells.yml
var defaultSpells []byte

// Spell is a spell template as written in spells.yml.
type Spell struct {
	// Class is the spell class implementing the spell. It defaults to the
	// key of the spell.
	Class       string            `yaml:"class"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Parameters  map[string]any    `yaml:"parameters"`
	Messages    map[string]string `yaml:"messages"`
}

// Spells maps spell keys to their templates.
type Spells map[string]Spell

// Keys returns the sorted keys of s.
func (s Spells) Keys() []string {
	return slices.Sorted(maps.Keys(s))
}

// DefaultSpells returns the spells shipped with the plugin.
func DefaultSpells() Spells {
	s, err := decodeSpells(defaultSpells)
	if err != nil {
		panic(fmt.Errorf("default spells: %w", err))
	}
	return s
}

// LoadSpells reads the spell templates at path. A missing file yields the
// default spells.
func LoadSpells(path string) (Spells, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSpells(), nil
		}
		return nil, fmt.Errorf("read spells: %w", err)
	}
	s, err := decodeSpells(data)
	if err != nil {
		return nil, fmt.Errorf("decode spells %v: %w", path, err)
	}
	return s, nil
}

// WriteDefaultSpells writes the default spells.yml to path unless a file
// already exists there.
func WriteDefaultSpells(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, defaultSpells, 0o644)
}

func decodeSpells(data []byte) (Spells, error) {
	var s Spells
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	for k, sp := range s {
		if sp.Parameters == nil {
			sp.Parameters = map[string]any{}
		}
		s[k] = sp
	}
	return s, nil
}
