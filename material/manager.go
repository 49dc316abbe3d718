package material

import (
	"maps"
	"slices"
	"strings"
)

// Manager holds the material sets defined in configuration and resolves the
// material set values found in spell parameters.
type Manager struct {
	sets map[string]Set
}

// NewManager returns a Manager for the named sets passed. Entries in a set
// may refer to other sets by name.
func NewManager(defs map[string][]string) *Manager {
	m := &Manager{sets: make(map[string]Set, len(defs))}
	for _, name := range slices.Sorted(maps.Keys(defs)) {
		m.define(strings.ToLower(name), defs, map[string]bool{})
	}
	return m
}

func (m *Manager) define(name string, defs map[string][]string, visiting map[string]bool) Set {
	if s, ok := m.sets[name]; ok {
		return s
	}
	entries, ok := lookup(defs, name)
	if !ok || visiting[name] {
		return nil
	}
	visiting[name] = true

	var (
		sets      []Set
		materials []string
	)
	for _, entry := range entries {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "*" {
			sets = append(sets, All())
		} else if _, isSet := lookup(defs, entry); isSet {
			if s := m.define(entry, defs, visiting); s != nil {
				sets = append(sets, s)
			}
		} else {
			materials = append(materials, entry)
		}
	}
	s := New(materials...)
	if len(sets) > 0 {
		s = Union(append(sets, s)...)
	}
	m.sets[name] = s
	return s
}

func lookup(defs map[string][]string, name string) ([]string, bool) {
	for k, v := range defs {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

// Get returns the set with the name passed.
func (m *Manager) Get(name string) (Set, bool) {
	s, ok := m.sets[strings.ToLower(name)]
	return s, ok
}

// Names returns the sorted names of all sets.
func (m *Manager) Names() []string {
	return slices.Sorted(maps.Keys(m.sets))
}

// FromConfig resolves a parameter value into a Set. The value is either the
// name of a set, "*" for all materials, or a comma separated list of
// materials. An empty value resolves to def.
func (m *Manager) FromConfig(value string, def Set) Set {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return def
	case value == "*":
		return All()
	}
	if s, ok := m.Get(value); ok {
		return s
	}
	var sets []Set
	var materials []string
	for _, part := range strings.Split(value, ",") {
		if s, ok := m.Get(strings.TrimSpace(part)); ok {
			sets = append(sets, s)
			continue
		}
		materials = append(materials, part)
	}
	if len(sets) == 0 {
		return New(materials...)
	}
	return Union(append(sets, New(materials...))...)
}
