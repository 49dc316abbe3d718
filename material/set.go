// Package material implements named sets of block materials, which decide what
// spells are allowed to change.
package material

import (
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/world"
)

// Set is a classification of block materials.
type Set interface {
	// Test reports whether b belongs to the set.
	Test(b world.Block) bool
}

// Name returns the material name of a block, such as minecraft:stone.
func Name(b world.Block) string {
	name, _ := b.EncodeBlock()
	return name
}

// Normalise turns a user supplied material name into the form returned by Name.
func Normalise(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name != "" && !strings.Contains(name, ":") {
		name = "minecraft:" + name
	}
	return name
}

// Hardness returns how hard a block is to break. Blocks that cannot be broken
// have an infinite hardness.
func Hardness(b world.Block) float64 {
	br, ok := b.(block.Breakable)
	if !ok {
		return math.Inf(1)
	}
	if h := br.BreakInfo().Hardness; h >= 0 {
		return h
	}
	return math.Inf(1)
}

// names is a Set holding a fixed list of material names.
type names map[string]struct{}

// New returns a Set containing the materials passed.
func New(materials ...string) Set {
	s := make(names, len(materials))
	for _, m := range materials {
		if m = Normalise(m); m != "" {
			s[m] = struct{}{}
		}
	}
	return s
}

// Test ...
func (s names) Test(b world.Block) bool {
	_, ok := s[Name(b)]
	return ok
}

// Materials returns the sorted material names in the set.
func (s names) Materials() []string {
	return slices.Sorted(maps.Keys(s))
}

type empty struct{}

// Test ...
func (empty) Test(world.Block) bool { return false }

// Empty returns a Set without any materials.
func Empty() Set {
	return empty{}
}

type all struct{}

// Test ...
func (all) Test(world.Block) bool { return true }

// All returns a Set containing every material.
func All() Set {
	return all{}
}

type union []Set

// Test ...
func (u union) Test(b world.Block) bool {
	for _, s := range u {
		if s.Test(b) {
			return true
		}
	}
	return false
}

// Union returns a Set containing the materials of all sets passed. Nil sets
// are ignored.
func Union(sets ...Set) Set {
	u := make(union, 0, len(sets))
	for _, s := range sets {
		if s != nil {
			u = append(u, s)
		}
	}
	return u
}

type not struct{ s Set }

// Test ...
func (n not) Test(b world.Block) bool { return !n.s.Test(b) }

// Not returns a Set containing every material not in s.
func Not(s Set) Set {
	return not{s: s}
}
