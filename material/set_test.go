package material

import (
	"math"
	"testing"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameAndNormalise(t *testing.T) {
	assert.Equal(t, "minecraft:stone", Name(block.Stone{}))
	assert.Equal(t, "minecraft:stone", Normalise(" STONE "))
	assert.Equal(t, "custom:thing", Normalise("custom:thing"))
	assert.Empty(t, Normalise(""))
}

func TestSets(t *testing.T) {
	stone := New("stone")
	assert.True(t, stone.Test(block.Stone{}))
	assert.False(t, stone.Test(block.Dirt{}))

	assert.False(t, Empty().Test(block.Stone{}))
	assert.True(t, All().Test(block.Dirt{}))

	u := Union(stone, New("minecraft:dirt"), nil)
	assert.True(t, u.Test(block.Stone{}))
	assert.True(t, u.Test(block.Dirt{}))
	assert.False(t, u.Test(block.Air{}))

	assert.True(t, Not(stone).Test(block.Dirt{}))
	assert.False(t, Not(stone).Test(block.Stone{}))
}

func TestHardness(t *testing.T) {
	assert.Greater(t, Hardness(block.Obsidian{}), Hardness(block.Dirt{}))
	assert.True(t, math.IsInf(Hardness(block.Bedrock{}), 1))
}

func TestManager(t *testing.T) {
	m := NewManager(map[string][]string{
		"Natural":        {"stone", "dirt"},
		"indestructible": {"bedrock", "obsidian"},
		"everything":     {"natural", "indestructible", "glass"},
		"all":            {"*"},
	})
	assert.Equal(t, []string{"all", "everything", "indestructible", "natural"}, m.Names())

	natural, ok := m.Get("natural")
	require.True(t, ok)
	assert.True(t, natural.Test(block.Dirt{}))

	everything, ok := m.Get("EVERYTHING")
	require.True(t, ok)
	assert.True(t, everything.Test(block.Stone{}))
	assert.True(t, everything.Test(block.Obsidian{}))
	assert.True(t, everything.Test(block.Glass{}))
	assert.False(t, everything.Test(block.Air{}))

	all, _ := m.Get("all")
	assert.True(t, all.Test(block.Air{}))
}

func TestManagerFromConfig(t *testing.T) {
	m := NewManager(map[string][]string{"natural": {"stone", "dirt"}})
	def := New("glass")

	assert.Equal(t, def, m.FromConfig("", def))
	assert.True(t, m.FromConfig("*", nil).Test(block.Bedrock{}))
	assert.True(t, m.FromConfig("natural", nil).Test(block.Stone{}))

	list := m.FromConfig("obsidian, glass", nil)
	assert.True(t, list.Test(block.Glass{}))
	assert.True(t, list.Test(block.Obsidian{}))
	assert.False(t, list.Test(block.Stone{}))

	mixed := m.FromConfig("natural,glass", nil)
	assert.True(t, mixed.Test(block.Dirt{}))
	assert.True(t, mixed.Test(block.Glass{}))
}
