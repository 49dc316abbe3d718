package magic

import (
	"testing"

	"github.com/bedrock-gophers/magic/config"
	"github.com/bedrock-gophers/magic/journal"
	"github.com/bedrock-gophers/magic/material"
	"github.com/bedrock-gophers/magic/spell"
	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var below = cube.Pos{0, -1, 0}

func TestNewInvalidConfig(t *testing.T) {
	conf := config.DefaultConfig()
	conf.Undo.MaxQueue = 0
	c, err := New(conf, testSpells(), nil, testLogger())
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestLoadUnknownClass(t *testing.T) {
	spells := testSpells()
	spells["broken"] = config.Spell{Class: "does_not_exist"}

	c, err := New(config.DefaultConfig(), spells, nil, testLogger())
	require.NotNil(t, c)
	assert.ErrorIs(t, err, spell.ErrUnknownClass)

	_, ok := c.Spell("broken")
	assert.False(t, ok)
	s, ok := c.Spell("PAINT")
	require.True(t, ok)
	assert.Equal(t, "Paint", s.Name())

	var keys []string
	for _, s := range c.Spells() {
		keys = append(keys, s.Key())
	}
	assert.Equal(t, []string{"flash", "paint"}, keys)
}

func TestCastWithUnknownSpell(t *testing.T) {
	c := newTestController(config.DefaultConfig(), nil)
	m := c.Join(uuid.New(), "alex")
	_, err := c.CastWith(newFakeWorld(), &fakeScheduler{}, m, "nope", nil)
	assert.ErrorIs(t, err, spell.ErrUnknownSpell)
}

func TestCastAndUndo(t *testing.T) {
	c := newTestController(config.DefaultConfig(), nil)
	w, sched := newFakeWorld(), &fakeScheduler{}
	w.blocks[below] = block.Dirt{}
	m := c.Join(uuid.New(), "alex")

	res, err := c.CastWith(w, sched, m, "paint", nil)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, block.Glass{}, w.blocks[below])
	assert.Equal(t, 1, m.Queue().Len())
	assert.Empty(t, sched.tasks)
	assert.Empty(t, c.Pending())

	l, ok := c.Undo(w, m.ID())
	require.True(t, ok)
	assert.Equal(t, "paint", l.Spell())
	assert.Equal(t, block.Dirt{}, w.blocks[below])
	assert.Zero(t, m.Queue().Len())

	_, ok = c.Undo(w, m.ID())
	assert.False(t, ok)
	_, ok = c.Undo(w, uuid.New())
	assert.False(t, ok)
}

func TestCastRespectsIndestructibleDefault(t *testing.T) {
	c := newTestController(config.DefaultConfig(), nil)
	w := newFakeWorld()
	w.blocks[below] = block.Bedrock{}
	m := c.Join(uuid.New(), "alex")

	res, err := c.CastWith(w, &fakeScheduler{}, m, "paint", nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, block.Bedrock{}, w.blocks[below])

	conf := config.DefaultConfig()
	conf.SuperPowered = []string{"Alex"}
	require.NoError(t, c.Load(conf, testSpells()))
	res, err = c.CastWith(w, &fakeScheduler{}, m, "paint", spell.Parameters{"destructible": "*"})
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestTemporaryChangesAreJournaled(t *testing.T) {
	j, err := journal.Open(journal.Options{Log: testLogger()})
	require.NoError(t, err)
	defer j.Close()

	c := newTestController(config.DefaultConfig(), j)
	w, sched := newFakeWorld(), &fakeScheduler{}
	w.blocks[below] = block.Dirt{}
	m := c.Join(uuid.New(), "alex")

	_, err = c.CastWith(w, sched, m, "flash", nil)
	require.NoError(t, err)
	require.Len(t, sched.tasks, 1)
	require.Len(t, c.Pending(), 1)
	prior, ok := c.Modified("overworld", below)
	require.True(t, ok)
	assert.Equal(t, block.Dirt{}, prior)

	entries, err := j.Pending()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "flash", entries[0].Spell)

	sched.runAll(w)
	assert.Equal(t, block.Dirt{}, w.blocks[below])
	assert.Empty(t, c.Pending())
	assert.Zero(t, m.Queue().Len())
	_, ok = c.Modified("overworld", below)
	assert.False(t, ok)

	entries, err = j.Pending()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestManualUndoCancelsScheduledUndo(t *testing.T) {
	c := newTestController(config.DefaultConfig(), nil)
	w, sched := newFakeWorld(), &fakeScheduler{}
	m := c.Join(uuid.New(), "alex")

	_, err := c.CastWith(w, sched, m, "flash", nil)
	require.NoError(t, err)
	_, ok := c.Undo(w, m.ID())
	require.True(t, ok)
	require.Len(t, sched.tasks, 1)
	assert.True(t, sched.tasks[0].cancelled)
	assert.Empty(t, c.Pending())
}

func TestQueueOverflowCommitsOldest(t *testing.T) {
	conf := config.DefaultConfig()
	conf.Undo.MaxQueue = 2
	c := newTestController(conf, nil)
	w, sched := newFakeWorld(), &fakeScheduler{}
	m := c.Join(uuid.New(), "alex")

	for range 3 {
		res, err := c.CastWith(w, sched, m, "flash", nil)
		require.NoError(t, err)
		require.True(t, res.Success)
	}
	assert.Equal(t, 2, m.Queue().Len())
	assert.Len(t, c.Pending(), 2)
	assert.True(t, sched.tasks[0].cancelled)
}

func TestShutdownRevertsTemporaryChanges(t *testing.T) {
	c := newTestController(config.DefaultConfig(), nil)
	w, sched := newFakeWorld(), &fakeScheduler{}
	w.blocks[below] = block.Dirt{}
	m := c.Join(uuid.New(), "alex")

	_, err := c.CastWith(w, sched, m, "paint", nil)
	require.NoError(t, err)
	_, err = c.CastWith(w, sched, m, "flash", spell.Parameters{"undo": "10s", "destructible": "*"})
	require.NoError(t, err)

	assert.Equal(t, 1, c.Shutdown(worldsOf(w)))
	assert.Equal(t, block.Glass{}, w.blocks[below])
	assert.Equal(t, 1, m.Queue().Len())
	assert.Zero(t, c.Shutdown(worldsOf(w)))
}

func TestShutdownRevertsInWorldOfChanges(t *testing.T) {
	c := newTestController(config.DefaultConfig(), nil)
	overworld, nether := newFakeWorld(), newFakeWorldIn("nether")
	overworld.blocks[below] = block.Diamond{}
	nether.blocks[below] = block.Netherrack{}
	m := c.Join(uuid.New(), "alex")

	_, err := c.CastWith(nether, &fakeScheduler{}, m, "flash", nil)
	require.NoError(t, err)
	require.Len(t, c.Pending(), 1)
	assert.Equal(t, "nether", c.Pending()[0].Dimension())
	_, ok := c.Modified("overworld", below)
	assert.False(t, ok)

	assert.Equal(t, 1, c.Shutdown(worldsOf(overworld, nether)))
	assert.Equal(t, block.Netherrack{}, nether.blocks[below])
	assert.Equal(t, block.Diamond{}, overworld.blocks[below])
	assert.Empty(t, c.Pending())
}

func TestShutdownKeepsChangesOfUnknownWorlds(t *testing.T) {
	c := newTestController(config.DefaultConfig(), nil)
	nether := newFakeWorldIn("nether")
	m := c.Join(uuid.New(), "alex")

	_, err := c.CastWith(nether, &fakeScheduler{}, m, "flash", nil)
	require.NoError(t, err)
	assert.Zero(t, c.Shutdown(worldsOf(newFakeWorld())))
	assert.Equal(t, block.Glass{}, nether.blocks[below])
	assert.Len(t, c.Pending(), 1)
}

func TestRecoverWithoutJournal(t *testing.T) {
	c := newTestController(config.DefaultConfig(), nil)
	n, err := c.Recover(worldsOf(newFakeWorld()))
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestLocksAndBreakables(t *testing.T) {
	c := newTestController(config.DefaultConfig(), nil)
	pos := cube.Pos{1, 2, 3}

	c.Lock("overworld", pos)
	assert.True(t, c.Locked("overworld", pos))
	assert.False(t, c.Locked("nether", pos))
	c.Unlock("overworld", pos)
	assert.False(t, c.Locked("overworld", pos))

	c.SetBreakable("nether", pos, 3)
	n, ok := c.Breakable("nether", pos)
	require.True(t, ok)
	assert.Equal(t, 3, n)
	_, ok = c.Breakable("overworld", pos)
	assert.False(t, ok)
	c.ClearBreakable("nether", pos)
	_, ok = c.Breakable("nether", pos)
	assert.False(t, ok)
}

func TestDefaultSets(t *testing.T) {
	c := newTestController(config.DefaultConfig(), nil)
	assert.True(t, c.DefaultDestructible().Test(block.Dirt{}))
	assert.False(t, c.DefaultDestructible().Test(block.Bedrock{}))
	assert.True(t, c.DefaultIndestructible().Test(block.Bedrock{}))

	conf := config.DefaultConfig()
	conf.Defaults = config.DefaultsConfig{Destructible: "*"}
	require.NoError(t, c.Load(conf, testSpells()))
	assert.True(t, c.DefaultDestructible().Test(block.Bedrock{}))
	assert.Nil(t, c.DefaultIndestructible())
	assert.IsType(t, material.All(), c.DefaultDestructible())
}
