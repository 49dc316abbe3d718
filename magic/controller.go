// Package magic holds the plugin wide state of the spells: the loaded
// configuration and spell registry, the mages online, block locks, breakable
// tags and the temporary changes that are still waiting to be reverted.
package magic

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/bedrock-gophers/magic/config"
	"github.com/bedrock-gophers/magic/host"
	"github.com/bedrock-gophers/magic/journal"
	"github.com/bedrock-gophers/magic/material"
	"github.com/bedrock-gophers/magic/spell"
	"github.com/bedrock-gophers/magic/undo"
	"github.com/df-mc/atomic"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Controller is the shared state spells consult while they are cast. It is
// safe for concurrent use.
type Controller struct {
	log     logrus.FieldLogger
	journal *journal.Journal

	conf      atomic.Value[config.Config]
	materials atomic.Value[*material.Manager]
	spells    atomic.Value[map[string]*spell.Spell]

	mu         sync.Mutex
	mages      map[uuid.UUID]*Mage
	locked     map[place]struct{}
	breakables map[place]int
	temporary  map[uuid.UUID]*undo.List
}

// place is a block position in the world of a dimension.
type place struct {
	dim string
	pos cube.Pos
}

// New returns a Controller with the configuration and spells passed. The
// journal may be nil, in which case temporary changes are not journaled. New
// fails if the configuration is invalid. Spells that could not be loaded are
// reported in the error while a usable Controller is still returned.
func New(conf config.Config, spells config.Spells, j *journal.Journal, log logrus.FieldLogger) (*Controller, error) {
	c := &Controller{
		log:        log,
		journal:    j,
		mages:      map[uuid.UUID]*Mage{},
		locked:     map[place]struct{}{},
		breakables: map[place]int{},
		temporary:  map[uuid.UUID]*undo.List{},
	}
	c.spells.Store(map[string]*spell.Spell{})
	err := c.Load(conf, spells)
	if c.Materials() == nil {
		return nil, err
	}
	return c, err
}

// Load replaces the configuration and the spells of the controller. Mages
// keep their undo queues.
func (c *Controller) Load(conf config.Config, defs config.Spells) error {
	if err := conf.Validate(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	spells, err := buildSpells(defs)
	c.conf.Store(conf)
	c.materials.Store(material.NewManager(conf.Materials))
	c.spells.Store(spells)

	c.log.WithFields(logrus.Fields{
		"spells":    len(spells),
		"materials": len(conf.Materials),
	}).Info("Loaded magic configuration.")
	return err
}

func buildSpells(defs config.Spells) (map[string]*spell.Spell, error) {
	spells := make(map[string]*spell.Spell, len(defs))
	var errs []error
	for _, key := range defs.Keys() {
		def := defs[key]
		s, err := spell.New(spell.Definition{
			Key:         key,
			Class:       def.Class,
			Name:        def.Name,
			Description: def.Description,
			Parameters:  spell.Parameters(def.Parameters),
			Messages:    def.Messages,
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		spells[s.Key()] = s
	}
	return spells, errors.Join(errs...)
}

// Config returns the current configuration.
func (c *Controller) Config() config.Config {
	return c.conf.Load()
}

// Spell returns the spell with the key passed.
func (c *Controller) Spell(key string) (*spell.Spell, bool) {
	s, ok := c.spells.Load()[strings.ToLower(key)]
	return s, ok
}

// Spells returns all loaded spells sorted by key.
func (c *Controller) Spells() []*spell.Spell {
	spells := c.spells.Load()
	sorted := make([]*spell.Spell, 0, len(spells))
	for _, key := range slices.Sorted(maps.Keys(spells)) {
		sorted = append(sorted, spells[key])
	}
	return sorted
}

// Materials ...
func (c *Controller) Materials() *material.Manager {
	return c.materials.Load()
}

// DefaultDestructible returns the set configured as defaults.destructible.
func (c *Controller) DefaultDestructible() material.Set {
	return c.Materials().FromConfig(c.Config().Defaults.Destructible, nil)
}

// DefaultIndestructible returns the set configured as
// defaults.indestructible.
func (c *Controller) DefaultIndestructible() material.Set {
	return c.Materials().FromConfig(c.Config().Defaults.Indestructible, nil)
}

// Lock protects the block at pos in the world of dim against all spells.
func (c *Controller) Lock(dim string, pos cube.Pos) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locked[place{dim, pos}] = struct{}{}
}

// Unlock ...
func (c *Controller) Unlock(dim string, pos cube.Pos) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.locked, place{dim, pos})
}

// Locked ...
func (c *Controller) Locked(dim string, pos cube.Pos) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.locked[place{dim, pos}]
	return ok
}

// Breakable returns the breakable tag of the block at pos.
func (c *Controller) Breakable(dim string, pos cube.Pos) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.breakables[place{dim, pos}]
	return n, ok
}

// SetBreakable tags the block at pos as breakable. n is the number of hops a
// break spreads from it.
func (c *Controller) SetBreakable(dim string, pos cube.Pos, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.breakables[place{dim, pos}] = n
}

// ClearBreakable ...
func (c *Controller) ClearBreakable(dim string, pos cube.Pos) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.breakables, place{dim, pos})
}

// Modified returns the block at pos before a pending temporary change
// replaced it.
func (c *Controller) Modified(dim string, pos cube.Pos) (world.Block, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range c.temporary {
		if !l.In(dim) {
			continue
		}
		if b, ok := l.Prior(pos); ok {
			return b, true
		}
	}
	return nil, false
}

// Pending returns the temporary undo lists that were not reverted yet,
// oldest first.
func (c *Controller) Pending() []*undo.List {
	c.mu.Lock()
	lists := slices.Collect(maps.Values(c.temporary))
	c.mu.Unlock()
	slices.SortFunc(lists, func(a, b *undo.List) int { return a.Created().Compare(b.Created()) })
	return lists
}

// Logger ...
func (c *Controller) Logger() logrus.FieldLogger {
	return c.log
}

// Cast casts the spell with the key passed on behalf of the entity e. A mage
// is created for e if it has none yet.
func (c *Controller) Cast(tx *world.Tx, e world.Entity, key string, params spell.Parameters) (spell.Result, error) {
	m, ok := c.MageOf(e)
	if !ok {
		m = c.Join(e.H().UUID(), nameOf(e))
	}
	return c.CastWith(host.NewTx(tx), host.NewScheduler(tx.World(), c.log), m.Bind(e), key, params)
}

// CastWith casts the spell with the key passed in w. Automatic reversals of
// the cast are scheduled on sched.
func (c *Controller) CastWith(w spell.World, sched undo.Scheduler, caster spell.Caster, key string, params spell.Parameters) (spell.Result, error) {
	s, ok := c.Spell(key)
	if !ok {
		return spell.Result{}, fmt.Errorf("%w %q", spell.ErrUnknownSpell, key)
	}
	res := s.Cast(caster, session{Controller: c, sched: sched}, w, params)
	c.log.WithFields(logrus.Fields{
		"spell":   s.Key(),
		"caster":  caster.Name(),
		"success": res.Success,
	}).Info("Spell cast.")
	return res, nil
}

// register hands l to the undo queue of the caster and arms its automatic
// reversal. Temporary lists are journaled until they are reverted.
func (c *Controller) register(caster spell.Caster, l *undo.List, sched undo.Scheduler) {
	if m, ok := c.Mage(caster.ID()); ok {
		m.queue.Push(l)
	}
	if l.Temporary() {
		c.mu.Lock()
		c.temporary[l.ID()] = l
		c.mu.Unlock()
		l.OnDone(c.settle)

		if c.journal != nil {
			if err := c.journal.Record(l); err != nil {
				c.log.WithError(err).WithField("list", l.ID()).Warn("Could not journal temporary changes.")
			}
		}
	}
	l.Schedule(sched)
}

// settle forgets a temporary list once it was reverted or committed.
func (c *Controller) settle(l *undo.List) {
	c.mu.Lock()
	delete(c.temporary, l.ID())
	c.mu.Unlock()

	if c.journal != nil {
		if err := c.journal.Forget(l.ID()); err != nil {
			c.log.WithError(err).WithField("list", l.ID()).Warn("Could not remove journal entry.")
		}
	}
}

// Undo reverts the newest spell of the mage with the id passed.
func (c *Controller) Undo(tx undo.Tx, id uuid.UUID) (*undo.List, bool) {
	m, ok := c.Mage(id)
	if !ok {
		return nil, false
	}
	l, ok := m.queue.Undo(tx)
	if ok {
		c.log.WithFields(logrus.Fields{
			"spell":  l.Spell(),
			"caster": m.name,
			"size":   l.Size(),
		}).Debug("Undid spell.")
	}
	return l, ok
}

// Shutdown reverts every temporary change that is still pending, newest
// first, each in the world it was made in. It returns how many lists were
// reverted.
func (c *Controller) Shutdown(ws undo.Worlds) int {
	n := 0
	for _, l := range slices.Backward(c.Pending()) {
		reverted := false
		ok := ws.Exec(l.Dimension(), func(tx undo.Tx) {
			reverted = l.Undo(tx)
		})
		if !ok {
			c.log.WithFields(logrus.Fields{"list": l.ID(), "dimension": l.Dimension()}).Warn("Could not revert temporary changes in unknown world.")
			continue
		}
		if reverted {
			n++
		}
	}
	if n > 0 {
		c.log.WithField("lists", n).Info("Reverted temporary spell changes.")
	}
	return n
}

// Recover restores the blocks of temporary changes a previous run could not
// revert.
func (c *Controller) Recover(ws undo.Worlds) (int, error) {
	if c.journal == nil {
		return 0, nil
	}
	return c.journal.Recover(ws)
}

// session is the Controller as seen by a single cast: it registers undo lists
// with the scheduler of the world the cast happened in.
type session struct {
	*Controller
	sched undo.Scheduler
}

// Register ...
func (s session) Register(c spell.Caster, l *undo.List) {
	s.register(c, l, s.sched)
}

// Mage ...
func (s session) Mage(id uuid.UUID) (spell.Caster, bool) {
	m, ok := s.Controller.Mage(id)
	if !ok {
		return nil, false
	}
	return m, true
}
