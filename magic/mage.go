package magic

import (
	"github.com/bedrock-gophers/magic/material"
	"github.com/bedrock-gophers/magic/spell"
	"github.com/bedrock-gophers/magic/undo"
	"github.com/df-mc/atomic"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/entity"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Mage is the caster state of a player: its permissions, its own material
// rules, its wand and the spells it can undo. A Mage outlives the
// transactions its player is seen in; Bind attaches it to the player entity of
// the current transaction.
type Mage struct {
	c     *Controller
	id    uuid.UUID
	name  string
	queue *undo.Queue

	wand           atomic.Value[int]
	destructible   atomic.Value[rule]
	indestructible atomic.Value[rule]
	pos            atomic.Value[mgl64.Vec3]
	rot            atomic.Value[cube.Rotation]
}

// rule holds a material set of a mage. The zero rule has no set.
type rule struct {
	set material.Set
}

// Join returns the mage of the player with the id passed, creating it if the
// player has none yet.
func (c *Controller) Join(id uuid.UUID, name string) *Mage {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.mages[id]; ok {
		return m
	}
	m := &Mage{c: c, id: id, name: name, queue: undo.NewQueue(c.Config().Undo.MaxQueue)}
	c.mages[id] = m
	c.log.WithField("mage", name).Debug("Mage joined.")
	return m
}

// Quit forgets the mage with the id passed. Its scheduled reversals still run.
func (c *Controller) Quit(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.mages, id)
}

// Mage returns the mage with the id passed.
func (c *Controller) Mage(id uuid.UUID) (*Mage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.mages[id]
	return m, ok
}

// MageOf returns the mage of the entity e.
func (c *Controller) MageOf(e world.Entity) (*Mage, bool) {
	return c.Mage(e.H().UUID())
}

// ID ...
func (m *Mage) ID() uuid.UUID {
	return m.id
}

// Name ...
func (m *Mage) Name() string {
	return m.name
}

// Position returns the position the mage was last seen at.
func (m *Mage) Position() mgl64.Vec3 {
	return m.pos.Load()
}

// EyePosition ...
func (m *Mage) EyePosition() mgl64.Vec3 {
	return m.pos.Load().Add(mgl64.Vec3{0, 1.62})
}

// Rotation returns the rotation the mage was last seen with.
func (m *Mage) Rotation() cube.Rotation {
	return m.rot.Load()
}

// Message logs msg. A mage bound to a player entity sends it to the player
// instead.
func (m *Mage) Message(msg string) {
	m.c.log.WithField("mage", m.name).Debug(msg)
}

// SuperPowered reports whether the mage is listed in super_powered.
func (m *Mage) SuperPowered() bool {
	return m.c.Config().IsSuperPowered(m.name)
}

// Bypass reports whether the mage is listed in bypass.
func (m *Mage) Bypass() bool {
	return m.c.Config().HasBypass(m.name)
}

// SuperProtected reports whether the mage is listed in protected.
func (m *Mage) SuperProtected() bool {
	return m.c.Config().IsProtected(m.name)
}

// Destructible returns the destructible set of the mage, or nil if it uses the
// default of the spell.
func (m *Mage) Destructible() material.Set {
	return m.destructible.Load().set
}

// SetDestructible sets the materials the spells of the mage may change. A nil
// set restores the default.
func (m *Mage) SetDestructible(s material.Set) {
	m.destructible.Store(rule{set: s})
}

// Indestructible returns the indestructible set of the mage, falling back to
// the configured default.
func (m *Mage) Indestructible() material.Set {
	if s := m.indestructible.Load().set; s != nil {
		return s
	}
	return m.c.DefaultIndestructible()
}

// SetIndestructible sets the materials the spells of the mage may never
// change. A nil set restores the default.
func (m *Mage) SetIndestructible(s material.Set) {
	m.indestructible.Store(rule{set: s})
}

// Queue returns the undo queue of the mage.
func (m *Mage) Queue() *undo.Queue {
	return m.queue
}

// Wand returns the key of the spell the wand of the mage is set to.
func (m *Mage) Wand() (string, bool) {
	spells := m.c.Config().Wand.Spells
	if len(spells) == 0 {
		return "", false
	}
	return spells[m.wand.Load()%len(spells)], true
}

// NextWand moves the wand of the mage to the next spell and returns its key.
func (m *Mage) NextWand() (string, bool) {
	spells := m.c.Config().Wand.Spells
	if len(spells) == 0 {
		return "", false
	}
	i := (m.wand.Load() + 1) % len(spells)
	m.wand.Store(i)
	return spells[i], true
}

// Bind returns the mage as a caster acting through the entity e. The result
// must not be used outside the transaction e belongs to.
func (m *Mage) Bind(e world.Entity) Body {
	m.pos.Store(e.Position())
	m.rot.Store(e.Rotation())
	return Body{Mage: m, e: e}
}

// Body is a Mage bound to its entity in a transaction.
type Body struct {
	*Mage
	e world.Entity
}

var _ spell.Caster = Body{}

// Entity ...
func (b Body) Entity() world.Entity {
	return b.e
}

// Position ...
func (b Body) Position() mgl64.Vec3 {
	return b.e.Position()
}

// EyePosition ...
func (b Body) EyePosition() mgl64.Vec3 {
	return entity.EyePosition(b.e)
}

// Rotation ...
func (b Body) Rotation() cube.Rotation {
	return b.e.Rotation()
}

// Message sends msg to the entity if it can receive chat messages.
func (b Body) Message(msg string) {
	if p, ok := b.e.(interface{ Message(a ...any) }); ok {
		p.Message(msg)
		return
	}
	b.Mage.Message(msg)
}

func nameOf(e world.Entity) string {
	if n, ok := e.(interface{ Name() string }); ok {
		return n.Name()
	}
	return e.H().Type().EncodeEntity()
}
