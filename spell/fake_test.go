package spell

import (
	"io"

	"github.com/bedrock-gophers/magic/material"
	"github.com/bedrock-gophers/magic/undo"
	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/entity/effect"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type fakeWorld struct {
	dim       string
	blocks    map[cube.Pos]world.Block
	entities  map[uuid.UUID]undo.Entity
	particles int
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{dim: "overworld", blocks: map[cube.Pos]world.Block{}, entities: map[uuid.UUID]undo.Entity{}}
}

func (w *fakeWorld) Block(pos cube.Pos) world.Block {
	if b, ok := w.blocks[pos]; ok {
		return b
	}
	return block.Air{}
}

func (w *fakeWorld) SetBlock(pos cube.Pos, b world.Block, _ *world.SetOpts) {
	w.blocks[pos] = b
}

func (w *fakeWorld) Entity(id uuid.UUID) (undo.Entity, bool) {
	e, ok := w.entities[id]
	return e, ok
}

func (w *fakeWorld) RemoveEntity(id uuid.UUID) bool {
	_, ok := w.entities[id]
	delete(w.entities, id)
	return ok
}

func (w *fakeWorld) EntitiesWithin(box cube.BBox) []undo.Entity {
	var s []undo.Entity
	for _, e := range w.entities {
		if box.Vec3Within(e.Position()) {
			s = append(s, e)
		}
	}
	return s
}

func (w *fakeWorld) Dimension() string                      { return w.dim }
func (w *fakeWorld) PlaySound(mgl64.Vec3, world.Sound)      {}
func (w *fakeWorld) AddParticle(mgl64.Vec3, world.Particle) { w.particles++ }
func (w *fakeWorld) Spawn(*world.EntityHandle) undo.Entity  { return nil }

func (w *fakeWorld) spawn(id uuid.UUID, pos mgl64.Vec3) *fakeEntity {
	e := &fakeEntity{id: id, pos: pos, effects: map[effect.Type]effect.Effect{}}
	w.entities[id] = e
	return e
}

func (w *fakeWorld) spawnPlayer(id uuid.UUID, pos mgl64.Vec3) *fakePlayer {
	p := &fakePlayer{fakeEntity: &fakeEntity{id: id, pos: pos, effects: map[effect.Type]effect.Effect{}}}
	w.entities[id] = p
	return p
}

type fakeEntity struct {
	id      uuid.UUID
	pos     mgl64.Vec3
	effects map[effect.Type]effect.Effect
}

func (e *fakeEntity) ID() uuid.UUID           { return e.id }
func (e *fakeEntity) Position() mgl64.Vec3    { return e.pos }
func (e *fakeEntity) Rotation() cube.Rotation { return cube.Rotation{} }

func (e *fakeEntity) Effects() []effect.Effect {
	s := make([]effect.Effect, 0, len(e.effects))
	for _, eff := range e.effects {
		s = append(s, eff)
	}
	return s
}

func (e *fakeEntity) AddEffect(eff effect.Effect) { e.effects[eff.Type()] = eff }
func (e *fakeEntity) RemoveEffect(t effect.Type)  { delete(e.effects, t) }

type fakeCaster struct {
	id                          uuid.UUID
	pos                         mgl64.Vec3
	rot                         cube.Rotation
	superPowered, bypass, super bool
	destructible                material.Set
	messages                    []string
}

func newFakeCaster() *fakeCaster {
	return &fakeCaster{id: uuid.New(), pos: mgl64.Vec3{0.5, 64, 0.5}}
}

func (c *fakeCaster) ID() uuid.UUID                { return c.id }
func (c *fakeCaster) Name() string                 { return "tester" }
func (c *fakeCaster) Position() mgl64.Vec3         { return c.pos }
func (c *fakeCaster) EyePosition() mgl64.Vec3      { return c.pos.Add(mgl64.Vec3{0, 1.62}) }
func (c *fakeCaster) Rotation() cube.Rotation      { return c.rot }
func (c *fakeCaster) Message(msg string)           { c.messages = append(c.messages, msg) }
func (c *fakeCaster) SuperPowered() bool           { return c.superPowered }
func (c *fakeCaster) Bypass() bool                 { return c.bypass }
func (c *fakeCaster) SuperProtected() bool         { return c.super }
func (c *fakeCaster) Destructible() material.Set   { return c.destructible }
func (c *fakeCaster) Indestructible() material.Set { return nil }

type fakeController struct {
	materials  *material.Manager
	breakables map[cube.Pos]int
	locked     map[cube.Pos]bool
	modified   map[cube.Pos]world.Block
	mages      map[uuid.UUID]Caster
	registered []*undo.List
	log        *logrus.Logger
}

func newFakeController() *fakeController {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &fakeController{
		materials:  material.NewManager(map[string][]string{"natural": {"stone", "dirt", "grass"}}),
		breakables: map[cube.Pos]int{},
		locked:     map[cube.Pos]bool{},
		modified:   map[cube.Pos]world.Block{},
		mages:      map[uuid.UUID]Caster{},
		log:        log,
	}
}

func (c *fakeController) Materials() *material.Manager { return c.materials }

func (c *fakeController) DefaultDestructible() material.Set {
	s, _ := c.materials.Get("natural")
	return s
}

// The fake controller only tracks blocks of the overworld.
func (c *fakeController) Locked(dim string, pos cube.Pos) bool {
	return dim == "overworld" && c.locked[pos]
}

func (c *fakeController) Breakable(dim string, pos cube.Pos) (int, bool) {
	n, ok := c.breakables[pos]
	return n, ok && dim == "overworld"
}

func (c *fakeController) SetBreakable(dim string, pos cube.Pos, n int) {
	if dim == "overworld" {
		c.breakables[pos] = n
	}
}

func (c *fakeController) ClearBreakable(dim string, pos cube.Pos) {
	if dim == "overworld" {
		delete(c.breakables, pos)
	}
}

func (c *fakeController) Modified(dim string, pos cube.Pos) (world.Block, bool) {
	b, ok := c.modified[pos]
	return b, ok && dim == "overworld"
}

func (c *fakeController) Mage(id uuid.UUID) (Caster, bool) {
	m, ok := c.mages[id]
	return m, ok
}

func (c *fakeController) Register(_ Caster, l *undo.List) { c.registered = append(c.registered, l) }
func (c *fakeController) Logger() logrus.FieldLogger      { return c.log }

// fill places stone on the block the caster stands on and the blocks next to
// it, skipping blocks it may not change.
type fill struct{}

func (fill) Cast(ctx *Context) Result {
	base := cube.PosFromVec3(ctx.Caster.Position()).Side(cube.FaceDown)
	n := 0
	for _, pos := range []cube.Pos{base, base.Side(cube.FaceEast), base.Side(cube.FaceWest)} {
		if !ctx.IsDestructible(pos, ctx.World.Block(pos)) {
			continue
		}
		ctx.SetBlock(pos, block.Stone{}, nil)
		n++
	}
	if n == 0 {
		return Fail(ctx.Message("no_target", "Nothing to fill"))
	}
	return Succeed("")
}

func init() {
	RegisterClass("fill_test", func() Handler { return fill{} })
}

func newTestContext(params Parameters) (*Context, *fakeCaster, *fakeController, *fakeWorld) {
	s, err := New(Definition{Key: "test", Class: "fill_test", Name: "Test"})
	if err != nil {
		panic(err)
	}
	c, ctrl, w := newFakeCaster(), newFakeController(), newFakeWorld()
	return newContext(s, c, ctrl, w, s.Parameters().Merge(params)), c, ctrl, w
}

type fakePlayer struct {
	*fakeEntity
	received []string
}

func (p *fakePlayer) Message(a ...any) {
	for _, v := range a {
		p.received = append(p.received, v.(string))
	}
}
