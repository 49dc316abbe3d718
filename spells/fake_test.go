package spells

import (
	"io"
	"time"

	"github.com/bedrock-gophers/magic/config"
	"github.com/bedrock-gophers/magic/magic"
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
	blocks   map[cube.Pos]world.Block
	entities map[uuid.UUID]*fakeEntity
	spawned  []*world.EntityHandle
}

func newFakeWorld() *fakeWorld {
	w := &fakeWorld{blocks: map[cube.Pos]world.Block{}, entities: map[uuid.UUID]*fakeEntity{}}
	for x := -4; x <= 4; x++ {
		for z := -4; z <= 4; z++ {
			w.blocks[cube.Pos{x, 64, z}] = block.Stone{}
		}
	}
	return w
}

func (w *fakeWorld) Block(pos cube.Pos) world.Block {
	if b, ok := w.blocks[pos]; ok {
		return b
	}
	return block.Air{}
}

func (w *fakeWorld) SetBlock(pos cube.Pos, b world.Block, _ *world.SetOpts) { w.blocks[pos] = b }

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
		if box.Vec3Within(e.pos) {
			s = append(s, e)
		}
	}
	return s
}

func (w *fakeWorld) Dimension() string                      { return "overworld" }
func (w *fakeWorld) PlaySound(mgl64.Vec3, world.Sound)      {}
func (w *fakeWorld) AddParticle(mgl64.Vec3, world.Particle) {}

func (w *fakeWorld) Spawn(h *world.EntityHandle) undo.Entity {
	w.spawned = append(w.spawned, h)
	return w.add(h.UUID(), mgl64.Vec3{})
}

func (w *fakeWorld) add(id uuid.UUID, pos mgl64.Vec3) *fakeEntity {
	e := &fakeEntity{id: id, pos: pos, effects: map[effect.Type]effect.Effect{}}
	w.entities[id] = e
	return e
}

type fakeEntity struct {
	id      uuid.UUID
	pos     mgl64.Vec3
	vel     mgl64.Vec3
	effects map[effect.Type]effect.Effect
}

func (e *fakeEntity) ID() uuid.UUID            { return e.id }
func (e *fakeEntity) Position() mgl64.Vec3     { return e.pos }
func (e *fakeEntity) Rotation() cube.Rotation  { return cube.Rotation{} }
func (e *fakeEntity) Teleport(pos mgl64.Vec3)  { e.pos = pos }
func (e *fakeEntity) Velocity() mgl64.Vec3     { return e.vel }
func (e *fakeEntity) SetVelocity(v mgl64.Vec3) { e.vel = v }

func (e *fakeEntity) Effects() []effect.Effect {
	s := make([]effect.Effect, 0, len(e.effects))
	for _, eff := range e.effects {
		s = append(s, eff)
	}
	return s
}

func (e *fakeEntity) AddEffect(eff effect.Effect) { e.effects[eff.Type()] = eff }
func (e *fakeEntity) RemoveEffect(t effect.Type)  { delete(e.effects, t) }

// fakeCaster stands at (0.5, 66, 0.5), looking straight down by default.
type fakeCaster struct {
	id       uuid.UUID
	pos      mgl64.Vec3
	rot      cube.Rotation
	messages []string
}

func newFakeCaster() *fakeCaster {
	return &fakeCaster{id: uuid.New(), pos: mgl64.Vec3{0.5, 66, 0.5}, rot: cube.Rotation{0, 90}}
}

func (c *fakeCaster) ID() uuid.UUID                { return c.id }
func (c *fakeCaster) Name() string                 { return "tester" }
func (c *fakeCaster) Position() mgl64.Vec3         { return c.pos }
func (c *fakeCaster) EyePosition() mgl64.Vec3      { return c.pos.Add(mgl64.Vec3{0, 1.62}) }
func (c *fakeCaster) Rotation() cube.Rotation      { return c.rot }
func (c *fakeCaster) Message(msg string)           { c.messages = append(c.messages, msg) }
func (c *fakeCaster) SuperPowered() bool           { return false }
func (c *fakeCaster) Bypass() bool                 { return false }
func (c *fakeCaster) SuperProtected() bool         { return false }
func (c *fakeCaster) Destructible() material.Set   { return nil }
func (c *fakeCaster) Indestructible() material.Set { return nil }

func (c *fakeCaster) lastMessage() string {
	if len(c.messages) == 0 {
		return ""
	}
	return c.messages[len(c.messages)-1]
}

type task struct {
	delay     time.Duration
	run       func(tx undo.Tx)
	cancelled bool
}

type fakeScheduler struct {
	tasks []*task
}

func (s *fakeScheduler) Schedule(delay time.Duration, run func(tx undo.Tx)) func() {
	t := &task{delay: delay, run: run}
	s.tasks = append(s.tasks, t)
	return func() { t.cancelled = true }
}

// elapse runs the tasks due after d.
func (s *fakeScheduler) elapse(tx undo.Tx, d time.Duration) {
	for _, t := range s.tasks {
		if !t.cancelled && t.delay <= d {
			t.cancelled = true
			t.run(tx)
		}
	}
}

type env struct {
	c      *magic.Controller
	w      *fakeWorld
	sched  *fakeScheduler
	caster *fakeCaster
}

func newEnv() *env {
	log := logrus.New()
	log.SetOutput(io.Discard)
	c, err := magic.New(config.DefaultConfig(), config.DefaultSpells(), nil, log)
	if err != nil {
		panic(err)
	}
	return &env{c: c, w: newFakeWorld(), sched: &fakeScheduler{}, caster: newFakeCaster()}
}

func (e *env) cast(key string, params map[string]any) bool {
	res, err := e.c.CastWith(e.w, e.sched, e.caster, key, params)
	if err != nil {
		panic(err)
	}
	return res.Success
}
