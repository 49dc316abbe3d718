package undo

import (
	"slices"
	"sort"
	"time"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/entity/effect"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

type fakeTx struct {
	dim      string
	blocks   map[cube.Pos]world.Block
	entities map[uuid.UUID]*fakeEntity
}

func newFakeTx() *fakeTx {
	return newFakeTxIn("overworld")
}

func newFakeTxIn(dim string) *fakeTx {
	return &fakeTx{dim: dim, blocks: map[cube.Pos]world.Block{}, entities: map[uuid.UUID]*fakeEntity{}}
}

func (tx *fakeTx) Dimension() string { return tx.dim }

func (tx *fakeTx) Block(pos cube.Pos) world.Block {
	if b, ok := tx.blocks[pos]; ok {
		return b
	}
	return block.Air{}
}

func (tx *fakeTx) SetBlock(pos cube.Pos, b world.Block, _ *world.SetOpts) {
	tx.blocks[pos] = b
}

func (tx *fakeTx) Entity(id uuid.UUID) (Entity, bool) {
	e, ok := tx.entities[id]
	return e, ok
}

func (tx *fakeTx) RemoveEntity(id uuid.UUID) bool {
	_, ok := tx.entities[id]
	delete(tx.entities, id)
	return ok
}

func (tx *fakeTx) spawn(pos mgl64.Vec3) *fakeEntity {
	e := &fakeEntity{id: uuid.New(), pos: pos, effects: map[effect.Type]effect.Effect{}}
	tx.entities[e.id] = e
	return e
}

type fakeEntity struct {
	id      uuid.UUID
	pos     mgl64.Vec3
	rot     cube.Rotation
	vel     mgl64.Vec3
	fire    time.Duration
	name    string
	effects map[effect.Type]effect.Effect
}

func (e *fakeEntity) ID() uuid.UUID                 { return e.id }
func (e *fakeEntity) Position() mgl64.Vec3          { return e.pos }
func (e *fakeEntity) Rotation() cube.Rotation       { return e.rot }
func (e *fakeEntity) Teleport(pos mgl64.Vec3)       { e.pos = pos }
func (e *fakeEntity) Velocity() mgl64.Vec3          { return e.vel }
func (e *fakeEntity) SetVelocity(v mgl64.Vec3)      { e.vel = v }
func (e *fakeEntity) OnFireDuration() time.Duration { return e.fire }
func (e *fakeEntity) SetOnFire(d time.Duration)     { e.fire = d }
func (e *fakeEntity) NameTag() string               { return e.name }
func (e *fakeEntity) SetNameTag(name string)        { e.name = name }

func (e *fakeEntity) Move(_ mgl64.Vec3, deltaYaw, deltaPitch float64) {
	e.rot = cube.Rotation{e.rot.Yaw() + deltaYaw, e.rot.Pitch() + deltaPitch}
}

func (e *fakeEntity) Effects() []effect.Effect {
	s := make([]effect.Effect, 0, len(e.effects))
	for _, eff := range e.effects {
		s = append(s, eff)
	}
	return s
}

func (e *fakeEntity) AddEffect(eff effect.Effect)  { e.effects[eff.Type()] = eff }
func (e *fakeEntity) RemoveEffect(t effect.Type)   { delete(e.effects, t) }
func (e *fakeEntity) hasEffect(t effect.Type) bool { _, ok := e.effects[t]; return ok }

// manualScheduler runs tasks when the test advances its clock.
type manualScheduler struct {
	tx    Tx
	now   time.Duration
	tasks []*manualTask
}

type manualTask struct {
	at        time.Duration
	f         func(tx Tx)
	cancelled bool
}

func (s *manualScheduler) Schedule(delay time.Duration, task func(tx Tx)) func() {
	t := &manualTask{at: s.now + delay, f: task}
	s.tasks = append(s.tasks, t)
	return func() { t.cancelled = true }
}

func (s *manualScheduler) Advance(d time.Duration) {
	s.now += d
	due := slices.DeleteFunc(slices.Clone(s.tasks), func(t *manualTask) bool { return t.at > s.now })
	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		if !t.cancelled {
			t.cancelled = true
			t.f(s.tx)
		}
	}
}

func (s *manualScheduler) pending() int {
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}
