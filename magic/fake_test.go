package magic

import (
	"io"
	"time"

	"github.com/bedrock-gophers/magic/config"
	"github.com/bedrock-gophers/magic/journal"
	"github.com/bedrock-gophers/magic/spell"
	"github.com/bedrock-gophers/magic/undo"
	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type fakeWorld struct {
	dim    string
	blocks map[cube.Pos]world.Block
}

func newFakeWorld() *fakeWorld {
	return newFakeWorldIn("overworld")
}

func newFakeWorldIn(dim string) *fakeWorld {
	return &fakeWorld{dim: dim, blocks: map[cube.Pos]world.Block{}}
}

func (w *fakeWorld) Block(pos cube.Pos) world.Block {
	if b, ok := w.blocks[pos]; ok {
		return b
	}
	return block.Air{}
}

func (w *fakeWorld) SetBlock(pos cube.Pos, b world.Block, _ *world.SetOpts) { w.blocks[pos] = b }
func (w *fakeWorld) Entity(uuid.UUID) (undo.Entity, bool)                   { return nil, false }
func (w *fakeWorld) RemoveEntity(uuid.UUID) bool                            { return false }
func (w *fakeWorld) EntitiesWithin(cube.BBox) []undo.Entity                 { return nil }
func (w *fakeWorld) PlaySound(mgl64.Vec3, world.Sound)                      {}
func (w *fakeWorld) AddParticle(mgl64.Vec3, world.Particle)                 {}
func (w *fakeWorld) Spawn(*world.EntityHandle) undo.Entity                  { return nil }
func (w *fakeWorld) Dimension() string                                      { return w.dim }

// fakeWorlds runs tasks directly in the fake world of a dimension.
type fakeWorlds map[string]*fakeWorld

func worldsOf(worlds ...*fakeWorld) fakeWorlds {
	ws := fakeWorlds{}
	for _, w := range worlds {
		ws[w.dim] = w
	}
	return ws
}

func (ws fakeWorlds) Exec(dim string, task func(tx undo.Tx)) bool {
	if dim == "" {
		dim = "overworld"
	}
	w, ok := ws[dim]
	if !ok {
		return false
	}
	task(w)
	return true
}

type task struct {
	delay     time.Duration
	run       func(tx undo.Tx)
	cancelled bool
}

// fakeScheduler keeps scheduled tasks until they are run by the test.
type fakeScheduler struct {
	tasks []*task
}

func (s *fakeScheduler) Schedule(delay time.Duration, run func(tx undo.Tx)) func() {
	t := &task{delay: delay, run: run}
	s.tasks = append(s.tasks, t)
	return func() { t.cancelled = true }
}

func (s *fakeScheduler) runAll(tx undo.Tx) {
	for _, t := range s.tasks {
		if !t.cancelled {
			t.run(tx)
		}
	}
	s.tasks = nil
}

// paint turns the block below the caster into glass.
type paint struct{}

func (paint) Cast(ctx *spell.Context) spell.Result {
	pos := cube.PosFromVec3(ctx.Caster.Position()).Side(cube.FaceDown)
	if !ctx.IsDestructible(pos, ctx.World.Block(pos)) {
		return spell.Fail(ctx.Message("indestructible", "Cannot paint $target"))
	}
	ctx.SetBlock(pos, block.Glass{}, nil)
	return spell.Succeed("")
}

func init() {
	spell.RegisterClass("paint_test", func() spell.Handler { return paint{} })
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testSpells() config.Spells {
	return config.Spells{
		"paint": {Class: "paint_test", Name: "Paint", Parameters: map[string]any{}},
		"flash": {Class: "paint_test", Name: "Flash", Parameters: map[string]any{"undo": 5000, "destructible": "*"}},
	}
}

func newTestController(conf config.Config, j *journal.Journal) *Controller {
	c, err := New(conf, testSpells(), j, testLogger())
	if err != nil {
		panic(err)
	}
	return c
}
