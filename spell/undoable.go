package spell

import (
	"strings"

	"github.com/bedrock-gophers/magic/target"
	"github.com/bedrock-gophers/magic/undo"
	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/entity/effect"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/df-mc/dragonfly/server/world/particle"
	"github.com/go-gl/mathgl/mgl64"
)

// UndoList returns the undo list of the invocation, creating it on first use.
func (ctx *Context) UndoList() *undo.List {
	if ctx.list == nil {
		ctx.list = undo.NewList(ctx.Spell.Key(), ctx.Caster.ID())
		ctx.list.SetDimension(ctx.World.Dimension())
		ctx.list.SetBypass(ctx.bypassUndo)
		ctx.list.SetScheduleUndo(ctx.undoDelay)
	}
	return ctx.list
}

// Undoable reports whether the changes of the invocation are recorded.
func (ctx *Context) Undoable() bool {
	return !ctx.bypassUndo
}

// ScheduledUndo reports whether the invocation is reverted automatically.
func (ctx *Context) ScheduledUndo() bool {
	return ctx.undoDelay > 0
}

// ModifiedCount returns the number of changes recorded so far.
func (ctx *Context) ModifiedCount() int {
	if ctx.list == nil {
		return 0
	}
	return ctx.list.Size()
}

// Contains reports whether the block at pos was already changed by the
// invocation.
func (ctx *Context) Contains(pos cube.Pos) bool {
	return ctx.list != nil && ctx.list.Contains(pos)
}

// RegisterBlock records the block at pos before it is changed.
func (ctx *Context) RegisterBlock(pos cube.Pos) {
	ctx.UndoList().AddBlock(ctx.World, pos)
}

// SetBlock records the block at pos and replaces it with b.
func (ctx *Context) SetBlock(pos cube.Pos, b world.Block, opts *world.SetOpts) {
	ctx.RegisterBlock(pos)
	ctx.World.SetBlock(pos, b, opts)
}

// RegisterEntity records an entity the spell created.
func (ctx *Context) RegisterEntity(e undo.Entity) {
	ctx.UndoList().AddEntity(e)
}

// RegisterModified records all state of e before it is changed.
func (ctx *Context) RegisterModified(e undo.Entity) {
	ctx.UndoList().Modify(e)
}

// RegisterMoved records the position of e before it is moved.
func (ctx *Context) RegisterMoved(e undo.Entity) {
	ctx.UndoList().Move(e)
}

// RegisterVelocity records the velocity of e before it is changed.
func (ctx *Context) RegisterVelocity(e undo.Entity) {
	ctx.UndoList().ModifyVelocity(e)
}

// RegisterPotionEffects records the effects of e before new ones are applied.
func (ctx *Context) RegisterPotionEffects(e undo.Entity) {
	ctx.UndoList().AddPotionEffects(e)
}

// RegisterFunc registers f to be run when the invocation is reverted.
func (ctx *Context) RegisterFunc(f func(tx undo.Tx)) {
	ctx.UndoList().AddFunc(f)
}

// Watch tracks e with the invocation's undo list.
func (ctx *Context) Watch(e undo.Entity) {
	if e == nil {
		return
	}
	ctx.UndoList().Watch(e)
}

// BreakBlock breaks the breakable block at pos and the breakable blocks
// connected to it. Every hop away from pos costs one from the budget passed;
// blocks are broken while the remaining budget is above zero. The number of
// blocks broken is returned.
func (ctx *Context) BreakBlock(pos cube.Pos, budget int) int {
	type hop struct {
		pos    cube.Pos
		budget int
	}
	var (
		queue   = []hop{{pos, budget}}
		visited = map[cube.Pos]struct{}{pos: {}}
		broken  int
	)
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if h.budget <= 0 {
			continue
		}
		if _, ok := ctx.Controller.Breakable(ctx.World.Dimension(), h.pos); !ok {
			continue
		}
		b := ctx.World.Block(h.pos)
		ctx.World.AddParticle(h.pos.Vec3Centre(), particle.BlockBreak{Block: b})
		ctx.Controller.ClearBreakable(ctx.World.Dimension(), h.pos)
		ctx.World.SetBlock(h.pos, block.Air{}, nil)
		broken++

		if h.budget-1 <= 0 {
			continue
		}
		for _, f := range cube.Faces() {
			next := h.pos.Side(f)
			if _, ok := visited[next]; ok {
				continue
			}
			visited[next] = struct{}{}
			queue = append(queue, hop{next, h.budget - 1})
		}
	}
	return broken
}

// breakTarget breaks the targeted block if it is breakable and the spell
// targets breakables.
func (ctx *Context) breakTarget() {
	if ctx.targetBreakables <= 0 || !ctx.Target.HasBlock() {
		return
	}
	if n, ok := ctx.Controller.Breakable(ctx.World.Dimension(), ctx.Target.Pos); ok {
		ctx.BreakBlock(ctx.Target.Pos, n+ctx.targetBreakables-1)
	}
}

// messenger is an entity that can receive chat messages, such as a player.
type messenger interface {
	Message(a ...any)
}

// ApplyPotionEffects applies effects to the living entities strictly less
// than radius away from origin and returns how many were affected. The caster
// is skipped unless the spell may target itself, as are super protected
// mages and entities not matching the target_entity parameter.
func (ctx *Context) ApplyPotionEffects(origin mgl64.Vec3, radius float64, effects []effect.Effect) int {
	if len(effects) == 0 || radius <= 0 {
		return 0
	}
	kind := strings.ToLower(ctx.Params.String("", "target_entity"))
	radiusSquared := radius * radius

	var n int
	for _, e := range target.Nearby(ctx.World, origin, radius) {
		l, ok := undo.As[undo.Living](e)
		if !ok {
			continue
		}
		self := e.ID() == ctx.Caster.ID()
		if self && !ctx.targetType.IncludesSelf() {
			continue
		}
		if !self && ctx.protected(e.ID()) {
			continue
		}
		if kind != "" && undo.KindOf(e).String() != kind {
			continue
		}
		if e.Position().Sub(origin).LenSqr() >= radiusSquared {
			continue
		}
		ctx.RegisterPotionEffects(e)
		for _, eff := range effects {
			l.AddEffect(eff)
		}
		n++
		if m, ok := undo.As[messenger](e); ok && !self {
			if msg := ctx.Message("cast_player_message", ""); msg != "" {
				m.Message(msg)
			}
		}
	}
	return n
}
