package spells

import (
	"github.com/bedrock-gophers/magic/spell"
	"github.com/bedrock-gophers/magic/target"
	"github.com/bedrock-gophers/magic/undo"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world/particle"
	"github.com/df-mc/dragonfly/server/world/sound"
)

// Blink teleports the caster on top of the block it aims at.
type Blink struct{}

// Cast ...
func (Blink) Cast(ctx *spell.Context) spell.Result {
	t := ctx.FindTarget()
	if !t.HasBlock() {
		return noTarget(ctx)
	}
	e, ok := ctx.World.Entity(ctx.Caster.ID())
	if !ok {
		return noTarget(ctx)
	}
	tp, ok := undo.As[undo.Teleporter](e)
	if !ok {
		return noTarget(ctx)
	}
	dest, ok := landing(ctx, t.Pos, ctx.Params.Int(8, "climb"))
	if !ok {
		return noTarget(ctx)
	}

	from := e.Position()
	ctx.RegisterMoved(e)
	tp.Teleport(dest.Vec3Middle())

	ctx.World.AddParticle(from, particle.EndermanTeleport{})
	ctx.World.PlaySound(from, sound.Teleport{})
	ctx.World.PlaySound(dest.Vec3Middle(), sound.Teleport{})
	return spell.Succeed(ctx.Message("cast", ""))
}

// landing returns the first position above pos where an entity two blocks
// tall fits, searching at most climb blocks up.
func landing(ctx *spell.Context, pos cube.Pos, climb int) (cube.Pos, bool) {
	for range max(climb, 1) {
		pos = pos.Side(cube.FaceUp)
		if target.Passable(ctx.World.Block(pos)) && target.Passable(ctx.World.Block(pos.Side(cube.FaceUp))) {
			return pos, true
		}
	}
	return pos, false
}
