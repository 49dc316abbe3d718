package spells

import (
	"github.com/bedrock-gophers/magic/spell"
	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/world/particle"
)

// Disintegrate destroys the block the caster aims at. Breakable blocks are
// broken together with the breakable blocks connected to them.
type Disintegrate struct{}

// Cast ...
func (Disintegrate) Cast(ctx *spell.Context) spell.Result {
	t := ctx.FindTarget()
	if !t.HasBlock() {
		return noTarget(ctx)
	}
	b := ctx.World.Block(t.Pos)
	if _, ok := b.(block.Air); ok {
		// The target was breakable and broke while it was targeted.
		return spell.Succeed(ctx.Message("cast", ""))
	}
	if !ctx.IsDestructible(t.Pos, b) {
		return spell.Fail(ctx.Message("indestructible", "That block can't be destroyed"))
	}
	ctx.SetBlock(t.Pos, block.Air{}, nil)
	ctx.World.AddParticle(t.Pos.Vec3Centre(), particle.BlockBreak{Block: b})
	return spell.Succeed(ctx.Message("cast", ""))
}
