package spells

import (
	"time"

	"github.com/bedrock-gophers/magic/spell"
	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/df-mc/dragonfly/server/world/sound"
)

// CushionTimeToLive is how long a cushion stays before it drains.
const CushionTimeToLive = 7000 * time.Millisecond

// Cushion places a block of still water on the block the caster aims at, so
// that falling onto it does no harm. The water only fills air and drains by
// itself after CushionTimeToLive.
type Cushion struct {
	width, height int
}

// Load ...
func (c *Cushion) Load(params spell.Parameters) {
	c.width = max(params.Int(3, "width"), 1)
	c.height = max(params.Int(4, "height"), 1)
}

// Cast ...
func (c *Cushion) Cast(ctx *spell.Context) spell.Result {
	t := ctx.FindTarget()
	if !t.HasBlock() {
		return noTarget(ctx)
	}
	width := max(ctx.Params.Int(c.width, "width"), 1)
	height := max(ctx.Params.Int(c.height, "height"), 1)

	l := ctx.UndoList()
	l.SetTimeToLive(ctx.Params.Duration(CushionTimeToLive, "ttl"))

	base := t.Pos.Side(t.Face)
	opts := &world.SetOpts{DisableBlockUpdates: true, DisableLiquidDisplacement: true}
	water := block.Water{Still: true, Depth: 8}
	start := -width / 2
	for dx := start; dx < start+width; dx++ {
		for dz := start; dz < start+width; dz++ {
			for dy := range height {
				pos := base.Add(cube.Pos{dx, dy, dz})
				b := ctx.World.Block(pos)
				if _, ok := b.(block.Air); !ok || !ctx.IsDestructible(pos, b) {
					continue
				}
				ctx.SetBlock(pos, water, opts)
			}
		}
	}
	ctx.World.PlaySound(base.Vec3Centre(), sound.BucketEmpty{Liquid: water})
	return spell.Succeed(ctx.Message("cast", "Happy landings"))
}
