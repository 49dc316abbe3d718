package spells

import (
	"github.com/bedrock-gophers/magic/material"
	"github.com/bedrock-gophers/magic/spell"
	"github.com/bedrock-gophers/magic/undo"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/df-mc/dragonfly/server/world/sound"
)

// Fill replaces the blocks in a cube around the targeted block with a
// material. With a breakable parameter the placed blocks are tagged
// breakable, so that a single hit on one of them breaks the rest.
type Fill struct{}

// Cast ...
func (Fill) Cast(ctx *spell.Context) spell.Result {
	t := ctx.FindTarget()
	if !t.HasBlock() {
		return noTarget(ctx)
	}
	name := material.Normalise(ctx.Params.String("stone", "material"))
	m, ok := world.BlockByName(name, map[string]any{})
	if !ok {
		return spell.Fail(ctx.Message("unknown_material", "There is no such material"))
	}
	r := max(ctx.Params.Int(1, "radius"), 0)
	breakable := ctx.Params.Int(0, "breakable")
	// Tags are only cleared when the changes are reverted.
	if !ctx.Undoable() {
		breakable = 0
	}
	dim := ctx.World.Dimension()

	var tagged []cube.Pos
	for x := -r; x <= r; x++ {
		for y := -r; y <= r; y++ {
			for z := -r; z <= r; z++ {
				pos := t.Pos.Add(cube.Pos{x, y, z})
				b := ctx.World.Block(pos)
				if material.Name(b) == name || !ctx.IsDestructible(pos, b) {
					continue
				}
				ctx.SetBlock(pos, m, nil)
				if breakable > 0 {
					ctx.Controller.SetBreakable(dim, pos, breakable)
					tagged = append(tagged, pos)
				}
			}
		}
	}
	// The message counts the placed blocks only, so it is built before the
	// tags are registered for removal.
	msg := ctx.Message("cast", "")
	if len(tagged) > 0 {
		ctrl := ctx.Controller
		ctx.RegisterFunc(func(undo.Tx) {
			for _, pos := range tagged {
				ctrl.ClearBreakable(dim, pos)
			}
		})
	}
	ctx.World.PlaySound(t.Pos.Vec3Centre(), sound.BlockPlace{Block: m})
	return spell.Succeed(msg)
}
