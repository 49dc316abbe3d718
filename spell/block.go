package spell

import (
	"github.com/bedrock-gophers/magic/material"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
)

// IsIndestructible reports whether the spell may never change b at pos.
// Super powered casters and casters with the bypass permission are never
// blocked.
func (ctx *Context) IsIndestructible(pos cube.Pos, b world.Block) bool {
	if !ctx.checkIndestructible {
		return false
	}
	if ctx.Caster.SuperPowered() || ctx.Caster.Bypass() {
		return false
	}
	if ctx.Controller.Locked(ctx.World.Dimension(), pos) || ctx.indestructible.Test(b) {
		return true
	}
	s := ctx.Caster.Indestructible()
	return s != nil && s.Test(b)
}

// IsDestructible reports whether the spell may change b at pos.
func (ctx *Context) IsDestructible(pos cube.Pos, b world.Block) bool {
	if ctx.IsIndestructible(pos, b) {
		return false
	}
	if !ctx.checkDestructible {
		return true
	}
	if ctx.destructibleOverride != nil && ctx.destructibleOverride.Test(b) {
		return true
	}
	if ctx.durability > 0 && material.Hardness(b) > ctx.durability {
		return false
	}
	if ctx.targetBreakables > 0 {
		if _, ok := ctx.Controller.Breakable(ctx.World.Dimension(), pos); ok {
			return true
		}
	}
	return ctx.Destructible().Test(b)
}

// AreAnyDestructible is like IsDestructible but also accepts positions whose
// original block, before a pending spell changed it, is destructible.
func (ctx *Context) AreAnyDestructible(pos cube.Pos, b world.Block) bool {
	if ctx.IsIndestructible(pos, b) {
		return false
	}
	if !ctx.checkDestructible {
		return true
	}
	if ctx.targetBreakables > 0 {
		if _, ok := ctx.Controller.Breakable(ctx.World.Dimension(), pos); ok {
			return true
		}
	}
	all := ctx.Destructible()
	if all.Test(b) {
		return true
	}
	prior, ok := ctx.Controller.Modified(ctx.World.Dimension(), pos)
	return ok && all.Test(prior)
}

// Destructible returns the destructible set of the invocation: the spell's own
// set, else the caster's, else the controller's default. Without any of those
// everything is destructible.
func (ctx *Context) Destructible() material.Set {
	if ctx.destructible != nil {
		return ctx.destructible
	}
	if s := ctx.Caster.Destructible(); s != nil {
		return s
	}
	return ctrlDefault(ctx.Controller)
}

// Indestructible returns the indestructible set configured on the spell.
func (ctx *Context) Indestructible() material.Set {
	return ctx.indestructible
}
