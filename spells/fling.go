package spells

import (
	"github.com/bedrock-gophers/magic/spell"
	"github.com/bedrock-gophers/magic/target"
	"github.com/bedrock-gophers/magic/undo"
	"github.com/go-gl/mathgl/mgl64"
)

// Fling throws the entity the caster aims at in the direction the caster
// looks. If no entity is targeted, the caster itself is thrown.
type Fling struct{}

// Cast ...
func (Fling) Cast(ctx *spell.Context) spell.Result {
	t := ctx.FindTarget()
	e := t.Entity
	if !t.HasEntity() {
		self, ok := ctx.World.Entity(ctx.Caster.ID())
		if !ok {
			return noTarget(ctx)
		}
		e = self
	}
	m, ok := undo.As[undo.Mover](e)
	if !ok {
		return noTarget(ctx)
	}

	power, up := ctx.Params.Float(1.5, "power"), ctx.Params.Float(0.8, "up")
	v := target.Direction(ctx.Caster.Rotation()).Mul(power).Add(mgl64.Vec3{0, up, 0})
	ctx.RegisterVelocity(e)
	m.SetVelocity(m.Velocity().Add(v))
	return spell.Succeed(ctx.Message("cast", ""))
}
