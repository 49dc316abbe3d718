package spells

import (
	"time"

	"github.com/bedrock-gophers/magic/spell"
	"github.com/df-mc/dragonfly/server/world/sound"
)

// Aura applies potion effects to every living entity around the caster, or
// around the target when the spell does not target the caster.
type Aura struct{}

// Cast ...
func (Aura) Cast(ctx *spell.Context) spell.Result {
	origin := ctx.Caster.Position()
	if ctx.TargetType() != spell.TargetSelf {
		t := ctx.FindTarget()
		if !t.Valid() {
			return noTarget(ctx)
		}
		origin = t.Location()
	}

	effects, err := ctx.Params.Effects("effects", ctx.Params.Duration(15*time.Second, "duration"))
	if err != nil {
		ctx.Log.WithError(err).Warn("Invalid aura effects.")
		return spell.Fail(ctx.Message("fail", "The aura fizzles"))
	}
	if n := ctx.ApplyPotionEffects(origin, ctx.Params.Float(8, "radius"), effects); n == 0 {
		return noTarget(ctx)
	}
	ctx.World.PlaySound(origin, sound.Pop{})
	return spell.Succeed(ctx.Message("cast", ""))
}
