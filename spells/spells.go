// Package spells implements the spell classes that spells.yml refers to.
// Importing the package registers all of them.
package spells

import (
	"github.com/bedrock-gophers/magic/spell"
)

func init() {
	spell.RegisterClass("cushion", func() spell.Handler { return &Cushion{} })
	spell.RegisterClass("tree", func() spell.Handler { return Tree{} })
	spell.RegisterClass("blink", func() spell.Handler { return Blink{} })
	spell.RegisterClass("fling", func() spell.Handler { return Fling{} })
	spell.RegisterClass("aura", func() spell.Handler { return Aura{} })
	spell.RegisterClass("familiar", func() spell.Handler { return Familiar{} })
	spell.RegisterClass("disintegrate", func() spell.Handler { return Disintegrate{} })
	spell.RegisterClass("fill", func() spell.Handler { return Fill{} })
}

// noTarget is the failure returned when a spell found nothing to act on.
func noTarget(ctx *spell.Context) spell.Result {
	return spell.Fail(ctx.Message("no_target", "No target"))
}
