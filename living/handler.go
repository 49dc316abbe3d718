package living

import (
	"time"

	"github.com/df-mc/dragonfly/server/event"
	"github.com/df-mc/dragonfly/server/world"
)

// Context is the event context passed to a Handler.
type Context = event.Context[*Living]

// Handler handles the events of a creature.
type Handler interface {
	// HandleTick handles the creature being ticked. Cancelling ctx skips the
	// movement of the tick.
	HandleTick(ctx *Context, tx *world.Tx)
	// HandleHurt handles the creature being hurt.
	HandleHurt(ctx *Context, damage float64, immune bool, immunity *time.Duration, src world.DamageSource)
	// HandleDespawn handles the creature despawning because its lifetime
	// ran out.
	HandleDespawn(l *Living, tx *world.Tx)
}

// NopHandler implements Handler without doing anything.
type NopHandler struct{}

var _ Handler = NopHandler{}

func (NopHandler) HandleTick(*Context, *world.Tx) {}
func (NopHandler) HandleHurt(*Context, float64, bool, *time.Duration, world.DamageSource) {
}
func (NopHandler) HandleDespawn(*Living, *world.Tx) {}
