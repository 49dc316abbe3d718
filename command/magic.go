package command

import (
	"time"

	"github.com/bedrock-gophers/magic/host"
	"github.com/bedrock-gophers/magic/magic"
	"github.com/bedrock-gophers/magic/target"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/entity"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
)

// Reload implements /magic reload.
type Reload struct {
	c      *magic.Controller
	reload func() error

	Sub cmd.SubCommand `cmd:"reload"`
}

// Run ...
func (r Reload) Run(_ cmd.Source, o *cmd.Output, _ *world.Tx) {
	if err := r.reload(); err != nil {
		o.Errorf("Reload failed: %v", err)
		return
	}
	o.Printf("Reloaded %d spells.", len(r.c.Spells()))
}

// Allow ...
func (r Reload) Allow(src cmd.Source) bool {
	return admin(r.c, src)
}

// List implements /magic spells.
type List struct {
	c *magic.Controller

	Sub cmd.SubCommand `cmd:"spells"`
}

// Run ...
func (r List) Run(_ cmd.Source, o *cmd.Output, _ *world.Tx) {
	for _, s := range r.c.Spells() {
		o.Printf("%v: %v", s.Key(), s.Description())
	}
}

// Pending implements /magic pending. It lists the temporary spells that were
// not reverted yet.
type Pending struct {
	c *magic.Controller

	Sub cmd.SubCommand `cmd:"pending"`
}

// Run ...
func (r Pending) Run(_ cmd.Source, o *cmd.Output, _ *world.Tx) {
	lists := r.c.Pending()
	if len(lists) == 0 {
		o.Print("No temporary spells are pending.")
		return
	}
	now := time.Now()
	for _, l := range lists {
		o.Printf("%v: %d changes, reverted in %v", l.Spell(), l.Size(), l.Created().Add(l.Expiry()).Sub(now).Round(time.Second))
	}
}

// Allow ...
func (r Pending) Allow(src cmd.Source) bool {
	return admin(r.c, src)
}

// Lock implements /magic lock. It protects the block the player looks at
// against all spells.
type Lock struct {
	c *magic.Controller

	Sub cmd.SubCommand `cmd:"lock"`
}

// Run ...
func (r Lock) Run(src cmd.Source, o *cmd.Output, tx *world.Tx) {
	dim, pos, ok := lookedAt(src, tx)
	if !ok {
		o.Error("You are not looking at a block.")
		return
	}
	r.c.Lock(dim, pos)
	o.Printf("Locked %v.", pos)
}

// Allow ...
func (r Lock) Allow(src cmd.Source) bool {
	return admin(r.c, src)
}

// Unlock implements /magic unlock.
type Unlock struct {
	c *magic.Controller

	Sub cmd.SubCommand `cmd:"unlock"`
}

// Run ...
func (r Unlock) Run(src cmd.Source, o *cmd.Output, tx *world.Tx) {
	dim, pos, ok := lookedAt(src, tx)
	if !ok {
		o.Error("You are not looking at a block.")
		return
	}
	if !r.c.Locked(dim, pos) {
		o.Errorf("%v is not locked.", pos)
		return
	}
	r.c.Unlock(dim, pos)
	o.Printf("Unlocked %v.", pos)
}

// Allow ...
func (r Unlock) Allow(src cmd.Source) bool {
	return admin(r.c, src)
}

const lookDistance = 16

// lookedAt returns the dimension and position of the block the player looks
// at.
func lookedAt(src cmd.Source, tx *world.Tx) (string, cube.Pos, bool) {
	p, ok := src.(*player.Player)
	if !ok {
		return "", cube.Pos{}, false
	}
	w := host.NewTx(tx)
	t := target.Trace(w, entity.EyePosition(p), target.Direction(p.Rotation()), lookDistance, target.Passable)
	return w.Dimension(), t.Pos, t.HasBlock()
}
