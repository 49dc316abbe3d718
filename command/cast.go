package command

import (
	"github.com/bedrock-gophers/magic/host"
	"github.com/bedrock-gophers/magic/magic"
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/sirupsen/logrus"
)

// Cast implements /cast <spell> [parameters].
type Cast struct {
	c *magic.Controller

	Spell      string                   `cmd:"spell"`
	Parameters cmd.Optional[cmd.Varargs] `cmd:"parameters"`
}

// Run ...
func (r Cast) Run(src cmd.Source, o *cmd.Output, tx *world.Tx) {
	p, ok := src.(*player.Player)
	if !ok {
		o.Error("Only players can cast spells.")
		return
	}
	args, _ := r.Parameters.Load()
	res, err := r.c.Cast(tx, p, r.Spell, castParameters(string(args), admin(r.c, src)))
	if err != nil {
		o.Errorf("%v", err)
		return
	}
	if !res.Success && res.Message == "" {
		o.Errorf("Casting %v failed.", r.Spell)
	}
}

// Undo implements /undo.
type Undo struct {
	c *magic.Controller
}

// Run ...
func (r Undo) Run(src cmd.Source, o *cmd.Output, tx *world.Tx) {
	p, ok := src.(*player.Player)
	if !ok {
		o.Error("Only players can undo spells.")
		return
	}
	l, ok := r.c.Undo(host.NewTx(tx), p.H().UUID())
	if !ok {
		o.Error("Nothing to undo.")
		return
	}
	o.Printf("Undid %v (%d changes).", l.Spell(), l.Size())
}

// UndoAll implements /undo all.
type UndoAll struct {
	c *magic.Controller

	Sub cmd.SubCommand `cmd:"all"`
}

// Run ...
func (r UndoAll) Run(src cmd.Source, o *cmd.Output, tx *world.Tx) {
	p, ok := src.(*player.Player)
	if !ok {
		o.Error("Only players can undo spells.")
		return
	}
	m, ok := r.c.MageOf(p)
	if !ok {
		o.Error("Nothing to undo.")
		return
	}
	o.Printf("Undid %d spells.", m.Queue().UndoAll(host.NewTx(tx)))
}

// Wand implements /wand. It gives the player a wand and tells it the spell
// the wand is set to.
type Wand struct {
	c *magic.Controller
}

// Run ...
func (r Wand) Run(src cmd.Source, o *cmd.Output, tx *world.Tx) {
	p, ok := src.(*player.Player)
	if !ok {
		o.Error("Only players can hold a wand.")
		return
	}
	m, ok := r.c.MageOf(p)
	if !ok {
		m = r.c.Join(p.H().UUID(), p.Name())
	}
	key, ok := m.Wand()
	if !ok {
		o.Error("No wand spells are configured.")
		return
	}
	if _, err := p.Inventory().AddItem(NewWand()); err != nil {
		r.c.Logger().WithFields(logrus.Fields{"player": p.Name()}).WithError(err).Debug("Could not give wand.")
		o.Error("Your inventory is full.")
		return
	}
	o.Printf("Your wand casts %v. Sneak and use it to switch spells.", key)
}

// NewWand returns the wand item.
func NewWand() item.Stack {
	return item.NewStack(item.BlazeRod{}, 1).WithCustomName("Wand")
}

// IsWand reports whether s is a wand.
func IsWand(s item.Stack) bool {
	_, ok := s.Item().(item.BlazeRod)
	return ok && s.CustomName() == "Wand"
}
