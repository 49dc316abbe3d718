package main

import (
	"github.com/bedrock-gophers/magic/command"
	"github.com/bedrock-gophers/magic/host"
	"github.com/bedrock-gophers/magic/magic"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/sirupsen/logrus"
)

// handler casts the wand spell of a player when it uses a wand. Sneaking
// while using the wand switches to the next spell. Temporary spells of a
// player are reverted when it leaves.
type handler struct {
	player.NopHandler
	c *magic.Controller
}

func (h handler) HandleItemUse(ctx *player.Context) {
	p := ctx.Val()
	held, _ := p.HeldItems()
	if !command.IsWand(held) {
		return
	}
	m, ok := h.c.MageOf(p)
	if !ok {
		m = h.c.Join(p.H().UUID(), p.Name())
	}
	if p.Sneaking() {
		if key, ok := m.NextWand(); ok {
			p.Messagef("Your wand now casts %v.", key)
		}
		return
	}
	key, ok := m.Wand()
	if !ok {
		return
	}
	if _, err := h.c.Cast(p.Tx(), p, key, nil); err != nil {
		h.c.Logger().WithFields(logrus.Fields{"player": p.Name(), "spell": key}).WithError(err).Warn("Wand cast failed.")
	}
}

func (h handler) HandleQuit(p *player.Player) {
	if m, ok := h.c.MageOf(p); ok {
		if n := m.Queue().UndoTemporary(host.NewTx(p.Tx())); n > 0 {
			h.c.Logger().WithFields(logrus.Fields{"player": p.Name(), "lists": n}).Debug("Reverted temporary spells of leaving player.")
		}
	}
	h.c.Quit(p.H().UUID())
}
