// Package command registers the chat commands of the plugin: /cast,
// /undo [all], /wand and /magic.
package command

import (
	"strings"

	"github.com/bedrock-gophers/magic/magic"
	"github.com/bedrock-gophers/magic/spell"
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/player"
)

// Register registers the commands with the server. reload is called by
// /magic reload to read the configuration files again.
func Register(c *magic.Controller, reload func() error) {
	cmd.Register(cmd.New("cast", "Casts a spell.", nil, Cast{c: c}))
	cmd.Register(cmd.New("undo", "Undoes the last spell you cast.", nil, Undo{c: c}, UndoAll{c: c}))
	cmd.Register(cmd.New("wand", "Gives you a wand.", nil, Wand{c: c}))
	cmd.Register(cmd.New("magic", "Manages spells.", nil,
		Reload{c: c, reload: reload},
		List{c: c},
		Pending{c: c},
		Lock{c: c},
		Unlock{c: c},
	))
}

// castArgs splits the arguments of /cast into spell parameters.
func castArgs(s string) spell.Parameters {
	return spell.ParseArgs(strings.Fields(s))
}

// policyKeys are the parameters that change which blocks a spell may touch or
// whether it can be undone. Only admins may pass them to /cast.
var policyKeys = []string{
	"check_indestructible",
	"check_destructible", "cd",
	"indestructible", "id",
	"destructible", "modifiable",
	"destructible_override",
	"bypass_undo", "bu",
}

// castParameters returns the spell parameters of the /cast arguments passed.
// Policy parameters are dropped unless admin is true.
func castParameters(args string, admin bool) spell.Parameters {
	p := castArgs(args)
	if !admin {
		for _, k := range policyKeys {
			delete(p, k)
		}
	}
	return p
}

// admin reports whether the player with the name passed may manage the
// plugin. Console sources are always allowed.
func admin(c *magic.Controller, src cmd.Source) bool {
	p, ok := src.(*player.Player)
	if !ok {
		return true
	}
	conf := c.Config()
	return conf.IsSuperPowered(p.Name()) || conf.HasBypass(p.Name())
}
