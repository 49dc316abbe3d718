package spells

import (
	"strings"

	"github.com/bedrock-gophers/magic/living"
	"github.com/bedrock-gophers/magic/material"
	"github.com/bedrock-gophers/magic/spell"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
)

// Familiar summons a creature that follows the caster around. The creature
// is removed when the spell is undone or when its lifetime runs out.
type Familiar struct{}

// Cast ...
func (Familiar) Cast(ctx *spell.Context) spell.Result {
	t := ctx.FindTarget()
	if !t.Valid() {
		return noTarget(ctx)
	}
	typ, ok := living.TypeByName(ctx.Params.String("wolf", "type"))
	if !ok {
		return spell.Fail(ctx.Message("unknown_type", "There is no such familiar"))
	}
	pos := t.Location()
	if t.HasBlock() {
		pos = t.Pos.Side(t.Face).Vec3Middle()
	}
	name := strings.TrimPrefix(typ.ID, "minecraft:")

	conf := living.Config{
		EntityType: typ,
		Handler:    &FamiliarHandler{},
		MaxHealth:  ctx.Params.Float(20, "health"),
		Owner:      ctx.Caster.ID(),
		Lifetime:   ctx.Params.Duration(0, "lifetime"),
		NameTag:    ctx.Caster.Name() + "'s " + name,
	}
	if drop := ctx.Params.String("", "drop"); drop != "" {
		it, ok := world.ItemByName(material.Normalise(drop), 0)
		if !ok {
			return spell.Fail(ctx.Message("unknown_drop", "There is no such item"))
		}
		conf.Drops = []living.Drop{living.NewDrop(it, 1, max(1, ctx.Params.Int(1, "drop_count")))}
	}
	opts := world.EntitySpawnOpts{Position: pos, Rotation: ctx.Caster.Rotation()}
	ctx.RegisterEntity(ctx.World.Spawn(opts.New(typ, conf)))

	msg := ctx.Message("cast", "Your $familiar appears")
	return spell.Succeed(strings.ReplaceAll(msg, "$familiar", name))
}

// FamiliarHandler makes a creature follow its owner. The handle of the owner
// is kept once found, so the entities of the world are only searched again
// after the owner left it.
type FamiliarHandler struct {
	living.NopHandler

	owner *world.EntityHandle
	wait  int
}

const (
	followDistance   = 3
	teleportDistance = 16
	// searchInterval is the number of ticks between searches for an owner
	// that is not in the world.
	searchInterval = 20
)

// HandleTick ...
func (h *FamiliarHandler) HandleTick(ctx *living.Context, tx *world.Tx) {
	l := ctx.Val()
	owner, ok := h.ownerIn(l, tx)
	if !ok {
		return
	}
	pos := owner.Position()
	switch d := pos.Sub(l.Position()).Len(); {
	case d > teleportDistance:
		l.Teleport(pos)
	case d > followDistance:
		l.MoveToTarget(pos, 0.42)
	}
	l.LookAt(pos.Add(mgl64.Vec3{0, 1.62}))
}

// ownerIn returns the owner of l if it is in the world of tx.
func (h *FamiliarHandler) ownerIn(l *living.Living, tx *world.Tx) (world.Entity, bool) {
	if e, ok := h.owner.Entity(tx); ok {
		return e, true
	}
	h.owner = nil
	id, ok := l.Owner()
	if !ok || !h.due() {
		return nil, false
	}
	for e := range tx.Entities() {
		if e.H().UUID() == id {
			h.owner, h.wait = e.H(), 0
			return e, true
		}
	}
	return nil, false
}

// due reports whether the owner should be searched for this tick.
func (h *FamiliarHandler) due() bool {
	if h.wait > 0 {
		h.wait--
		return false
	}
	h.wait = searchInterval
	return true
}
