package undo

import (
	"slices"
	"time"

	"github.com/bedrock-gophers/magic/living"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/entity/effect"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
)

// Teleporter is an entity that can be moved to an absolute position.
type Teleporter interface {
	Teleport(pos mgl64.Vec3)
}

// Rotator is an entity whose rotation can be changed.
type Rotator interface {
	Move(deltaPos mgl64.Vec3, deltaYaw, deltaPitch float64)
}

// Mover is an entity with a velocity.
type Mover interface {
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
}

// Living is an entity that can carry potion effects.
type Living interface {
	Effects() []effect.Effect
	AddEffect(e effect.Effect)
	RemoveEffect(t effect.Type)
}

type flammable interface {
	OnFireDuration() time.Duration
	SetOnFire(d time.Duration)
}

type nameTagged interface {
	NameTag() string
	SetNameTag(name string)
}

type scalable interface {
	Scale() float64
	SetScale(s float64)
}

type healthSetter interface {
	Health() float64
	SetHealth(health float64)
}

// Kind is the category of an entity. Each kind carries its own extra state on
// top of the state shared by all entities.
type Kind uint8

const (
	KindGeneric Kind = iota
	KindPlayer
	KindCreature
)

// String ...
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindCreature:
		return "creature"
	default:
		return "generic"
	}
}

// KindOf returns the category of e.
func KindOf(e Entity) Kind {
	switch underlying(e).(type) {
	case *player.Player:
		return KindPlayer
	case *living.Living:
		return KindCreature
	}
	return KindGeneric
}

// extraData is the kind-specific part of a State.
type extraData interface {
	apply(e any)
}

type playerData struct {
	mode world.GameMode
	food int
}

func (d playerData) apply(e any) {
	if p, ok := e.(*player.Player); ok {
		p.SetGameMode(d.mode)
		p.SetFood(d.food)
	}
}

type creatureData struct {
	variant int32
}

func (d creatureData) apply(e any) {
	if c, ok := e.(*living.Living); ok {
		c.SetVariant(d.variant)
	}
}

// captureExtra selects the extra state of e by its runtime type.
func captureExtra(e any) (Kind, extraData) {
	switch v := e.(type) {
	case *player.Player:
		return KindPlayer, playerData{mode: v.GameMode(), food: v.Food()}
	case *living.Living:
		return KindCreature, creatureData{variant: v.Variant()}
	}
	return KindGeneric, nil
}

// field is a bit set of the parts of a State that were captured.
type field uint16

const (
	fieldPosition field = 1 << iota
	fieldVelocity
	fieldEffects
	fieldFire
	fieldNameTag
	fieldScale
	fieldHealth
	fieldExtra

	fieldAll = fieldPosition | fieldVelocity | fieldEffects | fieldFire | fieldNameTag | fieldScale | fieldHealth | fieldExtra
)

// State is a snapshot of the mutable state of an entity.
type State struct {
	Kind Kind

	Position mgl64.Vec3
	Rotation cube.Rotation
	Velocity mgl64.Vec3
	Effects  []effect.Effect
	Fire     time.Duration
	NameTag  string
	Scale    float64
	Health   float64

	fields field
	extra  extraData
}

// Capture snapshots all state of e that can be restored later.
func Capture(e Entity) State {
	return capture(e, fieldAll)
}

func capture(e Entity, fields field) State {
	v := underlying(e)
	s := State{Position: e.Position(), Rotation: e.Rotation()}
	if fields&fieldPosition != 0 {
		s.fields |= fieldPosition
	}
	if m, ok := v.(Mover); ok && fields&fieldVelocity != 0 {
		s.Velocity, s.fields = m.Velocity(), s.fields|fieldVelocity
	}
	if l, ok := v.(Living); ok && fields&fieldEffects != 0 {
		s.Effects, s.fields = slices.Clone(l.Effects()), s.fields|fieldEffects
	}
	if f, ok := v.(flammable); ok && fields&fieldFire != 0 {
		s.Fire, s.fields = f.OnFireDuration(), s.fields|fieldFire
	}
	if n, ok := v.(nameTagged); ok && fields&fieldNameTag != 0 {
		s.NameTag, s.fields = n.NameTag(), s.fields|fieldNameTag
	}
	if sc, ok := v.(scalable); ok && fields&fieldScale != 0 {
		s.Scale, s.fields = sc.Scale(), s.fields|fieldScale
	}
	if h, ok := v.(healthSetter); ok && fields&fieldHealth != 0 {
		s.Health, s.fields = h.Health(), s.fields|fieldHealth
	}
	if fields&fieldExtra != 0 {
		s.Kind, s.extra = captureExtra(v)
		if s.extra != nil {
			s.fields |= fieldExtra
		}
	} else {
		s.Kind = KindOf(e)
	}
	return s
}

// Apply restores the captured parts of s onto e. Parts e does not support are
// skipped.
func (s State) Apply(e Entity) {
	v := underlying(e)
	if s.fields&fieldPosition != 0 {
		if t, ok := v.(Teleporter); ok {
			t.Teleport(s.Position)
		}
		if r, ok := v.(Rotator); ok {
			cur := e.Rotation()
			if dy, dp := s.Rotation.Yaw()-cur.Yaw(), s.Rotation.Pitch()-cur.Pitch(); dy != 0 || dp != 0 {
				r.Move(mgl64.Vec3{}, dy, dp)
			}
		}
	}
	if m, ok := v.(Mover); ok && s.fields&fieldVelocity != 0 {
		m.SetVelocity(s.Velocity)
	}
	if l, ok := v.(Living); ok && s.fields&fieldEffects != 0 {
		for _, eff := range l.Effects() {
			l.RemoveEffect(eff.Type())
		}
		for _, eff := range s.Effects {
			l.AddEffect(eff)
		}
	}
	if f, ok := v.(flammable); ok && s.fields&fieldFire != 0 {
		f.SetOnFire(s.Fire)
	}
	if n, ok := v.(nameTagged); ok && s.fields&fieldNameTag != 0 {
		n.SetNameTag(s.NameTag)
	}
	if sc, ok := v.(scalable); ok && s.fields&fieldScale != 0 {
		sc.SetScale(s.Scale)
	}
	if h, ok := v.(healthSetter); ok && s.fields&fieldHealth != 0 {
		h.SetHealth(s.Health)
	}
	if s.extra != nil && s.fields&fieldExtra != 0 {
		s.extra.apply(v)
	}
}
