package undo

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
)

// RecordType identifies the kind of change a record reverses.
type RecordType uint8

const (
	BlockChange RecordType = iota
	EntityAdd
	EntityModify
	EntityMove
	EntityVelocity
	PotionEffectApply
	Callback
	Watch
)

// String ...
func (t RecordType) String() string {
	switch t {
	case BlockChange:
		return "block_change"
	case EntityAdd:
		return "entity_add"
	case EntityModify:
		return "entity_modify"
	case EntityMove:
		return "entity_move"
	case EntityVelocity:
		return "entity_velocity"
	case PotionEffectApply:
		return "potion_effect_apply"
	case Callback:
		return "callback"
	case Watch:
		return "watch"
	}
	return "unknown"
}

// record is a single reversible change. Which fields are set depends on typ.
type record struct {
	typ RecordType

	pos   cube.Pos
	prior world.Block

	entity uuid.UUID
	state  State

	action func(tx Tx)
}

// revert undoes the change. Entities that left the world are skipped.
func (r record) revert(tx Tx) {
	switch r.typ {
	case BlockChange:
		tx.SetBlock(r.pos, r.prior, nil)
	case EntityAdd:
		tx.RemoveEntity(r.entity)
	case EntityModify, EntityMove, EntityVelocity, PotionEffectApply:
		if e, ok := tx.Entity(r.entity); ok {
			r.state.Apply(e)
		}
	case Callback:
		r.action(tx)
	}
}

// BlockSnapshot is the state a block had before a list changed it.
type BlockSnapshot struct {
	Pos   cube.Pos
	Prior world.Block
}
