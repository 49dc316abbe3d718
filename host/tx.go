// Package host adapts Dragonfly's world transactions and entities to the
// small interfaces the undo and spell packages work with.
package host

import (
	"github.com/bedrock-gophers/magic/undo"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Entity wraps a world.Entity so that it is identified by its UUID.
type Entity struct {
	world.Entity
}

// ID ...
func (e Entity) ID() uuid.UUID {
	return e.H().UUID()
}

// Unwrap returns the wrapped entity.
func (e Entity) Unwrap() world.Entity {
	return e.Entity
}

// Tx wraps a *world.Tx. Like the transaction itself, a Tx must not be used
// after the transaction ends.
type Tx struct {
	tx *world.Tx
}

// NewTx ...
func NewTx(tx *world.Tx) Tx {
	return Tx{tx: tx}
}

// Block ...
func (t Tx) Block(pos cube.Pos) world.Block {
	return t.tx.Block(pos)
}

// SetBlock ...
func (t Tx) SetBlock(pos cube.Pos, b world.Block, opts *world.SetOpts) {
	t.tx.SetBlock(pos, b, opts)
}

// Entity looks up an entity in the transaction's world by its UUID.
func (t Tx) Entity(id uuid.UUID) (undo.Entity, bool) {
	e, ok := t.find(id)
	if !ok {
		return nil, false
	}
	return Entity{e}, true
}

// RemoveEntity ...
func (t Tx) RemoveEntity(id uuid.UUID) bool {
	e, ok := t.find(id)
	if !ok {
		return false
	}
	t.tx.RemoveEntity(e)
	return true
}

func (t Tx) find(id uuid.UUID) (world.Entity, bool) {
	for e := range t.tx.Entities() {
		if e.H().UUID() == id {
			return e, true
		}
	}
	return nil, false
}

// EntitiesWithin returns all entities whose position lies in box.
func (t Tx) EntitiesWithin(box cube.BBox) []undo.Entity {
	var entities []undo.Entity
	for e := range t.tx.EntitiesWithin(box) {
		entities = append(entities, Entity{e})
	}
	return entities
}

// Spawn adds the entity behind h to the world.
func (t Tx) Spawn(h *world.EntityHandle) undo.Entity {
	return Entity{t.tx.AddEntity(h)}
}

// PlaySound ...
func (t Tx) PlaySound(pos mgl64.Vec3, s world.Sound) {
	t.tx.PlaySound(pos, s)
}

// Dimension ...
func (t Tx) Dimension() string {
	return DimensionName(t.tx.World().Dimension())
}

// AddParticle ...
func (t Tx) AddParticle(pos mgl64.Vec3, p world.Particle) {
	t.tx.AddParticle(pos, p)
}
