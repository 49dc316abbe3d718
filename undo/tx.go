package undo

import (
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Tx is the world access a List needs to snapshot and revert changes. It is
// only valid for the duration of a single world transaction.
type Tx interface {
	// Block returns the block at a position.
	Block(pos cube.Pos) world.Block
	// SetBlock replaces the block at a position.
	SetBlock(pos cube.Pos, b world.Block, opts *world.SetOpts)
	// Entity looks up a live entity by its id. The bool is false if the
	// entity is no longer in the world.
	Entity(id uuid.UUID) (Entity, bool)
	// RemoveEntity removes the entity with the id passed from the world,
	// reporting whether it was found.
	RemoveEntity(id uuid.UUID) bool
	// Dimension names the world of the transaction, such as "overworld".
	Dimension() string
}

// Worlds runs tasks in the world of a dimension.
type Worlds interface {
	// Exec runs task in a transaction of the world of the dimension passed
	// and waits for it to finish. It returns false if there is no such world.
	Exec(dim string, task func(tx Tx)) bool
}

// Entity is an entity a List can track. Entity values are only valid inside
// the transaction that produced them, so lists only keep the ID around.
type Entity interface {
	ID() uuid.UUID
	Position() mgl64.Vec3
	Rotation() cube.Rotation
}

// Scheduler runs reversal tasks after a delay on the world's goroutine.
type Scheduler interface {
	// Schedule runs task after delay and returns a func that cancels the task
	// if it has not started yet.
	Schedule(delay time.Duration, task func(tx Tx)) (cancel func())
}

// unwrapper is implemented by adapters that wrap an engine entity.
type unwrapper interface {
	Unwrap() world.Entity
}

// underlying returns the engine value behind e, or e itself.
func underlying(e Entity) any {
	if u, ok := e.(unwrapper); ok {
		return u.Unwrap()
	}
	return e
}

// As returns the value behind e as T, if it implements it.
func As[T any](e Entity) (T, bool) {
	v, ok := underlying(e).(T)
	return v, ok
}
