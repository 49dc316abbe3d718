package living

import (
	"math/rand/v2"

	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/world"
)

// Drop is an item a creature drops when it dies.
type Drop struct {
	it       world.Item
	min, max int
	stack    *item.Stack
}

// NewDrop returns a Drop of between min and max of it, both inclusive.
func NewDrop(it world.Item, min, max int) Drop {
	return Drop{it: it, min: min, max: max}
}

// NewDropWithStack returns a Drop that always drops the stack passed.
func NewDropWithStack(stack item.Stack) Drop {
	return Drop{stack: &stack}
}

// Stack rolls the drop.
func (d Drop) Stack() item.Stack {
	if d.stack != nil {
		return *d.stack
	}
	if d.it == nil || d.max < d.min {
		return item.Stack{}
	}
	c := d.min + rand.IntN(d.max-d.min+1)
	if c <= 0 {
		return item.Stack{}
	}
	return item.NewStack(d.it, c)
}
