package living

import (
	"time"

	"github.com/df-mc/dragonfly/server/entity"
	"github.com/df-mc/dragonfly/server/entity/effect"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
)

// Config holds the settings of a creature spawned with world.EntitySpawnOpts.
type Config struct {
	EntityType world.EntityType
	Handler    Handler
	MaxHealth  float64
	Drops      []Drop
	// MovementComputer defaults to ground movement with gravity.
	MovementComputer *entity.MovementComputer

	// Owner is the entity the creature belongs to, if any.
	Owner uuid.UUID
	// Lifetime is how long the creature lives before it despawns. Zero means
	// forever.
	Lifetime time.Duration

	NameTag string
	Variant int32
	Scale   float64
	Speed   float64
}

// Apply ...
func (c Config) Apply(data *world.EntityData) {
	if c.EntityType == nil {
		panic("entity type can't be nil")
	}
	data.Name = c.NameTag
	data.Data = c.newData()
}

func (c Config) newData() *livingData {
	d := &livingData{
		mc:        c.MovementComputer,
		handler:   c.Handler,
		drops:     c.Drops,
		owner:     c.Owner,
		lifetime:  c.Lifetime,
		variant:   c.Variant,
		scale:     c.Scale,
		speed:     c.Speed,
		effects:   map[effect.Type]effect.Effect{},
		immuneDur: time.Second / 2,
	}
	if d.mc == nil {
		d.mc = &entity.MovementComputer{Gravity: 0.08, Drag: 0.02, DragBeforeGravity: true}
	}
	if d.handler == nil {
		d.handler = NopHandler{}
	}
	if d.scale == 0 {
		d.scale = 1
	}
	if d.speed == 0 {
		d.speed = 0.1
	}
	maxHealth := c.MaxHealth
	if maxHealth <= 0 {
		maxHealth = 20
	}
	d.health = entity.NewHealthManager(maxHealth, maxHealth)
	return d
}
