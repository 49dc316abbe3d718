package living

import (
	"time"

	"github.com/df-mc/dragonfly/server/entity"
	"github.com/df-mc/dragonfly/server/entity/effect"
	"github.com/google/uuid"
)

// livingData is the state of a creature that outlives a single transaction.
type livingData struct {
	mc      *entity.MovementComputer
	handler Handler
	health  *entity.HealthManager
	effects map[effect.Type]effect.Effect
	drops   []Drop

	owner    uuid.UUID
	lifetime time.Duration
	age      time.Duration

	variant int32
	scale   float64
	speed   float64

	onGround     bool
	fallDistance float64
	fireTicks    int64

	immuneUntil time.Time
	immuneDur   time.Duration
	lastDamage  float64
}
