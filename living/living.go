// Package living implements creatures: simple living entities with health,
// potion effects, gravity and an optional owner and lifetime. Spells summon
// them as familiars.
package living

import (
	"maps"
	"math"
	"slices"
	"time"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/block/model"
	"github.com/df-mc/dragonfly/server/entity"
	"github.com/df-mc/dragonfly/server/entity/effect"
	"github.com/df-mc/dragonfly/server/event"
	"github.com/df-mc/dragonfly/server/item/enchantment"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/df-mc/dragonfly/server/world/sound"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

var _ = world.Entity(&Living{})
var _ = entity.Living(&Living{})

// Living is a creature as seen from a single transaction.
type Living struct {
	handle *world.EntityHandle
	tx     *world.Tx
	data   *world.EntityData
	t      Type

	*livingData
}

// H returns the EntityHandle.
func (l *Living) H() *world.EntityHandle {
	return l.handle
}

// Tx returns the transaction the creature was opened in.
func (l *Living) Tx() *world.Tx {
	return l.tx
}

// Position returns the position.
func (l *Living) Position() mgl64.Vec3 {
	return l.data.Pos
}

// Rotation returns the rotation.
func (l *Living) Rotation() cube.Rotation {
	return l.data.Rot
}

// EyeHeight ...
func (l *Living) EyeHeight() float64 {
	return l.t.EyeHeight * l.scale
}

// Owner returns the id of the entity the creature belongs to. The bool is
// false for wild creatures.
func (l *Living) Owner() (uuid.UUID, bool) {
	return l.owner, l.owner != uuid.Nil
}

// Age returns how long the creature has existed.
func (l *Living) Age() time.Duration {
	return l.age
}

// Lifetime returns how long the creature lives. Zero means forever.
func (l *Living) Lifetime() time.Duration {
	return l.lifetime
}

// Health ...
func (l *Living) Health() float64 {
	return l.health.Health()
}

// MaxHealth ...
func (l *Living) MaxHealth() float64 {
	return l.health.MaxHealth()
}

// SetMaxHealth ...
func (l *Living) SetMaxHealth(v float64) {
	l.health.SetMaxHealth(v)
}

// SetHealth sets the health of the creature, clamped to its maximum.
func (l *Living) SetHealth(health float64) {
	l.health.AddHealth(health - l.health.Health())
}

// Dead returns if the entity is dead or not.
func (l *Living) Dead() bool {
	return l.Health() <= mgl64.Epsilon
}

// Heal ...
func (l *Living) Heal(health float64, _ world.HealingSource) {
	if l.Dead() || health <= 0 {
		return
	}
	l.health.AddHealth(health)
}

// AttackImmune ...
func (l *Living) AttackImmune() bool {
	return l.immuneUntil.After(time.Now())
}

// Hurt ...
func (l *Living) Hurt(dmg float64, src world.DamageSource) (float64, bool) {
	if l.Dead() || dmg <= 0 {
		return 0, false
	}
	left := dmg
	immune := l.AttackImmune()
	if immune {
		if left -= l.lastDamage; left <= 0 {
			return 0, false
		}
	}

	immunity := l.immuneDur
	ctx := event.C(l)
	if l.handler.HandleHurt(ctx, dmg, immune, &immunity, src); ctx.Cancelled() {
		return 0, false
	}
	l.immuneUntil, l.lastDamage = time.Now().Add(immunity), dmg
	l.health.AddHealth(-left)

	for _, v := range l.viewers() {
		v.ViewEntityAction(l, entity.HurtAction{})
	}
	if src.Fire() {
		l.tx.PlaySound(l.Position(), sound.Burning{})
	}
	if l.Dead() {
		l.Kill(src)
	}
	return dmg, true
}

// Kill kills the creature, dropping its items and removing it after the death
// animation.
func (l *Living) Kill(world.DamageSource) {
	for _, v := range l.viewers() {
		v.ViewEntityAction(l, entity.DeathAction{})
	}
	l.health.AddHealth(-l.MaxHealth())
	l.DropItems(l.tx)

	time.AfterFunc(time.Millisecond*1100, func() {
		l.H().ExecWorld(func(tx *world.Tx, e world.Entity) {
			tx.RemoveEntity(e)
		})
	})
}

// DropItems drops the drops of the creature at its position.
func (l *Living) DropItems(tx *world.Tx) {
	for _, d := range l.drops {
		it := d.Stack()
		if it.Empty() {
			continue
		}
		if _, ok := it.Enchantment(enchantment.CurseOfVanishing); ok {
			continue
		}
		tx.AddEntity(entity.NewItem(world.EntitySpawnOpts{Position: l.Position()}, it))
	}
}

// KnockBack ...
func (l *Living) KnockBack(src mgl64.Vec3, force, height float64) {
	if l.Dead() {
		return
	}
	velocity := l.Position().Sub(src)
	velocity[1] = 0
	if velocity.Len() != 0 {
		velocity = velocity.Normalize().Mul(force)
	}
	velocity[1] = height
	l.SetVelocity(velocity)
}

// Speed returns the walking speed.
func (l *Living) Speed() float64 {
	return l.speed
}

// SetSpeed sets the walking speed.
func (l *Living) SetSpeed(f float64) {
	l.speed = f
}

// Velocity returns the velocity.
func (l *Living) Velocity() mgl64.Vec3 {
	return l.data.Vel
}

// SetVelocity sets the velocity.
func (l *Living) SetVelocity(velocity mgl64.Vec3) {
	l.data.Vel = velocity
	for _, v := range l.viewers() {
		v.ViewEntityVelocity(l, velocity)
	}
}

// AddEffect adds an effect to the entity.
func (l *Living) AddEffect(e effect.Effect) {
	l.effects[e.Type()] = e
}

// RemoveEffect removes the effect of an entity.
func (l *Living) RemoveEffect(e effect.Type) {
	delete(l.effects, e)
}

// Effects returns the effects of an entity.
func (l *Living) Effects() []effect.Effect {
	return slices.Collect(maps.Values(l.effects))
}

// Teleport moves the creature to pos.
func (l *Living) Teleport(pos mgl64.Vec3) {
	for _, v := range l.viewers() {
		v.ViewEntityTeleport(l, pos)
	}
	l.data.Pos = pos
	l.data.Vel = mgl64.Vec3{}
	l.fallDistance = 0
}

// Move moves the creature by deltaPos and rotates it by deltaYaw and
// deltaPitch.
func (l *Living) Move(deltaPos mgl64.Vec3, deltaYaw, deltaPitch float64) {
	if l.Dead() || (deltaPos.ApproxEqual(mgl64.Vec3{}) && mgl64.FloatEqual(deltaYaw, 0) && mgl64.FloatEqual(deltaPitch, 0)) {
		return
	}
	yaw, pitch := l.Rotation().Elem()
	pos, rot := l.Position().Add(deltaPos), cube.Rotation{yaw + deltaYaw, pitch + deltaPitch}
	for _, v := range l.viewers() {
		v.ViewEntityMovement(l, pos, rot, l.onGround)
	}
	l.data.Pos, l.data.Rot = pos, rot
}

// MoveToTarget walks the creature towards target, jumping up blocks in its
// way.
func (l *Living) MoveToTarget(target mgl64.Vec3, jumpVelocity float64) {
	if l.Dead() {
		return
	}
	delta := target.Sub(l.Position())
	delta[1] = 0
	if delta.Len() == 0 {
		return
	}
	dir := delta.Normalize()
	move := dir.Mul(l.speed)

	ahead := cube.PosFromVec3(l.Position().Add(dir.Mul(l.t.Width)))
	_, solidLow := l.tx.Block(ahead).Model().(model.Solid)
	_, solidHigh := l.tx.Block(ahead.Side(cube.FaceUp)).Model().(model.Solid)
	switch {
	case solidLow && solidHigh:
		move[0], move[2] = 0, 0
	case solidLow && l.onGround:
		l.SetVelocity(mgl64.Vec3{l.data.Vel[0], jumpVelocity, l.data.Vel[2]})
	}
	if !l.onGround {
		move = move.Mul(0.25)
	}
	l.SetVelocity(l.data.Vel.Add(mgl64.Vec3{move[0], 0, move[2]}))
}

// LookAt rotates the creature to look at v.
func (l *Living) LookAt(v mgl64.Vec3) {
	yaw, pitch := lookAt(l.Position().Add(mgl64.Vec3{0, l.EyeHeight()}), v)
	l.Move(mgl64.Vec3{}, yaw-l.Rotation().Yaw(), pitch-l.Rotation().Pitch())
}

func lookAt(pos, v mgl64.Vec3) (yaw, pitch float64) {
	d := v.Sub(pos)
	pitch = -mgl64.RadToDeg(math.Atan2(d.Y(), math.Hypot(d.X(), d.Z())))
	yaw = mgl64.RadToDeg(math.Atan2(d.Z(), d.X())) - 90
	if yaw < 0 {
		yaw += 360
	}
	return yaw, pitch
}

// OnGround ...
func (l *Living) OnGround() bool {
	return l.onGround
}

// NameTag ...
func (l *Living) NameTag() string {
	return l.data.Name
}

// SetNameTag ...
func (l *Living) SetNameTag(s string) {
	l.data.Name = s
	l.updateState()
}

// Scale ...
func (l *Living) Scale() float64 {
	return l.scale
}

// SetScale ...
func (l *Living) SetScale(scale float64) {
	l.scale = scale
	l.updateState()
}

// Variant ...
func (l *Living) Variant() int32 {
	return l.variant
}

// SetVariant ...
func (l *Living) SetVariant(v int32) {
	l.variant = v
	l.updateState()
}

// OnFireDuration ...
func (l *Living) OnFireDuration() time.Duration {
	return time.Duration(l.fireTicks) * time.Second / 20
}

// SetOnFire ...
func (l *Living) SetOnFire(duration time.Duration) {
	l.fireTicks = int64(duration.Seconds() * 20)
	l.updateState()
}

// Extinguish ...
func (l *Living) Extinguish() {
	l.SetOnFire(0)
}

// Close removes the creature from the world.
func (l *Living) Close() error {
	l.tx.RemoveEntity(l)
	return nil
}

// Tick ...
func (l *Living) Tick(tx *world.Tx, current int64) {
	l.tx = tx
	l.age += time.Second / 20
	if l.lifetime > 0 && l.age >= l.lifetime {
		l.handler.HandleDespawn(l, tx)
		tx.RemoveEntity(l)
		return
	}

	ctx := event.C(l)
	if l.handler.HandleTick(ctx, tx); ctx.Cancelled() || l.Dead() {
		return
	}
	l.tickEffects()

	if l.Position()[1] < float64(tx.Range()[0]) && current%10 == 0 {
		l.Hurt(4, entity.VoidDamageSource{})
	}
	if l.fireTicks > 0 {
		l.fireTicks--
		if l.fireTicks <= 0 || tx.RainingAt(cube.PosFromVec3(l.Position())) {
			l.Extinguish()
		} else if l.fireTicks%20 == 0 {
			l.Hurt(1, block.FireDamageSource{})
		}
	}

	before := l.Position()
	m := l.mc.TickMovement(l, l.Position(), l.Velocity(), l.Rotation(), tx)
	m.Send()
	l.data.Vel = m.Velocity()
	l.data.Pos, l.data.Rot = m.Position(), m.Rotation()
	l.onGround = l.mc.OnGround()
	l.updateFallState(l.data.Pos[1] - before[1])
}

func (l *Living) tickEffects() {
	for t, e := range l.effects {
		if e = e.TickDuration(); e.Duration() <= 0 {
			delete(l.effects, t)
			continue
		}
		l.effects[t] = e
	}
}

func (l *Living) updateFallState(distanceThisTick float64) {
	switch {
	case l.onGround:
		if dmg := l.fallDistance - 3; dmg >= 0.5 {
			l.Hurt(math.Ceil(dmg), entity.FallDamageSource{})
		}
		l.fallDistance = 0
	case distanceThisTick < 0:
		l.fallDistance -= distanceThisTick
	default:
		l.fallDistance = 0
	}
}

func (l *Living) viewers() []world.Viewer {
	if l.tx == nil {
		return nil
	}
	return l.tx.Viewers(l.data.Pos)
}

func (l *Living) updateState() {
	for _, v := range l.viewers() {
		v.ViewEntityState(l)
	}
}
