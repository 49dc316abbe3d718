package undo

import (
	"slices"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
)

// List records every world change made by a single spell invocation so that
// the changes can be reverted later, in the reverse order they were made.
//
// A List is not safe for concurrent use. All methods must be called from the
// goroutine of the world the changes were made in.
type List struct {
	id      uuid.UUID
	spell   string
	owner   uuid.UUID
	created time.Time
	dim     string

	bypass    bool
	ttl       time.Duration
	scheduled time.Duration

	records []record
	blocks  map[cube.Pos]int
	watched []uuid.UUID

	consumed bool
	cancel   []func()
	done     []func(l *List)
}

// NewList returns an empty List for the spell and caster passed.
func NewList(spell string, owner uuid.UUID) *List {
	return &List{
		id:      uuid.New(),
		spell:   spell,
		owner:   owner,
		created: time.Now(),
		blocks:  make(map[cube.Pos]int),
	}
}

// ID ...
func (l *List) ID() uuid.UUID {
	return l.id
}

// Spell returns the name of the spell that created the list.
func (l *List) Spell() string {
	return l.spell
}

// Owner returns the id of the caster that created the list.
func (l *List) Owner() uuid.UUID {
	return l.owner
}

// Created ...
func (l *List) Created() time.Time {
	return l.created
}

// SetDimension binds the list to the world of the dimension passed. A bound
// list is only reverted in a transaction of that world.
func (l *List) SetDimension(dim string) {
	l.dim = dim
}

// Dimension returns the dimension the changes were made in, or an empty
// string if the list is not bound to one.
func (l *List) Dimension() string {
	return l.dim
}

// In reports whether the list may be reverted in a world of dimension dim.
func (l *List) In(dim string) bool {
	return l.dim == "" || l.dim == dim
}

// SetBypass disables recording when true. A bypassed list records nothing and
// cannot be reverted.
func (l *List) SetBypass(bypass bool) {
	l.bypass = bypass
}

// Bypass ...
func (l *List) Bypass() bool {
	return l.bypass
}

// SetTimeToLive forces reversal d after the list is scheduled, regardless of
// the scheduled undo delay. Zero disables it.
func (l *List) SetTimeToLive(d time.Duration) {
	l.ttl = max(d, 0)
}

// TimeToLive ...
func (l *List) TimeToLive() time.Duration {
	return l.ttl
}

// SetScheduleUndo makes the list revert itself d after it is scheduled. Zero
// means the changes stay until they are undone manually.
func (l *List) SetScheduleUndo(d time.Duration) {
	l.scheduled = max(d, 0)
}

// ScheduledUndo ...
func (l *List) ScheduledUndo() time.Duration {
	return l.scheduled
}

// Temporary reports whether the list reverts itself after some time.
func (l *List) Temporary() bool {
	return l.ttl > 0 || l.scheduled > 0
}

// Expiry returns the earliest delay after which the list reverts itself, or
// zero if it never does.
func (l *List) Expiry() time.Duration {
	switch {
	case l.ttl > 0 && l.scheduled > 0:
		return min(l.ttl, l.scheduled)
	case l.ttl > 0:
		return l.ttl
	}
	return l.scheduled
}

// AddBlock snapshots the block at pos. It must be called before the block is
// changed. Positions that were already recorded keep their first snapshot.
func (l *List) AddBlock(tx Tx, pos cube.Pos) {
	if l.bypass || l.consumed {
		return
	}
	if _, ok := l.blocks[pos]; ok {
		return
	}
	l.blocks[pos] = len(l.records)
	l.records = append(l.records, record{typ: BlockChange, pos: pos, prior: tx.Block(pos)})
}

// AddEntity registers an entity created by the spell. Reverting the list
// removes it.
func (l *List) AddEntity(e Entity) {
	if l.bypass || l.consumed {
		return
	}
	l.records = append(l.records, record{typ: EntityAdd, entity: e.ID()})
}

// Modify snapshots all mutable state of e.
func (l *List) Modify(e Entity) {
	l.addState(EntityModify, e, fieldAll)
}

// Move snapshots the position and rotation of e.
func (l *List) Move(e Entity) {
	l.addState(EntityMove, e, fieldPosition)
}

// ModifyVelocity snapshots the velocity of e.
func (l *List) ModifyVelocity(e Entity) {
	l.addState(EntityVelocity, e, fieldVelocity)
}

// AddPotionEffects snapshots the active effects of e.
func (l *List) AddPotionEffects(e Entity) {
	l.addState(PotionEffectApply, e, fieldEffects)
}

func (l *List) addState(typ RecordType, e Entity, fields field) {
	if l.bypass || l.consumed {
		return
	}
	l.records = append(l.records, record{typ: typ, entity: e.ID(), state: capture(e, fields)})
}

// AddFunc registers an action that is run when the list is reverted.
func (l *List) AddFunc(f func(tx Tx)) {
	if l.bypass || l.consumed || f == nil {
		return
	}
	l.records = append(l.records, record{typ: Callback, action: f})
}

// Watch tracks e without anything to revert.
func (l *List) Watch(e Entity) {
	if l.bypass || l.consumed {
		return
	}
	if id := e.ID(); !slices.Contains(l.watched, id) {
		l.watched = append(l.watched, id)
	}
}

// Watched returns the ids of the entities passed to Watch.
func (l *List) Watched() []uuid.UUID {
	return slices.Clone(l.watched)
}

// Contains reports whether the block at pos was recorded.
func (l *List) Contains(pos cube.Pos) bool {
	_, ok := l.blocks[pos]
	return ok
}

// Prior returns the block at pos as it was before the list changed it.
func (l *List) Prior(pos cube.Pos) (world.Block, bool) {
	i, ok := l.blocks[pos]
	if !ok {
		return nil, false
	}
	return l.records[i].prior, true
}

// Size returns the number of recorded changes.
func (l *List) Size() int {
	return len(l.records)
}

// Blocks returns snapshots of all recorded blocks in the order they were
// recorded.
func (l *List) Blocks() []BlockSnapshot {
	s := make([]BlockSnapshot, 0, len(l.blocks))
	for _, r := range l.records {
		if r.typ == BlockChange {
			s = append(s, BlockSnapshot{Pos: r.pos, Prior: r.prior})
		}
	}
	return s
}

// Records returns the type of each recorded change in recording order.
func (l *List) Records() []RecordType {
	t := make([]RecordType, len(l.records))
	for i, r := range l.records {
		t[i] = r.typ
	}
	return t
}

// Consumed reports whether the list was reverted or committed.
func (l *List) Consumed() bool {
	return l.consumed
}

// OnDone registers f to be called once the list is reverted or committed.
func (l *List) OnDone(f func(l *List)) {
	l.done = append(l.done, f)
}

// Schedule arms the automatic reversal of the list on s. The scheduled undo
// delay and the time to live are both armed; whichever fires first reverts
// the list.
func (l *List) Schedule(s Scheduler) {
	if l.bypass || l.consumed {
		return
	}
	for _, d := range [...]time.Duration{l.scheduled, l.ttl} {
		if d > 0 {
			l.cancel = append(l.cancel, s.Schedule(d, func(tx Tx) { l.Undo(tx) }))
		}
	}
}

// Undo reverts all recorded changes, newest first. It returns false if the
// list was already consumed, is bypassed or belongs to another dimension than
// the one of tx; reverting twice is a no-op.
func (l *List) Undo(tx Tx) bool {
	if l.bypass || l.consumed || !l.In(tx.Dimension()) {
		return false
	}
	l.consumed = true
	for i := len(l.records) - 1; i >= 0; i-- {
		l.records[i].revert(tx)
	}
	l.finish()
	return true
}

// Commit makes the recorded changes permanent. The list can no longer be
// reverted afterwards.
func (l *List) Commit() bool {
	if l.consumed {
		return false
	}
	l.consumed = true
	l.finish()
	return true
}

func (l *List) finish() {
	for _, cancel := range l.cancel {
		cancel()
	}
	l.cancel = nil
	done := l.done
	l.done = nil
	for _, f := range done {
		f(l)
	}
}
