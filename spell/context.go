package spell

import (
	"strconv"
	"strings"
	"time"

	"github.com/bedrock-gophers/magic/material"
	"github.com/bedrock-gophers/magic/target"
	"github.com/bedrock-gophers/magic/undo"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TargetType selects what a spell may be aimed at.
type TargetType uint8

const (
	TargetNone TargetType = iota
	TargetBlock
	TargetEntity
	// TargetOther is any entity but the caster.
	TargetOther
	// TargetAny is a block or any entity, the caster included.
	TargetAny
	TargetSelf
)

// ParseTargetType parses the target parameter of a spell.
func ParseTargetType(s string) (TargetType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return TargetNone, true
	case "block":
		return TargetBlock, true
	case "entity":
		return TargetEntity, true
	case "other":
		return TargetOther, true
	case "any":
		return TargetAny, true
	case "self":
		return TargetSelf, true
	}
	return 0, false
}

// String ...
func (t TargetType) String() string {
	switch t {
	case TargetNone:
		return "none"
	case TargetBlock:
		return "block"
	case TargetEntity:
		return "entity"
	case TargetOther:
		return "other"
	case TargetAny:
		return "any"
	case TargetSelf:
		return "self"
	}
	panic("should never happen")
}

// IncludesSelf reports whether the caster itself may be affected.
func (t TargetType) IncludesSelf() bool {
	return t == TargetAny || t == TargetSelf
}

// DefaultRange is the targeting range of spells that do not configure one.
const DefaultRange = 32.0

// Context is a single invocation of a spell. It holds everything that only
// lives as long as the cast: the merged parameters, the target and the undo
// list collecting the changes made.
type Context struct {
	Spell      *Spell
	Caster     Caster
	Controller Controller
	World      World
	Params     Parameters
	Log        logrus.FieldLogger

	Target target.Target

	targetType       TargetType
	maxRange         float64
	bypassUndo       bool
	undoDelay        time.Duration
	targetBreakables int

	indestructible       material.Set
	destructible         material.Set
	destructibleOverride material.Set
	checkDestructible    bool
	checkIndestructible  bool
	durability           float64

	list *undo.List
}

func newContext(s *Spell, c Caster, ctrl Controller, w World, params Parameters) *Context {
	ctx := &Context{
		Spell:      s,
		Caster:     c,
		Controller: ctrl,
		World:      w,
		Params:     params,
		Log: ctrl.Logger().WithFields(logrus.Fields{
			"spell":  s.Key(),
			"caster": c.Name(),
		}),
	}
	ctx.load()
	return ctx
}

// load reads the parameters shared by all spells.
func (ctx *Context) load() {
	p, m := ctx.Params, ctx.Controller.Materials()

	ctx.targetType = TargetAny
	if t, ok := ParseTargetType(p.String("", "target")); ok {
		ctx.targetType = t
	}
	ctx.maxRange = p.Float(DefaultRange, "range")
	ctx.bypassUndo = p.Bool(false, "bypass_undo", "bu")
	ctx.undoDelay = p.Duration(0, "undo", "u")
	ctx.targetBreakables = p.Int(0, "target_breakables")

	ctx.indestructible = material.Empty()
	if v := p.String("", "id", "indestructible"); v != "" {
		ctx.indestructible = m.FromConfig(v, material.Empty())
	}
	if v := p.String("", "modifiable", "destructible"); v != "" {
		ctx.destructible = m.FromConfig(v, nil)
	}
	switch v := p.String("", "destructible_override"); v {
	case "", "false":
	case "true":
		ctx.destructibleOverride = ctrlDefault(ctx.Controller)
	default:
		ctx.destructibleOverride = m.FromConfig(v, nil)
	}
	ctx.checkDestructible = p.Bool(true, "check_destructible", "cd")
	ctx.checkIndestructible = p.Bool(true, "check_indestructible")
	ctx.durability = p.Float(0, "destructible_durability")
}

func ctrlDefault(c Controller) material.Set {
	if s := c.DefaultDestructible(); s != nil {
		return s
	}
	return material.All()
}

// TargetType returns the target type of the invocation.
func (ctx *Context) TargetType() TargetType {
	return ctx.targetType
}

// Range returns the targeting range of the invocation.
func (ctx *Context) Range() float64 {
	return ctx.maxRange
}

// FindTarget resolves the target of the invocation from the caster's line of
// sight and stores it in ctx.Target.
func (ctx *Context) FindTarget() target.Target {
	switch ctx.targetType {
	case TargetNone:
		ctx.Target = target.Target{}
	case TargetSelf:
		if e, ok := ctx.World.Entity(ctx.Caster.ID()); ok {
			ctx.Target = target.OfEntity(e)
		} else {
			pos := cube.PosFromVec3(ctx.Caster.Position())
			ctx.Target = target.OfBlock(pos, ctx.World.Block(pos))
		}
	default:
		opts := target.Options{
			Range:    ctx.maxRange,
			Blocks:   ctx.targetType == TargetBlock || ctx.targetType == TargetAny,
			Entities: ctx.targetType != TargetBlock,
			Exclude:  ctx.Caster.ID(),
		}
		ctx.Target = target.Find(ctx.World, ctx.Caster.EyePosition(), target.Direction(ctx.Caster.Rotation()), opts)
		if ctx.Target.HasEntity() && ctx.protected(ctx.Target.Entity.ID()) {
			ctx.Target = target.Target{}
		}
		ctx.breakTarget()
	}
	return ctx.Target
}

// protected reports whether the entity with the id passed is a super
// protected mage other than the caster.
func (ctx *Context) protected(id uuid.UUID) bool {
	if id == ctx.Caster.ID() {
		return false
	}
	m, ok := ctx.Controller.Mage(id)
	return ok && m.SuperProtected()
}

// Message returns the configured message for key, or def, with the spell's
// variables substituted.
func (ctx *Context) Message(key, def string) string {
	msg := def
	if m, ok := ctx.Spell.messages[key]; ok {
		msg = m
	}
	if msg == "" {
		return ""
	}
	msg = strings.ReplaceAll(msg, "$spell", ctx.Spell.Name())
	msg = strings.ReplaceAll(msg, "$target", ctx.targetName())
	if !ctx.Params.Has("count") {
		msg = strings.ReplaceAll(msg, "$count", strconv.Itoa(ctx.ModifiedCount()))
	}
	return strings.ReplaceAll(msg, "@blocks", strconv.Itoa(ctx.ModifiedCount()))
}

func (ctx *Context) targetName() string {
	switch {
	case ctx.Target.HasEntity():
		if m, ok := ctx.Controller.Mage(ctx.Target.Entity.ID()); ok {
			return m.Name()
		}
		return undo.KindOf(ctx.Target.Entity).String()
	case ctx.Target.HasBlock():
		return strings.TrimPrefix(material.Name(ctx.Target.Block), "minecraft:")
	}
	return "nothing"
}

// finish hands the undo list to the controller and reports the result to the
// caster.
func (ctx *Context) finish(res Result) {
	if ctx.list != nil && !ctx.list.Bypass() && ctx.list.Size() > 0 {
		ctx.Controller.Register(ctx.Caster, ctx.list)
	}
	msg := res.Message
	if msg == "" && res.Success {
		msg = ctx.Message("cast", "")
	}
	if msg != "" {
		ctx.Caster.Message(msg)
	}
	ctx.Log.WithFields(logrus.Fields{
		"success": res.Success,
		"changes": ctx.ModifiedCount(),
	}).Debug("Spell cast.")
}
