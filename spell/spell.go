// Package spell implements the casting of configured spells: parameter
// handling, targeting, the destructibility rules for block spells and the
// registration of every world change with the invocation's undo list.
package spell

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/bedrock-gophers/magic/material"
	"github.com/bedrock-gophers/magic/target"
	"github.com/bedrock-gophers/magic/undo"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	// ErrUnknownClass is returned when a spell refers to a class that was never
	// registered.
	ErrUnknownClass = errors.New("unknown spell class")
	// ErrUnknownSpell is returned when casting a spell that does not exist.
	ErrUnknownSpell = errors.New("unknown spell")
)

// Caster is whoever casts a spell.
type Caster interface {
	ID() uuid.UUID
	Name() string
	Position() mgl64.Vec3
	EyePosition() mgl64.Vec3
	Rotation() cube.Rotation
	// Message sends a chat message to the caster.
	Message(msg string)
	// SuperPowered casters ignore indestructible rules.
	SuperPowered() bool
	// Bypass reports whether the caster holds the bypass permission.
	Bypass() bool
	// SuperProtected casters are not affected by spells of others.
	SuperProtected() bool
	// Destructible returns the caster's own destructible set, or nil.
	Destructible() material.Set
	// Indestructible returns the caster's own indestructible set, or nil.
	Indestructible() material.Set
}

// Controller is the plugin wide state spells consult.
type Controller interface {
	Materials() *material.Manager
	// DefaultDestructible returns the destructible set used when neither the
	// spell nor the caster define one.
	DefaultDestructible() material.Set
	// Locked reports whether the block at pos in the dimension passed is
	// locked against all spells.
	Locked(dim string, pos cube.Pos) bool
	// Breakable returns the breakable tag of the block at pos.
	Breakable(dim string, pos cube.Pos) (int, bool)
	SetBreakable(dim string, pos cube.Pos, n int)
	ClearBreakable(dim string, pos cube.Pos)
	// Modified returns the original block at pos if a pending undo list
	// changed it.
	Modified(dim string, pos cube.Pos) (world.Block, bool)
	// Mage returns the caster state of the entity with the id passed.
	Mage(id uuid.UUID) (Caster, bool)
	// Register hands the undo list of a finished invocation to the caster's
	// undo queue and schedules its automatic reversal.
	Register(c Caster, l *undo.List)
	Logger() logrus.FieldLogger
}

// World is the world access of a spell invocation. host.Tx implements it.
type World interface {
	undo.Tx
	target.World
	PlaySound(pos mgl64.Vec3, s world.Sound)
	AddParticle(pos mgl64.Vec3, p world.Particle)
	Spawn(h *world.EntityHandle) undo.Entity
}

// Handler implements the behaviour of a spell class.
type Handler interface {
	Cast(ctx *Context) Result
}

// Loader is implemented by handlers that read template parameters once when
// the spell is loaded.
type Loader interface {
	Load(params Parameters)
}

// Result is the outcome of a cast.
type Result struct {
	Success bool
	Message string
}

// Succeed ...
func Succeed(msg string) Result {
	return Result{Success: true, Message: msg}
}

// Fail ...
func Fail(msg string) Result {
	return Result{Message: msg}
}

var classes = map[string]func() Handler{}

// RegisterClass registers a spell class under a name, so that spells.yml
// entries can refer to it.
func RegisterClass(name string, f func() Handler) {
	classes[strings.ToLower(name)] = f
}

// Classes returns the sorted names of all registered classes.
func Classes() []string {
	return slices.Sorted(maps.Keys(classes))
}

// Definition describes a spell as configured.
type Definition struct {
	Key         string
	Class       string
	Name        string
	Description string
	Parameters  Parameters
	Messages    map[string]string
}

// Spell is a configured spell. A Spell is immutable once created; all state of
// a single cast lives in its Context.
type Spell struct {
	key, class        string
	name, description string
	params            Parameters
	messages          map[string]string
	handler           Handler
}

// New creates a Spell from its definition.
func New(def Definition) (*Spell, error) {
	class := def.Class
	if class == "" {
		class = def.Key
	}
	f, ok := classes[strings.ToLower(class)]
	if !ok {
		return nil, fmt.Errorf("spell %v: %w %q", def.Key, ErrUnknownClass, class)
	}
	s := &Spell{
		key:         strings.ToLower(def.Key),
		class:       strings.ToLower(class),
		name:        def.Name,
		description: def.Description,
		params:      def.Parameters,
		messages:    def.Messages,
		handler:     f(),
	}
	if s.name == "" {
		s.name = def.Key
	}
	if s.params == nil {
		s.params = Parameters{}
	}
	if l, ok := s.handler.(Loader); ok {
		l.Load(s.params)
	}
	return s, nil
}

// Key returns the identifier of the spell.
func (s *Spell) Key() string {
	return s.key
}

// Class ...
func (s *Spell) Class() string {
	return s.class
}

// Name returns the display name of the spell.
func (s *Spell) Name() string {
	return s.name
}

// Description ...
func (s *Spell) Description() string {
	return s.description
}

// Parameters returns the template parameters of the spell.
func (s *Spell) Parameters() Parameters {
	return s.params.Merge(nil)
}

// Cast casts the spell. The params passed override the template parameters
// for this cast only.
func (s *Spell) Cast(c Caster, ctrl Controller, w World, params Parameters) Result {
	ctx := newContext(s, c, ctrl, w, s.params.Merge(params))
	res := s.handler.Cast(ctx)
	ctx.finish(res)
	return res
}
