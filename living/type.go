package living

import (
	"strings"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
)

// Type is the entity type of a creature.
type Type struct {
	ID                       string
	Width, Height, EyeHeight float64
}

var types = map[string]Type{
	"wolf":     {ID: "minecraft:wolf", Width: 0.6, Height: 0.85, EyeHeight: 0.68},
	"cat":      {ID: "minecraft:cat", Width: 0.6, Height: 0.7, EyeHeight: 0.35},
	"fox":      {ID: "minecraft:fox", Width: 0.6, Height: 0.7, EyeHeight: 0.4},
	"pig":      {ID: "minecraft:pig", Width: 0.9, Height: 0.9, EyeHeight: 0.6},
	"sheep":    {ID: "minecraft:sheep", Width: 0.9, Height: 1.3, EyeHeight: 1.2},
	"zombie":   {ID: "minecraft:zombie", Width: 0.6, Height: 1.9, EyeHeight: 1.62},
	"skeleton": {ID: "minecraft:skeleton", Width: 0.6, Height: 1.9, EyeHeight: 1.62},
	"enderman": {ID: "minecraft:enderman", Width: 0.6, Height: 2.9, EyeHeight: 2.55},
}

// TypeByName returns the creature type with the name passed, such as "wolf"
// or "minecraft:wolf".
func TypeByName(name string) (Type, bool) {
	t, ok := types[strings.TrimPrefix(strings.ToLower(name), "minecraft:")]
	return t, ok
}

// Open ...
func (t Type) Open(tx *world.Tx, handle *world.EntityHandle, data *world.EntityData) world.Entity {
	d, ok := data.Data.(*livingData)
	if !ok {
		d = Config{EntityType: t}.newData()
		data.Data = d
	}
	return &Living{tx: tx, handle: handle, data: data, t: t, livingData: d}
}

// EncodeEntity ...
func (t Type) EncodeEntity() string {
	return t.ID
}

// BBox ...
func (t Type) BBox(world.Entity) cube.BBox {
	w := t.Width / 2
	return cube.Box(-w, 0, -w, w, t.Height, w)
}

// DecodeNBT ...
func (t Type) DecodeNBT(m map[string]any, data *world.EntityData) {
	d := Config{EntityType: t}.newData()
	if v, ok := m["Variant"].(int32); ok {
		d.variant = v
	}
	if v, ok := m["Health"].(float32); ok {
		d.health.AddHealth(float64(v) - d.health.Health())
	}
	if v, ok := m["Owner"].(string); ok {
		d.owner, _ = uuid.Parse(v)
	}
	data.Data = d
}

// EncodeNBT ...
func (t Type) EncodeNBT(data *world.EntityData) map[string]any {
	d, ok := data.Data.(*livingData)
	if !ok {
		return map[string]any{}
	}
	return map[string]any{
		"Variant": d.variant,
		"Health":  float32(d.health.Health()),
		"Owner":   d.owner.String(),
	}
}
