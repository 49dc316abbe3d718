package spells

import (
	"math/rand/v2"
	"strings"

	"github.com/bedrock-gophers/magic/spell"
	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/df-mc/dragonfly/server/world/sound"
)

// treeKind is the shape of a tree the Tree spell grows.
type treeKind struct {
	name   string
	wood   block.WoodType
	height int
	// crown returns the leaf radius at the height passed, measured down from
	// the top of the trunk, or a negative radius if there are no leaves.
	crown func(depth int) int
}

func roundCrown(depth int) int {
	switch depth {
	case -1, 0:
		return 1
	case 1, 2:
		return 2
	}
	return -1
}

func coneCrown(depth int) int {
	switch {
	case depth < -1 || depth > 5:
		return -1
	case depth <= 0:
		return 0
	}
	return 1 + depth%2 + depth/3
}

var trees = []treeKind{
	{name: "oak", wood: block.OakWood(), height: 5, crown: roundCrown},
	{name: "birch", wood: block.BirchWood(), height: 6, crown: roundCrown},
	{name: "spruce", wood: block.SpruceWood(), height: 7, crown: coneCrown},
	{name: "jungle", wood: block.JungleWood(), height: 8, crown: roundCrown},
	{name: "acacia", wood: block.AcaciaWood(), height: 5, crown: roundCrown},
	{name: "dark_oak", wood: block.DarkOakWood(), height: 6, crown: roundCrown},
}

// treeAliases map alternative type names to a tree and the height it grows
// to.
var treeAliases = map[string]struct {
	name   string
	height int
}{
	"big":     {"oak", 8},
	"tall":    {"spruce", 11},
	"redwood": {"spruce", 9},
}

// TreeKind resolves a tree type name. An empty name picks a random tree.
func TreeKind(name string) (treeKind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return trees[rand.IntN(len(trees))], true
	}
	height := 0
	if a, ok := treeAliases[name]; ok {
		name, height = a.name, a.height
	}
	for _, t := range trees {
		if t.name == name {
			if height > 0 {
				t.height = height
			}
			return t, true
		}
	}
	return treeKind{}, false
}

// Tree grows a tree on the block the caster aims at.
type Tree struct{}

// Cast ...
func (Tree) Cast(ctx *spell.Context) spell.Result {
	t := ctx.FindTarget()
	if !t.HasBlock() {
		return noTarget(ctx)
	}
	if ctx.Params.Bool(false, "require_soil") && !soil(t.Block) {
		return spell.Fail(ctx.Message("fail", "A tree won't grow here"))
	}
	kind, ok := TreeKind(ctx.Params.String("", "type"))
	if !ok {
		return spell.Fail(ctx.Message("unknown_type", "There is no such tree"))
	}

	base := t.Pos.Side(cube.FaceUp)
	for y := range kind.height {
		pos := base.Add(cube.Pos{0, y, 0})
		if !growable(ctx, pos) {
			return spell.Fail(ctx.Message("fail", "A tree won't grow here"))
		}
	}

	leaves := block.Leaves{Wood: kind.wood, Persistent: true}
	top := kind.height - 1
	for depth := -1; depth <= top; depth++ {
		r := kind.crown(depth)
		if r < 0 {
			continue
		}
		for dx := -r; dx <= r; dx++ {
			for dz := -r; dz <= r; dz++ {
				if r > 0 && abs(dx) == r && abs(dz) == r && depth != 1 {
					continue
				}
				pos := base.Add(cube.Pos{dx, top - depth, dz})
				if (dx != 0 || dz != 0 || depth < 0) && growable(ctx, pos) {
					ctx.SetBlock(pos, leaves, nil)
				}
			}
		}
	}
	log := block.Log{Wood: kind.wood, Axis: cube.Y}
	for y := range kind.height {
		ctx.SetBlock(base.Add(cube.Pos{0, y, 0}), log, nil)
	}
	ctx.World.PlaySound(base.Vec3Centre(), sound.BlockPlace{Block: log})

	msg := ctx.Message("cast", "You grow a $tree tree")
	return spell.Succeed(strings.ReplaceAll(msg, "$tree", strings.ReplaceAll(kind.name, "_", " ")))
}

// growable reports whether a tree may grow into the block at pos.
func growable(ctx *spell.Context, pos cube.Pos) bool {
	b := ctx.World.Block(pos)
	switch b.(type) {
	case block.Air, block.Leaves:
		return ctx.IsDestructible(pos, b)
	}
	return false
}

func soil(b world.Block) bool {
	switch b.(type) {
	case block.Grass, block.Dirt, block.Podzol:
		return true
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
