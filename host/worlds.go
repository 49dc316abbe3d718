package host

import (
	"github.com/bedrock-gophers/magic/undo"
	"github.com/df-mc/dragonfly/server/world"
)

// Names of the dimensions of a server.
const (
	Overworld = "overworld"
	Nether    = "nether"
	End       = "end"
)

// DimensionName returns the name of d.
func DimensionName(d world.Dimension) string {
	switch d {
	case world.Nether:
		return Nether
	case world.End:
		return End
	}
	return Overworld
}

// Worlds holds the worlds of a server by the name of their dimension.
type Worlds map[string]*world.World

// NewWorlds returns Worlds holding the worlds passed. Nil worlds are skipped.
func NewWorlds(worlds ...*world.World) Worlds {
	ws := make(Worlds, len(worlds))
	for _, w := range worlds {
		if w != nil {
			ws[DimensionName(w.Dimension())] = w
		}
	}
	return ws
}

// Exec runs task in the world of dim and waits for it to finish. An empty
// dim is the overworld.
func (ws Worlds) Exec(dim string, task func(tx undo.Tx)) bool {
	if dim == "" {
		dim = Overworld
	}
	w, ok := ws[dim]
	if !ok {
		return false
	}
	<-w.Exec(func(tx *world.Tx) {
		task(NewTx(tx))
	})
	return true
}
