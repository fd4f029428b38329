package game

import (
	"github.com/crusoe/game/internal/core/grid"
	"github.com/crusoe/game/internal/world"
)

// Snapshot is an immutable view of the game sufficient to draw one frame.
type Snapshot struct {
	Version    uint64             `json:"version"`
	Dimensions grid.Dimensions    `json:"dimensions"`
	Walls      []grid.Coordinates `json:"walls"`
	Items      []ItemView         `json:"items"`
	Player     *PlayerView        `json:"player,omitempty"`
}

type ItemView struct {
	Item string           `json:"item"`
	At   grid.Coordinates `json:"at"`
}

type PlayerView struct {
	Name   string           `json:"name"`
	At     grid.Coordinates `json:"at"`
	Facing string           `json:"facing"`
}

// Snapshot captures the current state. Version increases with every
// applied request that emitted at least one event, so renderers can skip
// unchanged frames.
func (g *Game) Snapshot() Snapshot {
	g.stateMu.RLock()
	w, p, version := g.world, g.player, g.version
	g.stateMu.RUnlock()

	return buildSnapshot(w, p, version)
}

func buildSnapshot(w world.World, p world.Player, version uint64) Snapshot {
	s := Snapshot{
		Version:    version,
		Dimensions: w.Dimensions(),
		Walls:      w.Walls(),
	}
	placements := w.Items()
	s.Items = make([]ItemView, 0, len(placements))
	for _, pl := range placements {
		s.Items = append(s.Items, ItemView{Item: pl.Item.String(), At: pl.At})
	}
	if at, ok := w.Player(); ok {
		s.Player = &PlayerView{Name: p.Name, At: at, Facing: w.Facing().String()}
	}
	return s
}
