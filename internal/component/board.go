package component

import (
	"github.com/crusoe/game/internal/core/event"
	"github.com/crusoe/game/internal/core/grid"
	"github.com/crusoe/game/internal/core/item"
)

// board is the slice of World a component mirrors from events. It has no
// lock of its own; the owning component guards it.
type board struct {
	dims    grid.Dimensions
	walls   map[grid.Coordinates]struct{}
	items   map[grid.Coordinates]item.Item
	at      grid.Coordinates
	facing  grid.Direction
	spawned bool
}

func newBoard() board {
	return board{
		walls: make(map[grid.Coordinates]struct{}),
		items: make(map[grid.Coordinates]item.Item),
	}
}

func (b *board) isWall(c grid.Coordinates) bool {
	_, ok := b.walls[c]
	return ok
}

func (b *board) isOpen(c grid.Coordinates) bool {
	return b.dims.Contains(c) && !b.isWall(c)
}

// target is the cell directly in front of the player.
func (b *board) target() grid.Coordinates {
	return b.at.Step(b.facing)
}

// trackPlayer keeps the player's cell and facing current.
func trackPlayer(r *event.Router, lock func() func(), b *board) {
	event.Subscribe(r, func(e event.PlayerSpawned) {
		defer lock()()
		b.at, b.facing, b.spawned = e.At, grid.North, true
	})
	event.Subscribe(r, func(e event.PlayerMoved) {
		defer lock()()
		b.facing = facingOf(e.From, e.To, b.facing)
		b.at = e.To
	})
	event.Subscribe(r, func(e event.PlayerTurned) {
		defer lock()()
		b.facing = e.Facing
	})
}

// trackTerrain keeps the bounds and the wall set current.
func trackTerrain(r *event.Router, lock func() func(), b *board) {
	event.Subscribe(r, func(e event.WorldResized) {
		defer lock()()
		b.dims = e.Dimensions
	})
	event.Subscribe(r, func(e event.WallBuilt) {
		defer lock()()
		b.walls[e.At] = struct{}{}
	})
	event.Subscribe(r, func(e event.WallDestroyed) {
		defer lock()()
		delete(b.walls, e.At)
	})
}

// trackItems keeps the placed-item map current.
func trackItems(r *event.Router, lock func() func(), b *board) {
	event.Subscribe(r, func(e event.ItemSpawned) {
		defer lock()()
		b.items[e.At] = e.Item
	})
	event.Subscribe(r, func(e event.ItemPickedUp) {
		defer lock()()
		delete(b.items, e.From)
	})
}

// facingOf recovers the heading of a one-cell move.
func facingOf(from, to grid.Coordinates, fallback grid.Direction) grid.Direction {
	for _, d := range grid.Directions {
		if from.Step(d) == to {
			return d
		}
	}
	return fallback
}
