package world

import (
	"sort"

	"github.com/crusoe/game/internal/core/event"
	"github.com/crusoe/game/internal/core/grid"
	"github.com/crusoe/game/internal/core/item"
)

// DefaultDimensions is the board size of a freshly created World.
var DefaultDimensions = grid.Dimensions{Width: 32, Height: 32}

// World is the board: its bounds, walls, placed items and the player's
// cell and facing.
//
// World is a value. Mutators never modify the receiver; they return the
// successor World together with the events describing the change. The wall
// and item maps are copied on write, so a World handed out to readers
// stays valid forever.
type World struct {
	dims    grid.Dimensions
	walls   map[grid.Coordinates]struct{}
	items   map[grid.Coordinates]item.Item
	player  grid.Coordinates
	facing  grid.Direction
	spawned bool
}

// Placement is an item lying on the board.
type Placement struct {
	Item item.Item
	At   grid.Coordinates
}

// New returns an empty World with DefaultDimensions and no player.
func New() World {
	return World{dims: DefaultDimensions}
}

// ── Queries ─────────────────────────────────────────────────────────

func (w World) Dimensions() grid.Dimensions { return w.dims }

// Player returns the player's cell; ok is false before the first spawn.
func (w World) Player() (c grid.Coordinates, ok bool) { return w.player, w.spawned }

func (w World) Facing() grid.Direction { return w.facing }

func (w World) IsWall(c grid.Coordinates) bool {
	_, ok := w.walls[c]
	return ok
}

func (w World) ItemAt(c grid.Coordinates) (item.Item, bool) {
	it, ok := w.items[c]
	return it, ok
}

// IsOpen reports whether c is on the board and not a wall.
func (w World) IsOpen(c grid.Coordinates) bool {
	return w.dims.Contains(c) && !w.IsWall(c)
}

// Walls returns every wall cell in row-major order.
func (w World) Walls() []grid.Coordinates {
	out := make([]grid.Coordinates, 0, len(w.walls))
	for c := range w.walls {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Items returns every placed item in row-major order of its cell.
func (w World) Items() []Placement {
	out := make([]Placement, 0, len(w.items))
	for c, it := range w.items {
		out = append(out, Placement{Item: it, At: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At.Less(out[j].At) })
	return out
}

// Equal reports whether both Worlds describe the same board.
func (w World) Equal(o World) bool {
	if w.dims != o.dims || w.spawned != o.spawned || w.player != o.player || w.facing != o.facing {
		return false
	}
	if len(w.walls) != len(o.walls) || len(w.items) != len(o.items) {
		return false
	}
	for c := range w.walls {
		if !o.IsWall(c) {
			return false
		}
	}
	for c, it := range w.items {
		if other, ok := o.items[c]; !ok || other != it {
			return false
		}
	}
	return true
}

// ── Mutators ────────────────────────────────────────────────────────
//
// Every mutator whose precondition fails returns the receiver unchanged
// and no events. That is a silent no-op, not an error.

// Resize replaces the board bounds. Existing occupants are not checked.
func (w World) Resize(d grid.Dimensions) (World, []event.Event) {
	if d.Width <= 0 || d.Height <= 0 {
		return w, nil
	}
	w.dims = d
	return w, []event.Event{event.WorldResized{Dimensions: d}}
}

// SpawnPlayerAt places the player on an open cell, facing north.
func (w World) SpawnPlayerAt(c grid.Coordinates) (World, []event.Event) {
	if !w.IsOpen(c) {
		return w, nil
	}
	w.player = c
	w.facing = grid.North
	w.spawned = true
	return w, []event.Event{event.PlayerSpawned{At: c}}
}

// SpawnItemAt places it on an open cell that holds no other item and is
// not the player's cell.
func (w World) SpawnItemAt(it item.Item, c grid.Coordinates) (World, []event.Event) {
	if !w.IsOpen(c) {
		return w, nil
	}
	if _, taken := w.items[c]; taken {
		return w, nil
	}
	if w.spawned && w.player == c {
		return w, nil
	}
	w.items = cloneItems(w.items)
	w.items[c] = it
	return w, []event.Event{event.ItemSpawned{Item: it, At: c}}
}

// BuildWallAt raises a wall on an open cell that is neither the player's
// cell nor holding an item.
func (w World) BuildWallAt(c grid.Coordinates) (World, []event.Event) {
	if !w.IsOpen(c) {
		return w, nil
	}
	if w.spawned && w.player == c {
		return w, nil
	}
	if _, occupied := w.items[c]; occupied {
		return w, nil
	}
	w.walls = cloneWalls(w.walls)
	w.walls[c] = struct{}{}
	return w, []event.Event{event.WallBuilt{At: c}}
}

// DestroyWallAt removes the wall at c.
func (w World) DestroyWallAt(c grid.Coordinates) (World, []event.Event) {
	if !w.IsWall(c) {
		return w, nil
	}
	w.walls = cloneWalls(w.walls)
	delete(w.walls, c)
	if len(w.walls) == 0 {
		w.walls = nil
	}
	return w, []event.Event{event.WallDestroyed{At: c}}
}

// Move steps the player one cell in direction d. The player ends up
// facing d.
func (w World) Move(d grid.Direction) (World, []event.Event) {
	if !w.spawned {
		return w, nil
	}
	to := w.player.Step(d)
	if !w.IsOpen(to) {
		return w, nil
	}
	from := w.player
	w.player = to
	w.facing = d
	return w, []event.Event{event.PlayerMoved{From: from, To: to}}
}

// Turn changes the player's facing without moving. Turning to the current
// facing emits nothing.
func (w World) Turn(d grid.Direction) (World, []event.Event) {
	if !w.spawned || w.facing == d {
		return w, nil
	}
	w.facing = d
	return w, []event.Event{event.PlayerTurned{Facing: d}}
}

// PickUpItemAt takes the item lying under the player.
func (w World) PickUpItemAt(c grid.Coordinates) (World, []event.Event) {
	if !w.spawned || w.player != c {
		return w, nil
	}
	it, ok := w.items[c]
	if !ok {
		return w, nil
	}
	w.items = cloneItems(w.items)
	delete(w.items, c)
	if len(w.items) == 0 {
		w.items = nil
	}
	return w, []event.Event{event.ItemPickedUp{Item: it, From: c}}
}

// PlaceItemAt puts a carried item down on the player's own cell. Unlike
// SpawnItemAt it is the player's cell that is required.
func (w World) PlaceItemAt(it item.Item, c grid.Coordinates) (World, []event.Event) {
	if !w.spawned || w.player != c {
		return w, nil
	}
	if _, taken := w.items[c]; taken {
		return w, nil
	}
	w.items = cloneItems(w.items)
	w.items[c] = it
	return w, []event.Event{event.ItemSpawned{Item: it, At: c}}
}

func cloneWalls(m map[grid.Coordinates]struct{}) map[grid.Coordinates]struct{} {
	out := make(map[grid.Coordinates]struct{}, len(m)+1)
	for c := range m {
		out[c] = struct{}{}
	}
	return out
}

func cloneItems(m map[grid.Coordinates]item.Item) map[grid.Coordinates]item.Item {
	out := make(map[grid.Coordinates]item.Item, len(m)+1)
	for c, it := range m {
		out[c] = it
	}
	return out
}
