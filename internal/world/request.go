package world

import (
	"github.com/crusoe/game/internal/core/event"
	"github.com/crusoe/game/internal/core/grid"
	"github.com/crusoe/game/internal/core/item"
)

// Request is a mutation request against the World: a pure function from
// the current World to its successor and the events that describe the
// change.
type Request func(World) (World, []event.Event)

// PlayerRequest is the Player counterpart of Request.
type PlayerRequest func(Player) (Player, []event.Event)

func Resize(d grid.Dimensions) Request {
	return func(w World) (World, []event.Event) { return w.Resize(d) }
}

func SpawnPlayerAt(c grid.Coordinates) Request {
	return func(w World) (World, []event.Event) { return w.SpawnPlayerAt(c) }
}

func SpawnItemAt(it item.Item, c grid.Coordinates) Request {
	return func(w World) (World, []event.Event) { return w.SpawnItemAt(it, c) }
}

func BuildWallAt(c grid.Coordinates) Request {
	return func(w World) (World, []event.Event) { return w.BuildWallAt(c) }
}

func DestroyWallAt(c grid.Coordinates) Request {
	return func(w World) (World, []event.Event) { return w.DestroyWallAt(c) }
}

func Move(d grid.Direction) Request {
	return func(w World) (World, []event.Event) { return w.Move(d) }
}

func Turn(d grid.Direction) Request {
	return func(w World) (World, []event.Event) { return w.Turn(d) }
}

func PickUpItemAt(c grid.Coordinates) Request {
	return func(w World) (World, []event.Event) { return w.PickUpItemAt(c) }
}

func PlaceItemAt(it item.Item, c grid.Coordinates) Request {
	return func(w World) (World, []event.Event) { return w.PlaceItemAt(it, c) }
}

func DropItem(it item.Item) PlayerRequest {
	return func(p Player) (Player, []event.Event) { return p.DropItem(it) }
}
