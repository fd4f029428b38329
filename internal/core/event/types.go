package event

import (
	"fmt"

	"github.com/crusoe/game/internal/core/grid"
	"github.com/crusoe/game/internal/core/item"
)

// Kind tags each event variant.
type Kind uint8

const (
	KindWorldResized Kind = iota + 1
	KindPlayerSpawned
	KindItemSpawned
	KindWallBuilt
	KindWallDestroyed
	KindPlayerMoved
	KindPlayerTurned
	KindItemPickedUp
	KindItemDropped
)

var kindNames = [...]string{
	KindWorldResized:  "WorldResized",
	KindPlayerSpawned: "PlayerSpawned",
	KindItemSpawned:   "ItemSpawned",
	KindWallBuilt:     "WallBuilt",
	KindWallDestroyed: "WallDestroyed",
	KindPlayerMoved:   "PlayerMoved",
	KindPlayerTurned:  "PlayerTurned",
	KindItemPickedUp:  "ItemPickedUp",
	KindItemDropped:   "ItemDropped",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Event is an immutable fact about a past state change. The set of
// implementations is closed to this package.
type Event interface {
	Kind() Kind
	String() string
	sealed()
}

type WorldResized struct {
	Dimensions grid.Dimensions
}

type PlayerSpawned struct {
	At grid.Coordinates
}

type ItemSpawned struct {
	Item item.Item
	At   grid.Coordinates
}

type WallBuilt struct {
	At grid.Coordinates
}

type WallDestroyed struct {
	At grid.Coordinates
}

type PlayerMoved struct {
	From grid.Coordinates
	To   grid.Coordinates
}

type PlayerTurned struct {
	Facing grid.Direction
}

// ItemPickedUp records an item leaving the board for the player's hands.
type ItemPickedUp struct {
	Item item.Item
	From grid.Coordinates
}

type ItemDropped struct {
	Item item.Item
}

func (WorldResized) Kind() Kind  { return KindWorldResized }
func (PlayerSpawned) Kind() Kind { return KindPlayerSpawned }
func (ItemSpawned) Kind() Kind   { return KindItemSpawned }
func (WallBuilt) Kind() Kind     { return KindWallBuilt }
func (WallDestroyed) Kind() Kind { return KindWallDestroyed }
func (PlayerMoved) Kind() Kind   { return KindPlayerMoved }
func (PlayerTurned) Kind() Kind  { return KindPlayerTurned }
func (ItemPickedUp) Kind() Kind  { return KindItemPickedUp }
func (ItemDropped) Kind() Kind   { return KindItemDropped }

func (WorldResized) sealed()  {}
func (PlayerSpawned) sealed() {}
func (ItemSpawned) sealed()   {}
func (WallBuilt) sealed()     {}
func (WallDestroyed) sealed() {}
func (PlayerMoved) sealed()   {}
func (PlayerTurned) sealed()  {}
func (ItemPickedUp) sealed()  {}
func (ItemDropped) sealed()   {}

func (e WorldResized) String() string  { return fmt.Sprintf("WorldResized(%s)", e.Dimensions) }
func (e PlayerSpawned) String() string { return fmt.Sprintf("PlayerSpawned(%s)", e.At) }
func (e ItemSpawned) String() string   { return fmt.Sprintf("ItemSpawned(%s, %s)", e.Item, e.At) }
func (e WallBuilt) String() string     { return fmt.Sprintf("WallBuilt(%s)", e.At) }
func (e WallDestroyed) String() string { return fmt.Sprintf("WallDestroyed(%s)", e.At) }
func (e PlayerMoved) String() string   { return fmt.Sprintf("PlayerMoved(%s, %s)", e.From, e.To) }
func (e PlayerTurned) String() string  { return fmt.Sprintf("PlayerTurned(%s)", e.Facing) }
func (e ItemPickedUp) String() string  { return fmt.Sprintf("ItemPickedUp(%s, %s)", e.Item, e.From) }
func (e ItemDropped) String() string   { return fmt.Sprintf("ItemDropped(%s)", e.Item) }
