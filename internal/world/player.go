package world

import (
	"github.com/crusoe/game/internal/core/event"
	"github.com/crusoe/game/internal/core/item"
)

// Player is the acting avatar. It carries no inventory; what the player
// holds is derived from ItemPickedUp/ItemDropped events by the Holder.
type Player struct {
	Name string
}

func NewPlayer(name string) Player {
	return Player{Name: name}
}

// DropItem always emits ItemDropped. Whether the player actually holds it
// is checked by whoever issues the request.
func (p Player) DropItem(it item.Item) (Player, []event.Event) {
	return p, []event.Event{event.ItemDropped{Item: it}}
}
