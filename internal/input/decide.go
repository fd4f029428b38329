package input

import (
	"github.com/crusoe/game/internal/core/grid"
	"github.com/crusoe/game/internal/core/item"
)

// MoveOracle answers movement questions from derived state (Mover).
type MoveOracle interface {
	IsFacing(d grid.Direction) bool
	IsLegalMove(d grid.Direction) bool
}

// BuildOracle answers action-key questions from derived state (Builder).
type BuildOracle interface {
	CanBuildWherePlayerLooking() bool
	CanDestroyWherePlayerLooking() bool
	PlayerTarget() grid.Coordinates
}

// Inventory answers drop questions from derived state (Holder).
type Inventory interface {
	HasItems() bool
	Next() (item.Item, bool)
}

// DropSpot reports whether the player's cell can take an item (Picker).
type DropSpot interface {
	CanDropHere() bool
}

// DecideMove moves when the player already faces d and the step is legal,
// and turns otherwise. It always yields exactly one command.
func DecideMove(m MoveOracle, d grid.Direction) Command {
	if m.IsFacing(d) && m.IsLegalMove(d) {
		return Command{Op: OpMove, Direction: d}
	}
	return Command{Op: OpTurn, Direction: d}
}

// DecideAction builds in front of the player when possible, otherwise
// destroys the wall there, otherwise does nothing.
func DecideAction(b BuildOracle) (Command, bool) {
	switch {
	case b.CanBuildWherePlayerLooking():
		return Command{Op: OpBuild, Target: b.PlayerTarget()}, true
	case b.CanDestroyWherePlayerLooking():
		return Command{Op: OpDestroy, Target: b.PlayerTarget()}, true
	default:
		return Command{}, false
	}
}

// DecideDrop drops the item held longest, provided the player's cell can
// receive it.
func DecideDrop(inv Inventory, spot DropSpot) (Command, bool) {
	if !inv.HasItems() || !spot.CanDropHere() {
		return Command{}, false
	}
	it, ok := inv.Next()
	if !ok {
		return Command{}, false
	}
	return Command{Op: OpDrop, Item: it}, true
}
