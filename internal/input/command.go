package input

import (
	"fmt"

	"github.com/crusoe/game/internal/core/event"
	"github.com/crusoe/game/internal/core/grid"
	"github.com/crusoe/game/internal/core/item"
	"github.com/crusoe/game/internal/world"
)

// Op is the mutation a Command asks for.
type Op uint8

const (
	OpMove Op = iota + 1
	OpTurn
	OpBuild
	OpDestroy
	OpDrop
)

func (o Op) String() string {
	switch o {
	case OpMove:
		return "move"
	case OpTurn:
		return "turn"
	case OpBuild:
		return "build"
	case OpDestroy:
		return "destroy"
	case OpDrop:
		return "drop"
	default:
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
}

// Command is a decided mutation request, kept as data so it can be
// logged and compared before it becomes a request on the bus.
type Command struct {
	Op        Op
	Direction grid.Direction   // move, turn
	Target    grid.Coordinates // build, destroy
	Item      item.Item        // drop
}

func (c Command) String() string {
	switch c.Op {
	case OpMove, OpTurn:
		return fmt.Sprintf("%s(%s)", c.Op, c.Direction)
	case OpBuild, OpDestroy:
		return fmt.Sprintf("%s(%s)", c.Op, c.Target)
	case OpDrop:
		return fmt.Sprintf("%s(%s)", c.Op, c.Item)
	default:
		return c.Op.String()
	}
}

// Sink is where commands become mutation requests. *game.Game satisfies it.
type Sink interface {
	UpdateWorld(req world.Request) ([]event.Event, error)
	UpdatePlayer(req world.PlayerRequest) ([]event.Event, error)
}

// Submit turns c into its World or Player request and applies it.
func (c Command) Submit(s Sink) ([]event.Event, error) {
	switch c.Op {
	case OpMove:
		return s.UpdateWorld(world.Move(c.Direction))
	case OpTurn:
		return s.UpdateWorld(world.Turn(c.Direction))
	case OpBuild:
		return s.UpdateWorld(world.BuildWallAt(c.Target))
	case OpDestroy:
		return s.UpdateWorld(world.DestroyWallAt(c.Target))
	case OpDrop:
		return s.UpdatePlayer(world.DropItem(c.Item))
	default:
		return nil, fmt.Errorf("submit: unknown op %s", c.Op)
	}
}
