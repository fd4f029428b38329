package component

import (
	"sync"

	"github.com/crusoe/game/internal/core/event"
	"github.com/crusoe/game/internal/world"
	"go.uber.org/zap"
)

// Scheduler accepts follow-up World requests from inside event delivery.
type Scheduler interface {
	ScheduleWorld(req world.Request)
}

// Picker moves items between the board and the player's hands: stepping
// onto an item picks it up, and a dropped item lands on the player's cell.
// It never mutates directly; it schedules requests on the bus.
//
// A cell holds at most one item. ItemDropped on a cell that already holds
// one has nowhere to put the item: the Holder lets go of it anyway, so
// it is lost and a warning is logged. Callers issuing DropItem check
// CanDropHere first, as the input pipeline does.
type Picker struct {
	mu     sync.RWMutex
	board  board
	router *event.Router
	sched  Scheduler
	log    *zap.Logger
}

func NewPicker(sched Scheduler, log *zap.Logger) *Picker {
	p := &Picker{board: newBoard(), router: event.NewRouter(), sched: sched, log: log}
	lock := func() func() { p.mu.Lock(); return p.mu.Unlock }
	trackPlayer(p.router, lock, &p.board)
	trackItems(p.router, lock, &p.board)

	// Registered after the trackers so the cell is already updated.
	event.Subscribe(p.router, func(e event.PlayerMoved) {
		p.mu.RLock()
		_, lying := p.board.items[e.To]
		p.mu.RUnlock()
		if lying {
			p.sched.ScheduleWorld(world.PickUpItemAt(e.To))
		}
	})
	event.Subscribe(p.router, func(e event.ItemDropped) {
		p.mu.RLock()
		at := p.board.at
		lying, taken := p.board.items[at]
		p.mu.RUnlock()
		if taken {
			p.log.Warn("dropped item lost, cell already holds an item",
				zap.Stringer("item", e.Item),
				zap.Stringer("cell", at),
				zap.Stringer("lying", lying),
			)
			return
		}
		p.sched.ScheduleWorld(world.PlaceItemAt(e.Item, at))
	})
	return p
}

// Process is the handler registered on the dispatch bus.
func (p *Picker) Process(e event.Event) { p.router.Dispatch(e) }

// CanDropHere reports whether the player's cell is free to receive an item.
func (p *Picker) CanDropHere() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.board.spawned {
		return false
	}
	_, taken := p.board.items[p.board.at]
	return !taken
}
