package component

import (
	"sync"

	"github.com/crusoe/game/internal/core/event"
	"github.com/crusoe/game/internal/core/grid"
)

// Builder watches the cell in front of the player and decides whether the
// action key builds or destroys a wall there.
type Builder struct {
	mu     sync.RWMutex
	board  board
	router *event.Router
}

func NewBuilder() *Builder {
	b := &Builder{board: newBoard(), router: event.NewRouter()}
	lock := func() func() { b.mu.Lock(); return b.mu.Unlock }
	trackTerrain(b.router, lock, &b.board)
	trackPlayer(b.router, lock, &b.board)
	trackItems(b.router, lock, &b.board)
	return b
}

// Process is the handler registered on the dispatch bus.
func (b *Builder) Process(e event.Event) { b.router.Dispatch(e) }

// PlayerTarget is the cell directly in front of the player.
func (b *Builder) PlayerTarget() grid.Coordinates {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.board.target()
}

// CanBuildWherePlayerLooking mirrors the World's wall-building rules for
// the target cell. It is never true together with
// CanDestroyWherePlayerLooking.
func (b *Builder) CanBuildWherePlayerLooking() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.board.spawned {
		return false
	}
	t := b.board.target()
	if !b.board.isOpen(t) || t == b.board.at {
		return false
	}
	_, occupied := b.board.items[t]
	return !occupied
}

func (b *Builder) CanDestroyWherePlayerLooking() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.board.spawned && b.board.isWall(b.board.target())
}
