package component

import (
	"sync"

	"github.com/crusoe/game/internal/core/event"
	"github.com/crusoe/game/internal/core/grid"
)

// Mover mirrors the player's cell and facing plus the terrain, and answers
// the questions the input pipeline asks before choosing move or turn.
// Legality is recomputed on every query rather than cached.
type Mover struct {
	mu     sync.RWMutex
	board  board
	router *event.Router
}

func NewMover() *Mover {
	m := &Mover{board: newBoard(), router: event.NewRouter()}
	lock := func() func() { m.mu.Lock(); return m.mu.Unlock }
	trackTerrain(m.router, lock, &m.board)
	trackPlayer(m.router, lock, &m.board)
	return m
}

// Process is the handler registered on the dispatch bus.
func (m *Mover) Process(e event.Event) { m.router.Dispatch(e) }

func (m *Mover) IsFacing(d grid.Direction) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.board.spawned && m.board.facing == d
}

// IsLegalMove reports whether one step in direction d stays on the board
// and off the walls.
func (m *Mover) IsLegalMove(d grid.Direction) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.board.spawned && m.board.isOpen(m.board.at.Step(d))
}

func (m *Mover) Facing() grid.Direction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.board.facing
}

func (m *Mover) Position() (grid.Coordinates, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.board.at, m.board.spawned
}
