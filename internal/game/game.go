package game

import (
	"errors"
	"fmt"
	"sync"

	"github.com/crusoe/game/internal/core/event"
	"github.com/crusoe/game/internal/world"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrHandlerPanic wraps every handler panic recovered during delivery.
var ErrHandlerPanic = errors.New("event handler panicked")

// maxFollowUps bounds the scheduled requests drained by one update call,
// so two handlers scheduling each other cannot spin forever.
const maxFollowUps = 256

type registration struct {
	name string
	fn   event.Handler
}

type scheduled struct {
	world  world.Request
	player world.PlayerRequest
}

// Game is the dispatch bus. It owns the current World and Player, applies
// mutation requests to them and delivers the resulting events to every
// registered handler.
//
// Updates are serialized: one UpdateWorld/UpdatePlayer call runs at a time,
// whichever goroutine it comes from. Within a call each event is delivered
// to every handler in registration order before the next event is
// delivered. Readers (World, Player, Snapshot) never block on delivery and
// never see a half-applied request.
type Game struct {
	mu       sync.Mutex // serializes updates and guards handlers
	handlers []registration

	stateMu sync.RWMutex // guards world, player, version
	world   world.World
	player  world.Player
	version uint64

	pendingMu sync.Mutex
	pending   []scheduled

	log *zap.Logger
}

// New creates a Game holding an empty World and the given Player.
func New(player world.Player, log *zap.Logger) *Game {
	return &Game{
		world:  world.New(),
		player: player,
		log:    log,
	}
}

// Register appends h to the delivery list. Registration order is delivery
// order. Must not be called from inside a handler.
func (g *Game) Register(name string, h event.Handler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.handlers = append(g.handlers, registration{name: name, fn: h})
	g.log.Debug("handler registered", zap.String("handler", name), zap.Int("position", len(g.handlers)))
}

// UpdateWorld applies req to the current World, then delivers its events.
// Requests scheduled by handlers during delivery are applied afterwards in
// FIFO order, before UpdateWorld returns. The returned slice holds every
// event applied by the call; the error aggregates handler failures.
func (g *Game) UpdateWorld(req world.Request) ([]event.Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	evs, err := g.applyWorld(req)
	more, followErr := g.drainScheduled()
	return append(evs, more...), multierr.Append(err, followErr)
}

// UpdatePlayer is the Player counterpart of UpdateWorld.
func (g *Game) UpdatePlayer(req world.PlayerRequest) ([]event.Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	evs, err := g.applyPlayer(req)
	more, followErr := g.drainScheduled()
	return append(evs, more...), multierr.Append(err, followErr)
}

// ScheduleWorld queues req to run after the current delivery finishes.
// Handlers use it instead of calling UpdateWorld, which would deadlock.
// Outside a delivery the request waits for the next update call.
func (g *Game) ScheduleWorld(req world.Request) {
	g.pendingMu.Lock()
	g.pending = append(g.pending, scheduled{world: req})
	g.pendingMu.Unlock()
}

// SchedulePlayer is the Player counterpart of ScheduleWorld.
func (g *Game) SchedulePlayer(req world.PlayerRequest) {
	g.pendingMu.Lock()
	g.pending = append(g.pending, scheduled{player: req})
	g.pendingMu.Unlock()
}

// World returns the current World. The value is immutable.
func (g *Game) World() world.World {
	g.stateMu.RLock()
	defer g.stateMu.RUnlock()
	return g.world
}

// Player returns the current Player.
func (g *Game) Player() world.Player {
	g.stateMu.RLock()
	defer g.stateMu.RUnlock()
	return g.player
}

func (g *Game) applyWorld(req world.Request) ([]event.Event, error) {
	g.stateMu.Lock()
	next, evs := req(g.world)
	g.world = next
	if len(evs) > 0 {
		g.version++
	}
	g.stateMu.Unlock()

	return evs, g.deliver(evs)
}

func (g *Game) applyPlayer(req world.PlayerRequest) ([]event.Event, error) {
	g.stateMu.Lock()
	next, evs := req(g.player)
	g.player = next
	if len(evs) > 0 {
		g.version++
	}
	g.stateMu.Unlock()

	return evs, g.deliver(evs)
}

func (g *Game) drainScheduled() ([]event.Event, error) {
	var (
		all  []event.Event
		errs error
	)
	for n := 0; ; n++ {
		next, ok := g.popScheduled()
		if !ok {
			return all, errs
		}
		if n == maxFollowUps {
			dropped := g.clearScheduled() + 1
			g.log.Warn("scheduled requests dropped", zap.Int("dropped", dropped))
			return all, errs
		}
		var (
			evs []event.Event
			err error
		)
		if next.world != nil {
			evs, err = g.applyWorld(next.world)
		} else {
			evs, err = g.applyPlayer(next.player)
		}
		all = append(all, evs...)
		errs = multierr.Append(errs, err)
	}
}

func (g *Game) popScheduled() (scheduled, bool) {
	g.pendingMu.Lock()
	defer g.pendingMu.Unlock()
	if len(g.pending) == 0 {
		return scheduled{}, false
	}
	next := g.pending[0]
	g.pending = g.pending[1:]
	return next, true
}

func (g *Game) clearScheduled() int {
	g.pendingMu.Lock()
	defer g.pendingMu.Unlock()
	n := len(g.pending)
	g.pending = nil
	return n
}

// deliver hands every event to every handler. A failing handler does not
// stop delivery to the others.
func (g *Game) deliver(evs []event.Event) error {
	var errs error
	for _, ev := range evs {
		for _, h := range g.handlers {
			errs = multierr.Append(errs, g.safeCall(h, ev))
		}
	}
	return errs
}

// safeCall runs one handler with panic recovery.
func (g *Game) safeCall(h registration, ev event.Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			g.log.Error("handler panic recovered",
				zap.String("handler", h.name),
				zap.Stringer("event", ev),
				zap.Any("panic", rec),
			)
			err = fmt.Errorf("%w: %s on %s: %v", ErrHandlerPanic, h.name, ev, rec)
		}
	}()
	h.fn(ev)
	return nil
}
