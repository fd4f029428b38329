package system

import (
	"time"

	coresys "github.com/crusoe/game/internal/core/system"
	"github.com/crusoe/game/internal/input"
	"github.com/crusoe/game/internal/net"
	"go.uber.org/zap"
)

// SessionSource is the transport side the InputSystem drains.
type SessionSource interface {
	NewSessions() <-chan *net.Session
	DeadSessions() <-chan uint64
	NotifyDead(id uint64)
}

// Publisher receives key signals; the input Broadcaster implements it.
type Publisher interface {
	Publish(sig input.Signal)
}

// InputSystem accepts new sessions, retires dead ones and moves queued key
// signals from every session into the input stream. Phase 0 (Input).
type InputSystem struct {
	source     SessionSource
	store      *net.SessionStore
	out        Publisher
	maxPerTick int
	log        *zap.Logger
}

func NewInputSystem(source SessionSource, store *net.SessionStore, out Publisher, maxPerTick int, log *zap.Logger) *InputSystem {
	return &InputSystem{
		source:     source,
		store:      store,
		out:        out,
		maxPerTick: maxPerTick,
		log:        log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	// Accept new sessions
	for {
		select {
		case sess := <-s.source.NewSessions():
			s.store.Add(sess)
		default:
			goto doneNew
		}
	}
doneNew:

	// Process dead sessions
	for {
		select {
		case id := <-s.source.DeadSessions():
			s.store.Remove(id)
		default:
			goto doneDead
		}
	}
doneDead:

	// Drain signals from each session (up to maxPerTick per session)
	for id, sess := range s.store.Raw() {
		s.drain(sess)
		if sess.IsClosed() {
			s.log.Info("client disconnected", zap.Uint64("session", id))
			s.source.NotifyDead(id)
			s.store.Remove(id)
		}
	}
}

func (s *InputSystem) drain(sess *net.Session) {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case sig := <-sess.InQueue:
			s.out.Publish(sig)
		default:
			return
		}
	}
}
