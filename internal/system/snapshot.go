package system

import (
	"encoding/json"
	"time"

	coresys "github.com/crusoe/game/internal/core/system"
	"github.com/crusoe/game/internal/game"
	"github.com/crusoe/game/internal/net"
	"go.uber.org/zap"
)

// SnapshotSource is the read-only view of the bus the render tick needs.
type SnapshotSource interface {
	Snapshot() game.Snapshot
}

type frame struct {
	Type  string        `json:"type"`
	Frame game.Snapshot `json:"frame"`
}

// SnapshotSystem is the render tick: it reads one snapshot per tick and
// sends it to every session that has not seen that version yet. It never
// mutates game state. Phase 2 (Output).
type SnapshotSystem struct {
	source SnapshotSource
	store  *net.SessionStore
	sent   map[uint64]uint64 // session -> version + 1 last sent
	log    *zap.Logger
}

func NewSnapshotSystem(source SnapshotSource, store *net.SessionStore, log *zap.Logger) *SnapshotSystem {
	return &SnapshotSystem{
		source: source,
		store:  store,
		sent:   make(map[uint64]uint64),
		log:    log,
	}
}

func (s *SnapshotSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *SnapshotSystem) Update(_ time.Duration) {
	for id := range s.sent {
		if s.store.Get(id) == nil {
			delete(s.sent, id)
		}
	}
	if s.store.Len() == 0 {
		return
	}

	snap := s.source.Snapshot()
	mark := snap.Version + 1
	var data []byte
	s.store.ForEach(func(sess *net.Session) {
		if s.sent[sess.ID] == mark {
			return
		}
		if data == nil {
			var err error
			data, err = json.Marshal(frame{Type: "snapshot", Frame: snap})
			if err != nil {
				s.log.Error("snapshot encode failed", zap.Error(err))
				return
			}
		}
		if sess.Send(data) {
			s.sent[sess.ID] = mark
		}
	})
}
