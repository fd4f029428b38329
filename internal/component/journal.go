package component

import (
	"sync"

	"github.com/crusoe/game/internal/core/event"
	"go.uber.org/zap"
)

// Journal is a pure event sink: it logs every event and counts them by
// kind. Like the audio and graph collaborators it has no way to mutate
// state.
type Journal struct {
	mu     sync.Mutex
	counts map[event.Kind]int
	log    *zap.Logger
}

func NewJournal(log *zap.Logger) *Journal {
	return &Journal{counts: make(map[event.Kind]int), log: log}
}

// Process is the handler registered on the dispatch bus.
func (j *Journal) Process(e event.Event) {
	j.mu.Lock()
	j.counts[e.Kind()]++
	j.mu.Unlock()
	j.log.Debug("event", zap.Stringer("kind", e.Kind()), zap.Stringer("event", e))
}

// Count returns how many events of kind k were seen.
func (j *Journal) Count(k event.Kind) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.counts[k]
}
