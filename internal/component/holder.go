package component

import (
	"slices"
	"sync"

	"github.com/crusoe/game/internal/core/event"
	"github.com/crusoe/game/internal/core/item"
)

// Holder derives what the player carries from ItemPickedUp/ItemDropped.
// It is written by event delivery and read by the input pipeline from
// another goroutine, so every access goes through a RWMutex; readers never
// see a half-applied change.
//
// Every picked-up copy is kept, in pickup order, so two pickaxes picked up
// are two pickaxes held; each ItemDropped removes the oldest copy of its
// kind. Next returns the item held longest, which is what the drop key
// drops.
type Holder struct {
	mu     sync.RWMutex
	held   []item.Item
	router *event.Router
}

func NewHolder() *Holder {
	h := &Holder{router: event.NewRouter()}
	event.Subscribe(h.router, func(e event.ItemPickedUp) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.held = append(h.held, e.Item)
	})
	event.Subscribe(h.router, func(e event.ItemDropped) {
		h.mu.Lock()
		defer h.mu.Unlock()
		if i := slices.Index(h.held, e.Item); i >= 0 {
			h.held = slices.Delete(h.held, i, i+1)
		}
	})
	return h
}

// Process is the handler registered on the dispatch bus.
func (h *Holder) Process(e event.Event) { h.router.Dispatch(e) }

func (h *Holder) HasItems() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.held) > 0
}

func (h *Holder) Has(it item.Item) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Contains(h.held, it)
}

// Count returns how many copies of it are carried.
func (h *Holder) Count(it item.Item) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, held := range h.held {
		if held == it {
			n++
		}
	}
	return n
}

// Next returns the item held longest.
func (h *Holder) Next() (item.Item, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.held) == 0 {
		return 0, false
	}
	return h.held[0], true
}

// Items returns a copy of the carried items in pickup order.
func (h *Holder) Items() []item.Item {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.held)
}
