package input

import (
	"sync"

	"go.uber.org/zap"
)

// Broadcaster multicasts key signals: every subscriber receives every
// signal on its own buffered channel. A subscriber whose buffer is full
// misses the signal; the publisher never blocks.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Signal
	nextID uint64
	size   int
	closed bool
	log    *zap.Logger
}

func NewBroadcaster(size int, log *zap.Logger) *Broadcaster {
	return &Broadcaster{
		subs: make(map[uint64]chan Signal),
		size: size,
		log:  log,
	}
}

// Subscribe returns a channel carrying every signal published from now on
// and a cancel func that closes it. Cancel is idempotent.
func (b *Broadcaster) Subscribe() (<-chan Signal, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Signal, b.size)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// Publish hands sig to every current subscriber.
func (b *Broadcaster) Publish(sig Signal) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.subs {
		select {
		case ch <- sig:
		default:
			b.log.Warn("input subscriber full, signal dropped",
				zap.Uint64("subscriber", id),
				zap.String("key", string(sig.Key)),
			)
		}
	}
}

// Close ends every subscription. Later Subscribe calls get a closed channel.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// Subscribers returns the number of live subscriptions.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
