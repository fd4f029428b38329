package event

// Handler receives every event delivered by the dispatch bus.
type Handler func(Event)

// Router fans one event out to the typed callbacks subscribed for its kind,
// in subscription order. Components build one in their constructor and
// register its Dispatch method on the bus.
//
// A Router is configured once and then only read, so Dispatch needs no lock.
type Router struct {
	handlers map[Kind][]Handler
}

func NewRouter() *Router {
	return &Router{handlers: make(map[Kind][]Handler)}
}

// Subscribe registers a typed callback for events of variant T.
func Subscribe[T Event](r *Router, fn func(T)) {
	var zero T
	k := zero.Kind()
	r.handlers[k] = append(r.handlers[k], func(e Event) {
		fn(e.(T))
	})
}

// Dispatch delivers e to the callbacks subscribed for its kind.
// Unsubscribed kinds are ignored.
func (r *Router) Dispatch(e Event) {
	for _, h := range r.handlers[e.Kind()] {
		h(e)
	}
}

// Handles reports whether any callback is subscribed for k.
func (r *Router) Handles(k Kind) bool {
	return len(r.handlers[k]) > 0
}
