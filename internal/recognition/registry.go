package recognition

import (
	"log"
	"sync"
)

// Handler consumes lifecycle events for a subscribed gesture id. Handlers run
// synchronously on the capture worker; slow work belongs on another goroutine
// so the dispatch loop is never blocked.
type Handler func(Event)

// Subscription identifies one registered handler so it can be removed.
// Handlers themselves are not comparable, so Subscribe hands out a token.
type Subscription struct {
	id        uint64
	gestureID string
}

// GestureID returns the gesture id this subscription is registered under.
func (s *Subscription) GestureID() string {
	if s == nil {
		return ""
	}
	return s.gestureID
}

type registration struct {
	id uint64
	fn Handler
}

// Registry maps gesture ids to ordered subscriber lists. Subscribe and
// Unsubscribe may be called from any goroutine; Dispatch runs only on the
// capture worker. Dispatch holds the lock just long enough to snapshot the
// subscriber list, then invokes the snapshot unlocked, so a handler that
// re-enters Subscribe or Unsubscribe cannot deadlock.
type Registry struct {
	mu     sync.Mutex
	subs   map[string][]registration
	nextID uint64
}

// NewRegistry creates an empty subscription registry.
func NewRegistry() *Registry {
	return &Registry{
		subs: make(map[string][]registration),
	}
}

// Subscribe registers fn for the given gesture id, preserving registration
// order. A nil handler is rejected with a nil subscription. Multiple handlers
// per id are allowed and all are invoked.
func (r *Registry) Subscribe(gestureID string, fn Handler) *Subscription {
	if fn == nil {
		log.Printf("registry: rejected nil handler for gesture %s", gestureID)
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.subs[gestureID] = append(r.subs[gestureID], registration{id: r.nextID, fn: fn})

	return &Subscription{id: r.nextID, gestureID: gestureID}
}

// Unsubscribe removes the handler identified by sub. Once it returns, the
// handler is guaranteed not to be invoked by any later dispatch. Returns
// false if the subscription is nil or already removed.
func (r *Registry) Unsubscribe(sub *Subscription) bool {
	if sub == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	regs := r.subs[sub.gestureID]
	for i, reg := range regs {
		if reg.id == sub.id {
			r.subs[sub.gestureID] = append(regs[:i], regs[i+1:]...)
			if len(r.subs[sub.gestureID]) == 0 {
				delete(r.subs, sub.gestureID)
			}
			return true
		}
	}
	return false
}

// UnsubscribeAll removes every handler for the gesture id. Returns false if
// the id has no subscribers.
func (r *Registry) UnsubscribeAll(gestureID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.subs[gestureID]) == 0 {
		return false
	}
	delete(r.subs, gestureID)
	return true
}

// Dispatch invokes every subscriber for the event's gesture id in
// registration order. A panicking handler is logged and skipped; the
// remaining handlers and the capture loop are unaffected.
func (r *Registry) Dispatch(ev Event) {
	r.mu.Lock()
	regs := r.subs[ev.GestureID]
	snapshot := make([]registration, len(regs))
	copy(snapshot, regs)
	r.mu.Unlock()

	for _, reg := range snapshot {
		// Re-check membership so a handler unsubscribed after the snapshot
		// was taken is not invoked anyway.
		if !r.registered(ev.GestureID, reg.id) {
			continue
		}
		r.invoke(reg, ev)
	}
}

func (r *Registry) registered(gestureID string, id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, reg := range r.subs[gestureID] {
		if reg.id == id {
			return true
		}
	}
	return false
}

func (r *Registry) invoke(reg registration, ev Event) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("registry: subscriber %d panicked on %s/%s: %v", reg.id, ev.GestureID, ev.Kind, p)
		}
	}()
	reg.fn(ev)
}
