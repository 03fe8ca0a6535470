// Package events provides the in-process listener registry the messaging
// facade uses for event fan-out. Each facade instance owns its own Registry;
// there is no process-wide bus.
package events

import "sync"

type listener struct {
	fn func(payload any)
}

// Registry maps channel names to ordered listener sets.
type Registry struct {
	mu       sync.Mutex
	channels map[string][]*listener
}

func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[string][]*listener),
	}
}

// Subscribe registers fn on the named channel and returns a cancel func that
// removes exactly this registration. Removal works by handle identity, so the
// same func value can be registered twice and removed independently.
func (r *Registry) Subscribe(channel string, fn func(payload any)) func() {
	l := &listener{fn: fn}

	r.mu.Lock()
	r.channels[channel] = append(r.channels[channel], l)
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		current := r.channels[channel]
		for i, candidate := range current {
			if candidate == l {
				r.channels[channel] = append(current[:i:i], current[i+1:]...)
				return
			}
		}
	}
}

// Emit invokes every listener currently registered on the channel, in
// registration order. Dispatch runs against a snapshot taken under the lock,
// so listeners may subscribe or cancel from inside a callback.
func (r *Registry) Emit(channel string, payload any) {
	r.mu.Lock()
	current := r.channels[channel]
	snapshot := make([]*listener, len(current))
	copy(snapshot, current)
	r.mu.Unlock()

	for _, l := range snapshot {
		l.fn(payload)
	}
}

// Len reports the number of listeners registered on the channel.
func (r *Registry) Len(channel string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.channels[channel])
}
