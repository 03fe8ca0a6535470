package bridge

import "github.com/tinywideclouds/go-push-messaging/internal/events"

// Emitter is an in-process EventSource for hosts that receive native events
// directly (and for tests). The host calls Emit with the fixed channel names.
type Emitter struct {
	registry *events.Registry
}

var _ EventSource = (*Emitter)(nil)

func NewEmitter() *Emitter {
	return &Emitter{registry: events.NewRegistry()}
}

func (e *Emitter) SubscribeEvent(name string, fn func(payload any)) func() {
	return e.registry.Subscribe(name, fn)
}

// Emit delivers one native event to all current subscribers of the channel.
func (e *Emitter) Emit(name string, payload any) {
	e.registry.Emit(name, payload)
}
