package event

import "github.com/Iron-Ham/bridgehost/internal/bridge"

// Kind identifies a bridge connection event.
type Kind int

const (
	// Connected is delivered after a bridge's session is established.
	Connected Kind = iota + 1
	// Disconnected is delivered after a bridge's session ended.
	Disconnected
)

// String returns the event name in "category.action" form.
func (k Kind) String() string {
	switch k {
	case Connected:
		return "bridge.connected"
	case Disconnected:
		return "bridge.disconnected"
	default:
		return "bridge.unknown"
	}
}

// Listener observes bridge connection changes.
//
// Callbacks run on whatever goroutine drives the session logic, never
// assume the UI goroutine. A listener removed while a fan-out is in flight
// may still see that one call if delivery had already begun, so callbacks
// must be no-ops once their owner is gone.
type Listener interface {
	OnBridgeConnected(b *bridge.Bridge)
	OnBridgeDisconnected(b *bridge.Bridge)
}

// ListenerFuncs adapts a pair of functions to Listener. Nil functions are
// skipped. Register it by pointer; registration identity is the pointer.
type ListenerFuncs struct {
	Connected    func(b *bridge.Bridge)
	Disconnected func(b *bridge.Bridge)
}

// OnBridgeConnected calls f.Connected if set.
func (f *ListenerFuncs) OnBridgeConnected(b *bridge.Bridge) {
	if f.Connected != nil {
		f.Connected(b)
	}
}

// OnBridgeDisconnected calls f.Disconnected if set.
func (f *ListenerFuncs) OnBridgeDisconnected(b *bridge.Bridge) {
	if f.Disconnected != nil {
		f.Disconnected(b)
	}
}
