package event

import (
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/Iron-Ham/bridgehost/internal/bridge"
	"github.com/Iron-Ham/bridgehost/internal/logging"
)

// registration is one registered listener. active is cleared on removal so
// fan-outs holding an older snapshot stop delivering to it.
type registration struct {
	listener Listener
	active   atomic.Bool
}

// Registry is an ordered set of listeners.
//
// Used on its own, the self-locking methods (Add, Remove, Clear, Len,
// NotifyConnected, NotifyDisconnected) are all a caller needs. An owner that
// guards other state with the same locker calls the *Locked variants while
// holding it and delivers the Fanout from SnapshotLocked after unlocking.
type Registry struct {
	mu     sync.Locker
	logger *logging.Logger

	byListener map[Listener]*registration
	order      []*registration
}

// NewRegistry creates a Registry guarded by mu. A nil mu gives the registry
// its own mutex; a nil logger discards panic reports.
func NewRegistry(mu sync.Locker, logger *logging.Logger) *Registry {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Registry{
		mu:         mu,
		logger:     logger,
		byListener: make(map[Listener]*registration),
	}
}

// Add registers l at the end of the delivery order. Adding a listener that
// is already registered is a no-op and returns false.
func (r *Registry) Add(l Listener) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.AddLocked(l)
}

// AddLocked is Add for callers that already hold the registry's locker.
func (r *Registry) AddLocked(l Listener) bool {
	if l == nil {
		panic("event: nil listener")
	}
	if _, ok := r.byListener[l]; ok {
		return false
	}

	reg := &registration{listener: l}
	reg.active.Store(true)
	r.byListener[l] = reg
	r.order = append(r.order, reg)
	return true
}

// Remove unregisters l. It returns false if l was not registered.
// Once Remove returns, no fan-out delivers to l unless that delivery had
// already started.
func (r *Registry) Remove(l Listener) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.RemoveLocked(l)
}

// RemoveLocked is Remove for callers that already hold the registry's locker.
func (r *Registry) RemoveLocked(l Listener) bool {
	reg, ok := r.byListener[l]
	if !ok {
		return false
	}

	reg.active.Store(false)
	delete(r.byListener, l)

	order := make([]*registration, 0, len(r.order)-1)
	for _, other := range r.order {
		if other != reg {
			order = append(order, other)
		}
	}
	r.order = order
	return true
}

// Len returns the number of registered listeners.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Clear removes every listener.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ClearLocked()
}

// ClearLocked is Clear for callers that already hold the registry's locker.
func (r *Registry) ClearLocked() {
	for _, reg := range r.order {
		reg.active.Store(false)
	}
	r.byListener = make(map[Listener]*registration)
	r.order = nil
}

// SnapshotLocked captures the current delivery list. The caller must hold
// the registry's locker; the returned Fanout is delivered after unlocking.
func (r *Registry) SnapshotLocked() Fanout {
	regs := make([]*registration, len(r.order))
	copy(regs, r.order)
	return Fanout{regs: regs, logger: r.logger}
}

// NotifyConnected delivers a Connected event for b to every listener.
func (r *Registry) NotifyConnected(b *bridge.Bridge) {
	r.notify(Connected, b)
}

// NotifyDisconnected delivers a Disconnected event for b to every listener.
func (r *Registry) NotifyDisconnected(b *bridge.Bridge) {
	r.notify(Disconnected, b)
}

func (r *Registry) notify(kind Kind, b *bridge.Bridge) {
	r.mu.Lock()
	fan := r.SnapshotLocked()
	r.mu.Unlock()

	fan.Deliver(kind, b)
}

// Fanout is a point-in-time delivery list captured from a Registry.
type Fanout struct {
	regs   []*registration
	logger *logging.Logger
}

// Len returns the number of listeners captured.
func (f Fanout) Len() int {
	return len(f.regs)
}

// Deliver calls each captured listener that is still registered, in
// registration order, exactly once. Listeners are called without any
// registry lock held.
func (f Fanout) Deliver(kind Kind, b *bridge.Bridge) {
	for _, reg := range f.regs {
		if !reg.active.Load() {
			continue
		}
		f.safeCall(reg.listener, kind, b)
	}
}

// safeCall invokes a listener and recovers from any panics so one broken
// listener cannot block delivery to the others.
func (f Fanout) safeCall(l Listener, kind Kind, b *bridge.Bridge) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("listener panicked",
				"event", kind.String(),
				"bridge_id", b.ID(),
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()

	switch kind {
	case Connected:
		l.OnBridgeConnected(b)
	case Disconnected:
		l.OnBridgeDisconnected(b)
	}
}
