// Package event provides the listener registry for bridge connection events.
//
// The session manager fans two events out to its observers: a bridge
// connected and a bridge disconnected. Observers implement [Listener] (or
// wrap a pair of functions in [ListenerFuncs]) and are kept in a [Registry]
// in registration order.
//
// # Thread Safety
//
// [Registry] is safe for concurrent use. Fan-out copies the listener list
// under the lock and calls listeners without holding it, so a listener may
// call back into the registry (or the manager that owns it) without
// deadlocking. Removing a listener takes effect immediately: a fan-out that
// is already running skips every delivery to it that has not started yet.
// A panicking listener is recovered and logged; the remaining listeners
// still receive the event.
//
// # Standalone Use
//
// With its own mutex a Registry is a complete observer list:
//
//	reg := event.NewRegistry(nil, logger)
//	reg.Add(l)
//	reg.NotifyConnected(b)
//
// # Shared Locking
//
// A Registry can be built over an external [sync.Locker]. The session
// manager passes its own mutex so bridge collection changes and listener
// snapshots are serialized by one lock:
//
//	m.mu.Lock()
//	m.bridges = append(m.bridges, b)
//	fan := m.listeners.SnapshotLocked()
//	m.mu.Unlock()
//	fan.Deliver(event.Connected, b)
package event
