package manager

import (
	"slices"
	"sync"

	"github.com/Iron-Ham/bridgehost/internal/bridge"
	"github.com/Iron-Ham/bridgehost/internal/errors"
	"github.com/Iron-Ham/bridgehost/internal/event"
	"github.com/Iron-Ham/bridgehost/internal/logging"
)

// Config holds configuration options for creating a Manager.
type Config struct {
	Logger *logging.Logger // Optional: for structured logging
}

// Manager owns the live bridges and the listener registry.
type Manager struct {
	logger *logging.Logger

	// mu guards bridges, resizeAllowed, closed and the listener registry.
	mu            sync.Mutex
	bridges       []*bridge.Bridge
	listeners     *event.Registry
	resizeAllowed bool
	closed        bool
}

// New creates a Manager with an empty bridge collection.
func New(cfg Config) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	logger = logger.WithPhase("manager")

	m := &Manager{logger: logger}
	m.listeners = event.NewRegistry(&m.mu, logger)
	return m
}

// AddListener registers l for connection events. Registering the same
// listener twice is a no-op.
func (m *Manager) AddListener(l event.Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listeners.AddLocked(l) {
		m.logger.Debug("listener added", "listeners", m.listeners.SnapshotLocked().Len())
	}
}

// RemoveListener unregisters l. Removing a listener that is not registered
// is a no-op. After RemoveListener returns, l receives no further events
// from any fan-out, except a delivery that had already begun.
func (m *Manager) RemoveListener(l event.Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listeners.RemoveLocked(l) {
		m.logger.Debug("listener removed", "listeners", m.listeners.SnapshotLocked().Len())
	}
}

// Snapshot returns a point-in-time copy of the live bridges in connection
// order. The copy is never updated; take a new snapshot to observe changes.
func (m *Manager) Snapshot() []*bridge.Bridge {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.bridges)
}

// Len returns the number of live bridges.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bridges)
}

// Lookup returns the live bridge with the given ID.
func (m *Manager) Lookup(id string) (*bridge.Bridge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.bridges {
		if b.ID() == id {
			return b, nil
		}
	}
	return nil, errors.NewNotFoundError("bridge", id)
}

// NotifyConnected records that b's session is established and tells every
// listener, in registration order. A bridge already in the collection keeps
// its position; a reused bridge has its pending-close flag cleared.
// It may be called from any goroutine.
func (m *Manager) NotifyConnected(b *bridge.Bridge) {
	if b == nil {
		panic("manager: NotifyConnected with nil bridge")
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		m.logger.Warn("connect after shutdown ignored", "bridge_id", b.ID())
		return
	}
	if !slices.Contains(m.bridges, b) {
		m.bridges = append(m.bridges, b)
	}
	b.MarkConnected()
	count := len(m.bridges)
	fan := m.listeners.SnapshotLocked()
	m.mu.Unlock()

	m.logger.Info("bridge connected",
		"bridge_id", b.ID(),
		"label", b.Label(),
		"bridges", count,
		"listeners", fan.Len())

	fan.Deliver(event.Connected, b)
}

// NotifyDisconnected removes b from the collection, marks it pending close
// and tells every listener, in registration order. Session logic is
// authoritative: an unknown bridge is still marked and announced.
// It may be called from any goroutine.
func (m *Manager) NotifyDisconnected(b *bridge.Bridge) {
	if b == nil {
		panic("manager: NotifyDisconnected with nil bridge")
	}

	m.mu.Lock()
	known := false
	if i := slices.Index(m.bridges, b); i >= 0 {
		m.bridges = slices.Delete(m.bridges, i, i+1)
		known = true
	}
	b.MarkPendingClose()
	count := len(m.bridges)
	fan := m.listeners.SnapshotLocked()
	m.mu.Unlock()

	m.logger.Info("bridge disconnected",
		"bridge_id", b.ID(),
		"label", b.Label(),
		"known", known,
		"bridges", count,
		"listeners", fan.Len())

	fan.Deliver(event.Disconnected, b)
}

// SetResizeAllowed stores the flag session logic consults before adjusting
// a bridge's output geometry.
func (m *Manager) SetResizeAllowed(allowed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.resizeAllowed != allowed {
		m.logger.Debug("resize allowed changed", "allowed", allowed)
	}
	m.resizeAllowed = allowed
}

// ResizeAllowed reports whether session logic may resize bridges.
func (m *Manager) ResizeAllowed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resizeAllowed
}

// Shutdown tears the manager down: every live bridge is marked pending
// close, the collection and listener set are emptied, and later connects
// are ignored. No listener is notified. Safe to call more than once.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	for _, b := range m.bridges {
		b.MarkPendingClose()
	}
	m.logger.Info("manager shutdown", "bridges", len(m.bridges))

	m.bridges = nil
	m.listeners.ClearLocked()
	m.resizeAllowed = false
	m.closed = true
}
