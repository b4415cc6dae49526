package attach

import (
	"sync"

	"github.com/Iron-Ham/bridgehost/internal/bridge"
	"github.com/Iron-Ham/bridgehost/internal/dispatch"
	"github.com/Iron-Ham/bridgehost/internal/errors"
	"github.com/Iron-Ham/bridgehost/internal/logging"
	"github.com/Iron-Ham/bridgehost/internal/manager"
)

// Surface is the UI side of an attachment. Its methods are only called from
// the goroutine that calls Coordinator.Attach, Open and Consume.
type Surface interface {
	// MaterializeBridgeView creates the visual element for b.
	MaterializeBridgeView(b *bridge.Bridge)

	// RemoveBridgeView removes the visual element for b. It must tolerate
	// a bridge that has no view.
	RemoveBridgeView(b *bridge.Bridge)

	// InvalidateMenu rebuilds menu or action state.
	InvalidateMenu()
}

// PromptSurface is a Surface that can answer interactive prompts raised by
// session logic. While attached, its handler is installed on every bridge.
type PromptSurface interface {
	Surface
	PromptHandler() bridge.PromptHandler
}

// Config holds the dependencies of a Coordinator.
type Config struct {
	Manager    *manager.Manager     // Required
	Dispatcher *dispatch.Dispatcher // Optional: a fresh dispatcher is created when nil
	Logger     *logging.Logger      // Optional: for structured logging
}

// Coordinator manages the attach and detach lifecycle of one UI surface at
// a time.
type Coordinator struct {
	manager    *manager.Manager
	dispatcher *dispatch.Dispatcher
	logger     *logging.Logger

	mu       sync.Mutex
	surface  Surface
	listener *surfaceListener
	selected *bridge.Bridge
	// prompted holds every bridge given a handler during this attachment,
	// including ones that have since left the manager's collection.
	prompted map[*bridge.Bridge]struct{}
}

// New creates a detached Coordinator.
func New(cfg Config) *Coordinator {
	if cfg.Manager == nil {
		panic("attach: Config.Manager is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	d := cfg.Dispatcher
	if d == nil {
		d = dispatch.New(dispatch.WithLogger(logger))
	}
	return &Coordinator{
		manager:    cfg.Manager,
		dispatcher: d,
		logger:     logger.WithPhase("attach"),
	}
}

// Dispatcher returns the dispatcher the coordinator posts UI work to.
func (c *Coordinator) Dispatcher() *dispatch.Dispatcher {
	return c.dispatcher
}

// Attached reports whether a surface is attached.
func (c *Coordinator) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surface != nil
}

// Selected returns the bridge whose view the UI currently shows, or nil.
func (c *Coordinator) Selected() *bridge.Bridge {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

func (c *Coordinator) current() Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surface
}

func (c *Coordinator) isAttached(s Surface) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surface == s
}

// installHandler sets h on b if s is still the attached surface and
// reports whether it is. Detach swaps the surface out under c.mu before it
// clears handlers, so a handler installed here is always cleared by the
// Detach that follows it. A nil h only checks attachment.
func (c *Coordinator) installHandler(s Surface, b *bridge.Bridge, h bridge.PromptHandler) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.surface != s {
		return false
	}
	if h != nil {
		b.Prompt().SetHandler(h)
		if c.prompted == nil {
			c.prompted = make(map[*bridge.Bridge]struct{})
		}
		c.prompted[b] = struct{}{}
	}
	return true
}

// Attach makes s the attached surface. Any other attached surface is
// detached first; attaching the current surface again is a no-op.
//
// The listener is registered before the snapshot is taken so that no
// connection change falls between the two. One view is materialized per
// snapshotted bridge, in snapshot order, and resizing is allowed.
func (c *Coordinator) Attach(s Surface) {
	if s == nil {
		panic("attach: Attach with nil surface")
	}

	prev := c.current()
	if prev == s {
		return
	}
	if prev != nil {
		c.logger.Info("replacing attached surface")
		c.Detach(prev)
	}

	l := &surfaceListener{coord: c, surface: s}
	c.mu.Lock()
	c.surface = s
	c.listener = l
	c.selected = nil
	c.mu.Unlock()

	c.manager.AddListener(l)
	c.manager.SetResizeAllowed(true)

	handler := promptHandlerOf(s)
	snapshot := c.manager.Snapshot()
	for _, b := range snapshot {
		c.installHandler(s, b, handler)
		s.MaterializeBridgeView(b)
	}

	c.logger.Info("surface attached",
		"bridges", len(snapshot),
		"prompts", handler != nil)
}

// Detach releases s. It is a no-op unless s is the attached surface. Live
// bridges keep running. Every bridge that received s's prompt handler has
// it cleared, even one that disconnected while s was attached. Resizing is
// disallowed and UI work still queued for s is discarded.
func (c *Coordinator) Detach(s Surface) {
	c.mu.Lock()
	if s == nil || c.surface != s {
		c.mu.Unlock()
		return
	}
	l := c.listener
	prompted := c.prompted
	c.surface = nil
	c.listener = nil
	c.selected = nil
	c.prompted = nil
	c.mu.Unlock()

	c.manager.RemoveListener(l)

	snapshot := c.manager.Snapshot()
	for _, b := range snapshot {
		b.Prompt().SetHandler(nil)
	}
	for b := range prompted {
		b.Prompt().SetHandler(nil)
	}
	c.manager.SetResizeAllowed(false)

	discarded := c.dispatcher.Drain(func(dispatch.Message) {})

	c.logger.Info("surface detached",
		"bridges", len(snapshot),
		"prompted", len(prompted),
		"discarded", discarded)
}

// Consume handles all queued UI work on the calling goroutine and returns
// the number of messages consumed. Call it from the UI goroutine whenever
// the dispatcher signals Ready.
func (c *Coordinator) Consume() int {
	return c.dispatcher.Drain(c.Handle)
}

// Handle applies one dispatcher message to the attached surface. It must
// run on the UI goroutine; pass it to Dispatcher.Run when the UI owns a
// goroutine of its own.
func (c *Coordinator) Handle(msg dispatch.Message) {
	s := c.current()
	if s == nil {
		c.logger.Debug("message dropped: no surface",
			"kind", msg.Kind.String(),
			"seq", msg.Seq)
		return
	}

	switch msg.Kind {
	case dispatch.KindInvalidateMenu:
		s.InvalidateMenu()

	case dispatch.KindCloseBridgeView:
		b := msg.Bridge
		if b == nil {
			return
		}
		// The bridge may have reconnected since the close was posted.
		if !b.PendingClose() {
			c.logger.Debug("stale close ignored",
				"bridge_id", b.ID(),
				"seq", msg.Seq)
			return
		}
		s.RemoveBridgeView(b)

		c.mu.Lock()
		if c.selected == b {
			c.selected = nil
		}
		c.mu.Unlock()

		c.logger.Debug("bridge view removed", "bridge_id", b.ID(), "seq", msg.Seq)

	default:
		c.logger.Warn("unknown message kind", "kind", msg.Kind.String())
	}
}

// ViewChanged records that the UI now shows b and schedules a menu
// rebuild. It may be called from any goroutine and is ignored while no
// surface is attached.
func (c *Coordinator) ViewChanged(b *bridge.Bridge) {
	c.mu.Lock()
	if c.surface == nil {
		c.mu.Unlock()
		return
	}
	c.selected = b
	c.mu.Unlock()

	c.dispatcher.PostInvalidateMenu()
}

// Open materializes and selects the view for the live bridge with the
// given ID. It fails with ErrNotAttached when no surface is attached and
// with ErrBridgeNotFound when the bridge is not live.
func (c *Coordinator) Open(id string) (*bridge.Bridge, error) {
	s := c.current()
	if s == nil {
		return nil, errors.NewBridgeError("open view", errors.ErrNotAttached).WithBridgeID(id)
	}

	b, err := c.manager.Lookup(id)
	if err != nil {
		return nil, errors.NewBridgeError("open view", err).WithBridgeID(id)
	}

	c.installHandler(s, b, promptHandlerOf(s))
	s.MaterializeBridgeView(b)
	c.ViewChanged(b)

	c.logger.Info("bridge view opened", "bridge_id", b.ID())
	return b, nil
}

func promptHandlerOf(s Surface) bridge.PromptHandler {
	ps, ok := s.(PromptSurface)
	if !ok {
		return nil
	}
	return ps.PromptHandler()
}
