package simulate

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/Iron-Ham/bridgehost/internal/bridge"
	"github.com/Iron-Ham/bridgehost/internal/errors"
	"github.com/Iron-Ham/bridgehost/internal/logging"
	"github.com/Iron-Ham/bridgehost/internal/manager"
)

// Default values used when Config leaves a field zero.
const (
	DefaultBridges       = 3
	DefaultInterval      = 2 * time.Second
	DefaultPromptTimeout = 10 * time.Second
)

// Action is what one simulation step did.
type Action int

const (
	ActionIdle Action = iota
	ActionDisconnect
	ActionReconnect
	ActionResize
)

// String returns the action name used in logs.
func (a Action) String() string {
	switch a {
	case ActionIdle:
		return "idle"
	case ActionDisconnect:
		return "disconnect"
	case ActionReconnect:
		return "reconnect"
	case ActionResize:
		return "resize"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Config holds the simulator settings.
type Config struct {
	Manager       *manager.Manager // Required
	Logger        *logging.Logger  // Optional: for structured logging
	Bridges       int              // bridges connected at Start
	Interval      time.Duration    // time between steps
	Seed          int64            // 0 picks a time-based seed
	Cols          int              // initial bridge geometry
	Rows          int
	PromptTimeout time.Duration // how long a reconnect waits for the UI
}

// Driver simulates session logic. All methods are safe for concurrent use.
type Driver struct {
	mgr           *manager.Manager
	logger        *logging.Logger
	initial       int
	cols          int
	rows          int
	promptTimeout time.Duration

	interval atomic.Int64
	retick   chan struct{}

	mu      sync.Mutex
	rng     *rand.Rand
	bridges []*bridge.Bridge
	running bool
	cancel  context.CancelFunc
	seq     int

	wg conc.WaitGroup
}

// New creates a stopped Driver.
func New(cfg Config) *Driver {
	if cfg.Manager == nil {
		panic("simulate: Config.Manager is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	if cfg.Bridges < 0 {
		cfg.Bridges = 0
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Cols <= 0 {
		cfg.Cols = bridge.DefaultCols
	}
	if cfg.Rows <= 0 {
		cfg.Rows = bridge.DefaultRows
	}
	if cfg.PromptTimeout <= 0 {
		cfg.PromptTimeout = DefaultPromptTimeout
	}
	seed := uint64(cfg.Seed)
	if cfg.Seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	d := &Driver{
		mgr:           cfg.Manager,
		logger:        logger.WithPhase("simulate"),
		initial:       cfg.Bridges,
		cols:          cfg.Cols,
		rows:          cfg.Rows,
		promptTimeout: cfg.PromptTimeout,
		retick:        make(chan struct{}, 1),
		rng:           rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	d.interval.Store(int64(cfg.Interval))
	return d
}

// Start connects the initial bridges and begins stepping every interval
// until ctx is done or Stop is called.
func (d *Driver) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return errors.ErrSimulatorRunning
	}
	d.running = true
	ctx, d.cancel = context.WithCancel(ctx)
	d.mu.Unlock()

	for range d.initial {
		d.Connect("")
	}

	d.logger.Info("simulator started",
		"bridges", d.initial,
		"interval", d.Interval().String())

	d.wg.Go(func() { d.loop(ctx) })
	return nil
}

func (d *Driver) loop(ctx context.Context) {
	ticker := time.NewTicker(d.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.retick:
			ticker.Reset(d.Interval())
		case <-ticker.C:
			d.Step(ctx)
		}
	}
}

// Stop ends the step loop, waits for in-flight prompts and disconnects
// every bridge still live. Safe to call more than once.
func (d *Driver) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.cancel()
	d.mu.Unlock()

	d.wg.Wait()

	live := 0
	for _, b := range d.Bridges() {
		if !b.PendingClose() {
			d.mgr.NotifyDisconnected(b)
			live++
		}
	}
	d.logger.Info("simulator stopped", "disconnected", live)
}

// Running reports whether the step loop is active.
func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// Interval returns the current step interval.
func (d *Driver) Interval() time.Duration {
	return time.Duration(d.interval.Load())
}

// SetInterval changes the step interval of a running or stopped driver.
// Non-positive values are ignored.
func (d *Driver) SetInterval(iv time.Duration) {
	if iv <= 0 {
		return
	}
	if time.Duration(d.interval.Swap(int64(iv))) == iv {
		return
	}
	select {
	case d.retick <- struct{}{}:
	default:
	}
	d.logger.Info("simulator interval changed", "interval", iv.String())
}

// Bridges returns every bridge the driver has created, live or pending
// close, in creation order.
func (d *Driver) Bridges() []*bridge.Bridge {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*bridge.Bridge, len(d.bridges))
	copy(out, d.bridges)
	return out
}

// Connect creates a new bridge and reports it connected. An empty label
// gets a generated one.
func (d *Driver) Connect(label string) *bridge.Bridge {
	d.mu.Lock()
	d.seq++
	if label == "" {
		label = fmt.Sprintf("session-%d", d.seq)
	}
	b := bridge.New(
		bridge.WithLabel(label),
		bridge.WithGeometry(d.cols, d.rows),
		bridge.WithLogger(d.logger),
	)
	d.bridges = append(d.bridges, b)
	d.mu.Unlock()

	d.mgr.NotifyConnected(b)
	return b
}

// Disconnect ends the session of the live bridge with the given ID. The
// bridge stays known to the driver and may be reconnected by a later step.
func (d *Driver) Disconnect(id string) error {
	b, err := d.mgr.Lookup(id)
	if err != nil {
		return errors.NewBridgeError("disconnect", err).WithBridgeID(id)
	}
	d.mgr.NotifyDisconnected(b)
	return nil
}

// Step performs one random action and reports it. A pending-close bridge
// is reconnected; a live one is dropped or, when the UI allows resizing,
// resized.
func (d *Driver) Step(ctx context.Context) Action {
	d.mu.Lock()
	if len(d.bridges) == 0 {
		d.mu.Unlock()
		return ActionIdle
	}
	b := d.bridges[d.rng.IntN(len(d.bridges))]
	roll := d.rng.IntN(2)
	cols := d.cols + d.rng.IntN(41) - 20
	rows := d.rows + d.rng.IntN(11) - 5
	d.mu.Unlock()

	var action Action
	switch {
	case b.PendingClose():
		d.mgr.NotifyConnected(b)
		action = ActionReconnect
		d.wg.Go(func() { d.askReconnect(ctx, b) })

	case roll == 0:
		d.mgr.NotifyDisconnected(b)
		action = ActionDisconnect

	case d.mgr.ResizeAllowed() && b.Resize(cols, rows):
		action = ActionResize

	default:
		action = ActionIdle
	}

	d.logger.Debug("simulation step",
		"bridge_id", b.ID(),
		"action", action.String())
	return action
}

func (d *Driver) askReconnect(ctx context.Context, b *bridge.Bridge) {
	ctx, cancel := context.WithTimeout(ctx, d.promptTimeout)
	defer cancel()

	answer, err := b.Prompt().RequestPrompt(ctx, bridge.Prompt{
		Message:      fmt.Sprintf("%s reconnected. Keep session?", b.Label()),
		Instructions: "y/n",
		YesNo:        true,
	})
	if err != nil {
		if errors.Is(err, errors.ErrNoPromptHandler) {
			d.logger.Debug("reconnect prompt skipped: no UI", "bridge_id", b.ID())
			return
		}
		d.logger.Warn("reconnect prompt failed", "bridge_id", b.ID(), "error", err.Error())
		return
	}

	d.logger.Info("reconnect prompt answered", "bridge_id", b.ID(), "answer", answer)
	if answer == "n" || answer == "no" {
		d.mgr.NotifyDisconnected(b)
	}
}
