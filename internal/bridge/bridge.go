package bridge

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Iron-Ham/bridgehost/internal/logging"
)

// Bridge is an opaque handle to one active session.
//
// All methods are safe for concurrent use. PendingClose is written by the
// session manager and read by the UI consumer at message consumption time.
type Bridge struct {
	id     string
	label  string
	logger *logging.Logger
	prompt *PromptHelper

	pendingClose atomic.Bool

	mu   sync.Mutex
	cols int
	rows int
}

// New creates a Bridge. Without WithID the identity is a random UUID.
func New(opts ...Option) *Bridge {
	cfg := &config{
		cols:   DefaultCols,
		rows:   DefaultRows,
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}
	if cfg.label == "" {
		cfg.label = cfg.id
	}
	if cfg.cols <= 0 {
		cfg.cols = DefaultCols
	}
	if cfg.rows <= 0 {
		cfg.rows = DefaultRows
	}
	if cfg.logger == nil {
		cfg.logger = logging.NopLogger()
	}

	b := &Bridge{
		id:     cfg.id,
		label:  cfg.label,
		logger: cfg.logger.WithBridge(cfg.id),
		cols:   cfg.cols,
		rows:   cfg.rows,
	}
	b.prompt = &PromptHelper{bridge: b}
	return b
}

// ID returns the unique bridge identifier.
func (b *Bridge) ID() string {
	return b.id
}

// Label returns the human-readable label.
func (b *Bridge) Label() string {
	return b.label
}

// String implements fmt.Stringer.
func (b *Bridge) String() string {
	if b.label == b.id {
		return b.id
	}
	return fmt.Sprintf("%s (%s)", b.label, b.id)
}

// PendingClose reports whether the session has ended and the bridge's UI
// representation is waiting to be torn down.
func (b *Bridge) PendingClose() bool {
	return b.pendingClose.Load()
}

// MarkConnected clears the pending-close flag. Called by the session
// manager when a session is (re)established on this bridge.
func (b *Bridge) MarkConnected() {
	if b.pendingClose.Swap(false) {
		b.logger.Debug("bridge reconnected while pending close")
	}
}

// MarkPendingClose raises the pending-close flag. Called by the session
// manager when the session ends.
func (b *Bridge) MarkPendingClose() {
	b.pendingClose.Store(true)
}

// Prompt returns the bridge's interaction handler holder.
func (b *Bridge) Prompt() *PromptHelper {
	return b.prompt
}

// Geometry returns the current output geometry.
func (b *Bridge) Geometry() (cols, rows int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cols, b.rows
}

// Resize sets the output geometry. It returns false and leaves the geometry
// untouched for non-positive dimensions or when nothing changes. Session
// logic is expected to check the manager's resize-allowed flag first.
func (b *Bridge) Resize(cols, rows int) bool {
	if cols <= 0 || rows <= 0 {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cols == cols && b.rows == rows {
		return false
	}
	b.logger.Debug("bridge resized",
		"from_cols", b.cols, "from_rows", b.rows,
		"cols", cols, "rows", rows)
	b.cols, b.rows = cols, rows
	return true
}
