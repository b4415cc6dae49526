package bridge

import (
	"github.com/Iron-Ham/bridgehost/internal/logging"
)

// Default output geometry for a fresh bridge.
const (
	DefaultCols = 80
	DefaultRows = 24
)

// Option configures a Bridge.
type Option func(*config)

type config struct {
	id     string
	label  string
	cols   int
	rows   int
	logger *logging.Logger
}

// WithID overrides the generated UUID. Intended for tests and for session
// logic that already has a stable identifier.
func WithID(id string) Option {
	return func(c *config) {
		c.id = id
	}
}

// WithLabel sets the human-readable label shown in menus.
func WithLabel(label string) Option {
	return func(c *config) {
		c.label = label
	}
}

// WithGeometry sets the initial output geometry.
// Non-positive values fall back to the defaults.
func WithGeometry(cols, rows int) Option {
	return func(c *config) {
		c.cols = cols
		c.rows = rows
	}
}

// WithLogger sets the logger for the bridge.
func WithLogger(logger *logging.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
