package cmd

import (
	"fmt"
	"os"

	"github.com/Iron-Ham/bridgehost/internal/attach"
	"github.com/Iron-Ham/bridgehost/internal/config"
	"github.com/Iron-Ham/bridgehost/internal/dispatch"
	"github.com/Iron-Ham/bridgehost/internal/logging"
	"github.com/Iron-Ham/bridgehost/internal/manager"
	"github.com/Iron-Ham/bridgehost/internal/simulate"
)

// host is the process-wide set of components. It outlives any UI.
type host struct {
	logger      *logging.Logger
	manager     *manager.Manager
	dispatcher  *dispatch.Dispatcher
	coordinator *attach.Coordinator
	driver      *simulate.Driver
}

func newHost(cfg *config.Config, logger *logging.Logger) *host {
	mgr := manager.New(manager.Config{Logger: logger})
	d := dispatch.New(
		dispatch.WithLogger(logger),
		dispatch.WithCoalesceInvalidate(cfg.Dispatch.CoalesceInvalidate),
	)
	return &host{
		logger:      logger,
		manager:     mgr,
		dispatcher:  d,
		coordinator: attach.New(attach.Config{Manager: mgr, Dispatcher: d, Logger: logger}),
		driver: simulate.New(simulate.Config{
			Manager:       mgr,
			Logger:        logger,
			Bridges:       cfg.Simulate.Bridges,
			Interval:      cfg.Simulate.Interval(),
			Seed:          cfg.Simulate.Seed,
			Cols:          cfg.Simulate.Cols,
			Rows:          cfg.Simulate.Rows,
			PromptTimeout: cfg.Simulate.PromptTimeout(),
		}),
	}
}

// apply pushes the settings that may change at runtime.
func (h *host) apply(cfg *config.Config) {
	h.logger.SetLevel(cfg.Logging.Level)
	h.driver.SetInterval(cfg.Simulate.Interval())
	h.logger.Info("configuration reloaded",
		"level", cfg.Logging.Level,
		"interval_ms", cfg.Simulate.IntervalMs)
}

// shutdown stops sessions before the manager and queue go away.
func (h *host) shutdown() {
	h.driver.Stop()
	h.manager.Shutdown()
	h.dispatcher.Close()
}

// createLogger creates a logger if logging is enabled in config.
// Returns a NopLogger if logging is disabled or if creation fails.
func createLogger(cfg *config.Config) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}

	rotationConfig := logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
	}

	dir := cfg.Logging.ResolveDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to create log directory: %v\n", err)
		return logging.NopLogger()
	}

	logger, err := logging.NewRotatingLogger(dir, cfg.Logging.Level, rotationConfig)
	if err != nil {
		// Log creation failure shouldn't prevent the application from starting
		fmt.Fprintf(os.Stderr, "Warning: failed to create logger: %v\n", err)
		return logging.NopLogger()
	}

	return logger
}
