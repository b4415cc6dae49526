package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sourcegraph/conc"

	"github.com/Iron-Ham/bridgehost/internal/attach"
	"github.com/Iron-Ham/bridgehost/internal/dispatch"
	"github.com/Iron-Ham/bridgehost/internal/logging"
)

// Config holds the dependencies of an App.
type Config struct {
	Coordinator  *attach.Coordinator // Required
	Source       Source              // Required: usually the session manager
	Disconnector Disconnector        // Optional: enables the disconnect key
	Logger       *logging.Logger     // Optional: for structured logging
}

// App wraps the Bubbletea program
type App struct {
	cfg     Config
	model   Model
	program *tea.Program
	options []tea.ProgramOption
}

// New creates a new TUI application
func New(cfg Config, opts ...tea.ProgramOption) *App {
	return &App{
		cfg:     cfg,
		model:   NewModel(cfg.Coordinator, cfg.Source, cfg.Disconnector, cfg.Logger),
		options: opts,
	}
}

// Run starts the program and blocks until the user quits or ctx is done.
// The surface is attached inside the program and detached after it exits;
// sessions keep running either way.
func (a *App) Run(ctx context.Context) error {
	opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, a.options...)
	a.program = tea.NewProgram(a.model, opts...)
	a.model.surface.send = a.program.Send

	stop := make(chan struct{})
	var wg conc.WaitGroup
	wg.Go(func() {
		forward(stop, a.cfg.Coordinator.Dispatcher(), a.program.Send)
	})

	_, err := a.program.Run()

	close(stop)
	wg.Wait()
	a.cfg.Coordinator.Detach(a.model.surface)

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// forward turns dispatcher wake-ups into program messages so that the
// queue is consumed inside Update.
func forward(stop <-chan struct{}, d *dispatch.Dispatcher, send func(tea.Msg)) {
	for {
		select {
		case <-stop:
			return
		case <-d.Done():
			return
		case <-d.Ready():
			send(dispatchMsg{})
		}
	}
}
