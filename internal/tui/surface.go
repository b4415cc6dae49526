package tui

import (
	"context"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/bridgehost/internal/bridge"
	"github.com/Iron-Ham/bridgehost/internal/logging"
)

// Source supplies the live bridges shown in the menu.
type Source interface {
	Snapshot() []*bridge.Bridge
}

type menuEntry struct {
	bridge *bridge.Bridge
	open   bool
}

// surface is the attach.Surface of the terminal UI. Its state is only
// touched from inside Model.Update.
type surface struct {
	source Source
	logger *logging.Logger

	views      []*bridge.Bridge
	menu       []menuEntry
	menuBuilds int

	// send delivers messages to the running program; nil until Run.
	send func(tea.Msg)
}

func newSurface(source Source, logger *logging.Logger) *surface {
	return &surface{source: source, logger: logger}
}

func (s *surface) hasView(b *bridge.Bridge) bool {
	return slices.Contains(s.views, b)
}

func (s *surface) MaterializeBridgeView(b *bridge.Bridge) {
	if s.hasView(b) {
		return
	}
	s.views = append(s.views, b)
	s.logger.Debug("view materialized", "bridge_id", b.ID())
}

func (s *surface) RemoveBridgeView(b *bridge.Bridge) {
	i := slices.Index(s.views, b)
	if i < 0 {
		return
	}
	s.views = slices.Delete(s.views, i, i+1)
	s.logger.Debug("view removed", "bridge_id", b.ID())
}

func (s *surface) InvalidateMenu() {
	live := s.source.Snapshot()
	menu := make([]menuEntry, 0, len(live))
	for _, b := range live {
		menu = append(menu, menuEntry{bridge: b, open: s.hasView(b)})
	}
	s.menu = menu
	s.menuBuilds++
}

// PromptHandler returns a handler that shows prompts in the program and
// waits for the user's answer. Without a running program there is none.
func (s *surface) PromptHandler() bridge.PromptHandler {
	if s.send == nil {
		return nil
	}
	return bridge.PromptHandlerFunc(s.handlePrompt)
}

func (s *surface) handlePrompt(ctx context.Context, b *bridge.Bridge, p bridge.Prompt) (string, error) {
	reply := make(chan string, 1)
	s.send(promptMsg{bridge: b, prompt: p, reply: reply})

	select {
	case answer := <-reply:
		return answer, nil
	case <-ctx.Done():
		s.send(promptExpiredMsg{reply: reply})
		return "", ctx.Err()
	}
}
