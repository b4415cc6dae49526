package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/bridgehost/internal/attach"
	"github.com/Iron-Ham/bridgehost/internal/bridge"
	"github.com/Iron-Ham/bridgehost/internal/logging"
	"github.com/Iron-Ham/bridgehost/internal/tui/styles"
)

// Disconnector ends a live session on user request.
type Disconnector interface {
	Disconnect(id string) error
}

type pendingPrompt struct {
	bridge *bridge.Bridge
	prompt bridge.Prompt
	reply  chan<- string
}

// Model is the bubbletea model of the session view.
type Model struct {
	coord        *attach.Coordinator
	disconnector Disconnector
	surface      *surface
	logger       *logging.Logger
	keys         KeyMap

	cursor int
	prompt *pendingPrompt
	status string
	width  int
}

// NewModel creates a Model. disconnector may be nil, which disables the
// disconnect key.
func NewModel(coord *attach.Coordinator, source Source, disconnector Disconnector, logger *logging.Logger) Model {
	if logger == nil {
		logger = logging.NopLogger()
	}
	logger = logger.WithPhase("tui")
	return Model{
		coord:        coord,
		disconnector: disconnector,
		surface:      newSurface(source, logger),
		logger:       logger,
		keys:         DefaultKeyMap(),
	}
}

// Init implements tea.Model. Attaching happens on the program goroutine.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return attachMsg{} }
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case attachMsg:
		m.coord.Attach(m.surface)
		m.surface.InvalidateMenu()
		m.clampCursor()
		return m, nil

	case dispatchMsg:
		m.coord.Consume()
		m.clampCursor()
		return m, nil

	case promptMsg:
		if m.prompt != nil {
			// One question at a time; the earlier asker keeps waiting.
			m.logger.Debug("prompt superseded", "bridge_id", m.prompt.bridge.ID())
		}
		m.prompt = &pendingPrompt{bridge: msg.bridge, prompt: msg.prompt, reply: msg.reply}
		return m, nil

	case promptExpiredMsg:
		if m.prompt != nil && m.prompt.reply == msg.reply {
			m.status = fmt.Sprintf("prompt from %s timed out", m.prompt.bridge.Label())
			m.prompt = nil
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.prompt != nil {
		switch {
		case key.Matches(msg, m.keys.Yes):
			m.answer("y")
		case key.Matches(msg, m.keys.No):
			m.answer("n")
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.selectCursor()
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.surface.menu)-1 {
			m.cursor++
			m.selectCursor()
		}

	case key.Matches(msg, m.keys.Open):
		entry, ok := m.current()
		if !ok {
			return m, nil
		}
		if _, err := m.coord.Open(entry.bridge.ID()); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = "opened " + entry.bridge.Label()

	case key.Matches(msg, m.keys.Disconnect):
		entry, ok := m.current()
		if !ok || m.disconnector == nil {
			return m, nil
		}
		if err := m.disconnector.Disconnect(entry.bridge.ID()); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = "disconnecting " + entry.bridge.Label()
	}
	return m, nil
}

func (m *Model) answer(a string) {
	select {
	case m.prompt.reply <- a:
	default:
	}
	m.status = fmt.Sprintf("answered %q to %s", a, m.prompt.bridge.Label())
	m.prompt = nil
}

func (m Model) current() (menuEntry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.surface.menu) {
		return menuEntry{}, false
	}
	return m.surface.menu[m.cursor], true
}

// selectCursor tells the coordinator when the cursor lands on an open view.
func (m Model) selectCursor() {
	if entry, ok := m.current(); ok && entry.open {
		m.coord.ViewChanged(entry.bridge)
	}
}

func (m *Model) clampCursor() {
	if n := len(m.surface.menu); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("bridgehost"))
	b.WriteString("\n")

	if len(m.surface.menu) == 0 {
		b.WriteString(styles.Muted.Render("  no live sessions"))
		b.WriteString("\n")
	}
	selected := m.coord.Selected()
	for i, entry := range m.surface.menu {
		cols, rows := entry.bridge.Geometry()
		line := fmt.Sprintf("%s %s  %dx%d",
			styles.BridgeBadge(entry.open, entry.bridge.PendingClose()),
			entry.bridge.Label(), cols, rows)
		if entry.bridge == selected {
			line += styles.Secondary.Render("  (viewing)")
		}
		// MenuItem pads two columns on the left.
		line = styles.Fit(line, m.width-2)
		if i == m.cursor {
			b.WriteString(styles.MenuItemSelected.Render(line))
		} else {
			b.WriteString(styles.MenuItem.Render(line))
		}
		b.WriteString("\n")
	}

	if len(m.surface.views) > 0 {
		labels := make([]string, len(m.surface.views))
		for i, v := range m.surface.views {
			labels[i] = v.Label()
		}
		box := styles.ContentBox
		if m.width > 4 {
			box = box.Width(m.width - 4)
		}
		b.WriteString(box.Render("open: " + strings.Join(labels, ", ")))
		b.WriteString("\n")
	}

	if m.prompt != nil {
		text := m.prompt.prompt.Message
		if m.prompt.prompt.Instructions != "" {
			text += "\n" + m.prompt.prompt.Instructions
		}
		b.WriteString(styles.PromptBox.Render(text))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(styles.Muted.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.helpView())
	return b.String()
}

func (m Model) helpView() string {
	bindings := m.keys.ShortHelp()
	if m.prompt != nil {
		bindings = []key.Binding{m.keys.Yes, m.keys.No, m.keys.Quit}
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, styles.HelpKey.Render(h.Key)+" "+styles.HelpDesc.Render(h.Desc))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(parts, "  "))
}
