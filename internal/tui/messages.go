package tui

import "github.com/Iron-Ham/bridgehost/internal/bridge"

// attachMsg asks the model to attach its surface from inside Update.
type attachMsg struct{}

// dispatchMsg signals that the dispatcher has queued UI work.
type dispatchMsg struct{}

// promptMsg carries a question from a session to the user.
type promptMsg struct {
	bridge *bridge.Bridge
	prompt bridge.Prompt
	reply  chan<- string
}

// promptExpiredMsg withdraws a prompt whose asker stopped waiting.
type promptExpiredMsg struct {
	reply chan<- string
}
