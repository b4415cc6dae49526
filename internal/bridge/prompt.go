package bridge

import (
	"context"
	"sync"

	"github.com/Iron-Ham/bridgehost/internal/errors"
)

// Prompt is a question session logic asks the user, such as accepting a
// host key or entering a password.
type Prompt struct {
	// Message is the question shown to the user.
	Message string
	// Instructions is optional supporting text.
	Instructions string
	// YesNo marks a boolean question; the answer is "yes" or "no".
	YesNo bool
}

// PromptHandler answers prompts on behalf of an attached UI.
// Implementations must honor ctx cancellation.
type PromptHandler interface {
	HandlePrompt(ctx context.Context, b *Bridge, p Prompt) (string, error)
}

// PromptHandlerFunc adapts a function to PromptHandler.
type PromptHandlerFunc func(ctx context.Context, b *Bridge, p Prompt) (string, error)

// HandlePrompt calls f.
func (f PromptHandlerFunc) HandlePrompt(ctx context.Context, b *Bridge, p Prompt) (string, error) {
	return f(ctx, b, p)
}

// PromptHelper holds at most one PromptHandler for a bridge.
type PromptHelper struct {
	bridge *Bridge

	mu      sync.RWMutex
	handler PromptHandler
}

// SetHandler installs h, replacing any previous handler. Passing nil clears
// the handler so session logic stops prompting a UI that no longer exists.
func (p *PromptHelper) SetHandler(h PromptHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handler = h
}

// Handler returns the installed handler, or nil.
func (p *PromptHelper) Handler() PromptHandler {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.handler
}

// RequestPrompt asks the attached UI to answer pr. It fails with
// ErrNoPromptHandler when no UI is attached. The handler runs without the
// helper's lock held, so it may clear or replace itself.
func (p *PromptHelper) RequestPrompt(ctx context.Context, pr Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	h := p.Handler()
	if h == nil {
		return "", errors.NewBridgeError("prompt", errors.ErrNoPromptHandler).WithBridgeID(p.bridge.ID())
	}
	return h.HandlePrompt(ctx, p.bridge, pr)
}
