package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Iron-Ham/bridgehost/internal/attach"
	"github.com/Iron-Ham/bridgehost/internal/bridge"
	"github.com/Iron-Ham/bridgehost/internal/tui/styles"
)

// Headless is a Surface that prints view changes as lines of text. It is
// used when stdout is not a terminal.
type Headless struct {
	source Source
	w      io.Writer
	views  map[*bridge.Bridge]bool
}

// NewHeadless creates a Headless surface writing to w.
func NewHeadless(source Source, w io.Writer) *Headless {
	return &Headless{source: source, w: w, views: make(map[*bridge.Bridge]bool)}
}

func (h *Headless) MaterializeBridgeView(b *bridge.Bridge) {
	if h.views[b] {
		return
	}
	h.views[b] = true
	fmt.Fprintf(h.w, "%s view %s\n", styles.Secondary.Render("+"), b)
}

func (h *Headless) RemoveBridgeView(b *bridge.Bridge) {
	if !h.views[b] {
		return
	}
	delete(h.views, b)
	fmt.Fprintf(h.w, "%s view %s\n", styles.Error.Render("-"), b)
}

func (h *Headless) InvalidateMenu() {
	live := h.source.Snapshot()
	labels := make([]string, len(live))
	for i, b := range live {
		labels[i] = b.Label()
		// Headless output has no open action, so every live bridge is shown.
		h.MaterializeBridgeView(b)
	}
	fmt.Fprintf(h.w, "%s %d live [%s]\n", styles.Muted.Render("menu"), len(live), strings.Join(labels, " "))
}

// Views returns the number of materialized views.
func (h *Headless) Views() int {
	return len(h.views)
}

// RunHeadless attaches h and consumes UI work on the calling goroutine
// until ctx is done, then detaches.
func RunHeadless(ctx context.Context, coord *attach.Coordinator, h *Headless) error {
	coord.Attach(h)
	defer coord.Detach(h)

	// Cancellation is the normal way out.
	if err := coord.Dispatcher().Run(ctx, coord.Handle); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
