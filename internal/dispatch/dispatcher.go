package dispatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/Iron-Ham/bridgehost/internal/bridge"
	"github.com/Iron-Ham/bridgehost/internal/logging"
)

// Kind identifies what a Message asks the UI to do.
type Kind int

const (
	// KindInvalidateMenu asks the UI to rebuild its menu or action state.
	KindInvalidateMenu Kind = iota + 1

	// KindCloseBridgeView asks the UI to remove the view of Message.Bridge,
	// provided the bridge is still pending close when consumed.
	KindCloseBridgeView
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindInvalidateMenu:
		return "invalidate_menu"
	case KindCloseBridgeView:
		return "close_bridge_view"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Message is one unit of UI work.
type Message struct {
	Kind   Kind
	Bridge *bridge.Bridge // set for KindCloseBridgeView
	Seq    uint64         // assigned by Post, strictly increasing
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. A nil logger leaves the no-op default.
func WithLogger(l *logging.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithCoalesceInvalidate merges an InvalidateMenu posted while the tail of
// the queue is already an InvalidateMenu. Consumers still see at least one
// invalidation after any state change.
func WithCoalesceInvalidate(enabled bool) Option {
	return func(d *Dispatcher) {
		d.coalesce = enabled
	}
}

// Dispatcher is an unbounded FIFO of Messages consumed on the UI goroutine.
// Queued messages are dropped by Close, and by a detaching coordinator,
// which drains them without handling.
type Dispatcher struct {
	logger   *logging.Logger
	coalesce bool

	mu     sync.Mutex
	queue  []Message
	seq    uint64
	merged uint64
	closed bool

	// ready is signalled (non-blocking) after every accepted post.
	ready chan struct{}
	done  chan struct{}
}

// New creates an open Dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		logger: logging.NopLogger(),
		ready:  make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.WithPhase("dispatch")
	return d
}

// Post enqueues msg without blocking. It returns false only once the
// dispatcher has been closed. Post assigns msg.Seq.
func (d *Dispatcher) Post(msg Message) bool {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Debug("post after close dropped", "kind", msg.Kind.String())
		return false
	}
	if d.coalesce && msg.Kind == KindInvalidateMenu && len(d.queue) > 0 &&
		d.queue[len(d.queue)-1].Kind == KindInvalidateMenu {
		d.merged++
		d.mu.Unlock()
		return true
	}
	d.seq++
	msg.Seq = d.seq
	d.queue = append(d.queue, msg)
	d.mu.Unlock()

	d.signal()
	return true
}

// PostInvalidateMenu enqueues a KindInvalidateMenu message.
func (d *Dispatcher) PostInvalidateMenu() bool {
	return d.Post(Message{Kind: KindInvalidateMenu})
}

// PostCloseBridgeView enqueues a KindCloseBridgeView message for b.
func (d *Dispatcher) PostCloseBridgeView(b *bridge.Bridge) bool {
	return d.Post(Message{Kind: KindCloseBridgeView, Bridge: b})
}

func (d *Dispatcher) signal() {
	select {
	case d.ready <- struct{}{}:
	default:
	}
}

// Ready returns a channel that receives a value after messages are posted.
// It is level-triggered with a buffer of one: several posts may collapse
// into a single wake, so a woken consumer should Drain everything.
func (d *Dispatcher) Ready() <-chan struct{} {
	return d.ready
}

// Done returns a channel closed when the dispatcher is closed.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

// Len returns the number of queued messages.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Drain consumes queued messages in order on the calling goroutine and
// returns how many were handled. Messages posted while fn runs are consumed
// by the same call. Drain stops early if the dispatcher is closed.
//
// fn is called without any dispatcher lock held and may post.
func (d *Dispatcher) Drain(fn func(Message)) int {
	n := 0
	for {
		msg, ok := d.pop()
		if !ok {
			return n
		}
		fn(msg)
		n++
	}
}

func (d *Dispatcher) pop() (Message, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || len(d.queue) == 0 {
		return Message{}, false
	}
	msg := d.queue[0]
	d.queue[0] = Message{}
	d.queue = d.queue[1:]
	if len(d.queue) == 0 {
		// Release the backing array once the burst is consumed.
		d.queue = nil
	}
	return msg, true
}

// Run consumes messages on the calling goroutine until ctx is done or the
// dispatcher is closed. It returns ctx.Err() or nil after Close.
func (d *Dispatcher) Run(ctx context.Context, fn func(Message)) error {
	for {
		d.Drain(fn)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.done:
			return nil
		case <-d.ready:
		}
	}
}

// Close discards all queued messages and rejects later posts. Safe to call
// more than once.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	dropped := len(d.queue)
	merged := d.merged
	posted := d.seq
	d.queue = nil
	close(d.done)
	d.mu.Unlock()

	d.logger.Info("dispatcher closed",
		"posted", posted,
		"merged", merged,
		"dropped", dropped)
}
