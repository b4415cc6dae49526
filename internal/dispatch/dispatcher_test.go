package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Iron-Ham/bridgehost/internal/bridge"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindInvalidateMenu, "invalidate_menu"},
		{KindCloseBridgeView, "close_bridge_view"},
		{Kind(42), "kind(42)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

func TestDispatcher_FIFO(t *testing.T) {
	d := New()
	b := bridge.New(bridge.WithID("b1"))

	d.PostInvalidateMenu()
	d.PostCloseBridgeView(b)
	d.PostInvalidateMenu()

	var got []Message
	n := d.Drain(func(m Message) { got = append(got, m) })

	if n != 3 || len(got) != 3 {
		t.Fatalf("Drain() = %d, handled %d, want 3", n, len(got))
	}
	wantKinds := []Kind{KindInvalidateMenu, KindCloseBridgeView, KindInvalidateMenu}
	for i, m := range got {
		if m.Kind != wantKinds[i] {
			t.Errorf("msg[%d].Kind = %v, want %v", i, m.Kind, wantKinds[i])
		}
		if m.Seq != uint64(i+1) {
			t.Errorf("msg[%d].Seq = %d, want %d", i, m.Seq, i+1)
		}
	}
	if got[1].Bridge != b {
		t.Error("close message lost its bridge")
	}
	if d.Len() != 0 {
		t.Errorf("Len() = %d after drain, want 0", d.Len())
	}
}

func TestDispatcher_DrainConsumesPostsMadeDuringDrain(t *testing.T) {
	d := New()
	d.PostInvalidateMenu()

	reposted := false
	n := d.Drain(func(Message) {
		if !reposted {
			reposted = true
			d.PostInvalidateMenu()
		}
	})
	if n != 2 {
		t.Errorf("Drain() = %d, want 2", n)
	}
}

func TestDispatcher_ReadySignal(t *testing.T) {
	d := New()

	select {
	case <-d.Ready():
		t.Fatal("Ready fired before any post")
	default:
	}

	for range 5 {
		d.PostInvalidateMenu()
	}

	select {
	case <-d.Ready():
	default:
		t.Fatal("Ready did not fire after post")
	}

	// Several posts collapse into one wake.
	select {
	case <-d.Ready():
		t.Fatal("Ready fired twice for one burst")
	default:
	}

	if n := d.Drain(func(Message) {}); n != 5 {
		t.Errorf("Drain() = %d, want 5", n)
	}
}

func TestDispatcher_Coalesce(t *testing.T) {
	tests := []struct {
		name     string
		coalesce bool
		want     int
	}{
		{name: "disabled", coalesce: false, want: 5},
		{name: "enabled", coalesce: true, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(WithCoalesceInvalidate(tt.coalesce))
			b := bridge.New()

			d.PostInvalidateMenu()
			d.PostInvalidateMenu()
			d.PostCloseBridgeView(b)
			d.PostInvalidateMenu()
			d.PostInvalidateMenu()

			var kinds []Kind
			d.Drain(func(m Message) { kinds = append(kinds, m.Kind) })

			if len(kinds) != tt.want {
				t.Fatalf("consumed %d messages, want %d (%v)", len(kinds), tt.want, kinds)
			}
			if kinds[len(kinds)-1] != KindInvalidateMenu {
				t.Error("last message should be an invalidation")
			}
		})
	}
}

func TestDispatcher_Close(t *testing.T) {
	d := New()
	d.PostInvalidateMenu()
	d.PostInvalidateMenu()

	d.Close()
	d.Close()

	if d.PostInvalidateMenu() {
		t.Error("Post after Close should return false")
	}
	if n := d.Drain(func(Message) { t.Error("queued message survived Close") }); n != 0 {
		t.Errorf("Drain() after Close = %d, want 0", n)
	}
	select {
	case <-d.Done():
	default:
		t.Error("Done not closed")
	}
}

func TestDispatcher_CloseStopsDrain(t *testing.T) {
	d := New()
	for range 3 {
		d.PostInvalidateMenu()
	}

	n := d.Drain(func(Message) { d.Close() })
	if n != 1 {
		t.Errorf("Drain() = %d, want 1", n)
	}
}

func TestDispatcher_Run(t *testing.T) {
	t.Run("returns nil after close", func(t *testing.T) {
		d := New()
		got := make(chan Message, 10)
		errCh := make(chan error, 1)
		go func() {
			errCh <- d.Run(context.Background(), func(m Message) { got <- m })
		}()

		d.PostInvalidateMenu()
		select {
		case <-got:
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not consume posted message")
		}

		d.Close()
		select {
		case err := <-errCh:
			if err != nil {
				t.Errorf("Run() = %v, want nil", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not return after Close")
		}
	})

	t.Run("returns context error", func(t *testing.T) {
		d := New()
		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() {
			errCh <- d.Run(ctx, func(Message) {})
		}()

		cancel()
		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Run() = %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not return after cancel")
		}
	})
}

// Concurrent producers and a single consumer: nothing is lost, nothing is
// consumed twice, and each producer's messages arrive in its post order.
func TestDispatcher_ConcurrentProducers(t *testing.T) {
	d := New()

	const producers = 8
	const perProducer = 200

	bridges := make([]*bridge.Bridge, producers)
	for i := range bridges {
		bridges[i] = bridge.New()
	}

	var consumed []Message
	var consumedMu sync.Mutex
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = d.Run(ctx, func(m Message) {
			consumedMu.Lock()
			consumed = append(consumed, m)
			consumedMu.Unlock()
		})
	}()

	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perProducer {
				d.PostCloseBridgeView(bridges[p])
			}
		}()
	}
	wg.Wait()

	deadline := time.After(5 * time.Second)
	for {
		consumedMu.Lock()
		n := len(consumed)
		consumedMu.Unlock()
		if n == producers*perProducer {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("consumed %d messages, want %d", n, producers*perProducer)
		case <-time.After(5 * time.Millisecond):
		}
	}
	d.Close()
	<-runDone

	seen := make(map[uint64]bool)
	lastSeq := make(map[*bridge.Bridge]uint64)
	var prev uint64
	for _, m := range consumed {
		if seen[m.Seq] {
			t.Fatalf("message %d consumed twice", m.Seq)
		}
		seen[m.Seq] = true
		if m.Seq <= prev {
			t.Fatalf("out of order: %d after %d", m.Seq, prev)
		}
		prev = m.Seq
		if m.Seq <= lastSeq[m.Bridge] {
			t.Fatalf("per-producer order violated for %v", m.Bridge)
		}
		lastSeq[m.Bridge] = m.Seq
	}
}
