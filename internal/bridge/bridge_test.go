package bridge

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/Iron-Ham/bridgehost/internal/errors"
)

func TestNew_Defaults(t *testing.T) {
	b := New()

	if b.ID() == "" {
		t.Fatal("expected generated ID")
	}
	if b.Label() != b.ID() {
		t.Errorf("Label() = %q, want ID %q", b.Label(), b.ID())
	}
	if b.String() != b.ID() {
		t.Errorf("String() = %q, want %q", b.String(), b.ID())
	}
	if b.PendingClose() {
		t.Error("new bridge should not be pending close")
	}
	cols, rows := b.Geometry()
	if cols != DefaultCols || rows != DefaultRows {
		t.Errorf("Geometry() = %dx%d, want %dx%d", cols, rows, DefaultCols, DefaultRows)
	}
	if b.Prompt().Handler() != nil {
		t.Error("new bridge should have no prompt handler")
	}
}

func TestNew_Options(t *testing.T) {
	b := New(WithID("b-1"), WithLabel("db"), WithGeometry(132, 43), WithLogger(nil))

	if b.ID() != "b-1" {
		t.Errorf("ID() = %q, want b-1", b.ID())
	}
	if b.String() != "db (b-1)" {
		t.Errorf("String() = %q", b.String())
	}
	cols, rows := b.Geometry()
	if cols != 132 || rows != 43 {
		t.Errorf("Geometry() = %dx%d, want 132x43", cols, rows)
	}

	fallback := New(WithGeometry(-1, 0))
	if c, r := fallback.Geometry(); c != DefaultCols || r != DefaultRows {
		t.Errorf("invalid geometry should fall back to defaults, got %dx%d", c, r)
	}
}

func TestNew_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := New().ID()
		if seen[id] {
			t.Fatalf("duplicate ID %q", id)
		}
		seen[id] = true
	}
}

func TestPendingCloseTransitions(t *testing.T) {
	b := New()

	b.MarkPendingClose()
	if !b.PendingClose() {
		t.Error("expected pending close after MarkPendingClose")
	}
	b.MarkPendingClose()
	if !b.PendingClose() {
		t.Error("MarkPendingClose should be idempotent")
	}

	b.MarkConnected()
	if b.PendingClose() {
		t.Error("expected pending close cleared after MarkConnected")
	}
	b.MarkConnected()
	if b.PendingClose() {
		t.Error("MarkConnected should be idempotent")
	}
}

func TestResize(t *testing.T) {
	b := New()

	tests := []struct {
		name       string
		cols, rows int
		want       bool
	}{
		{"grow", 100, 30, true},
		{"unchanged", 100, 30, false},
		{"zero cols", 0, 30, false},
		{"negative rows", 100, -1, false},
		{"shrink", 40, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Resize(tt.cols, tt.rows); got != tt.want {
				t.Errorf("Resize(%d, %d) = %v, want %v", tt.cols, tt.rows, got, tt.want)
			}
		})
	}

	if c, r := b.Geometry(); c != 40 || r != 10 {
		t.Errorf("final Geometry() = %dx%d, want 40x10", c, r)
	}
}

func TestConcurrentStateAccess(t *testing.T) {
	b := New()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if (n+j)%2 == 0 {
					b.MarkPendingClose()
				} else {
					b.MarkConnected()
				}
				_ = b.PendingClose()
				b.Resize(80+j%5, 24)
				_, _ = b.Geometry()
			}
		}(i)
	}
	wg.Wait()
}

func TestRequestPrompt(t *testing.T) {
	b := New(WithID("b-1"))

	t.Run("no handler", func(t *testing.T) {
		_, err := b.Prompt().RequestPrompt(context.Background(), Prompt{Message: "password?"})
		if !errors.Is(err, errors.ErrNoPromptHandler) {
			t.Fatalf("err = %v, want ErrNoPromptHandler", err)
		}
		if !strings.Contains(err.Error(), "b-1") {
			t.Errorf("error should name the bridge: %v", err)
		}
	})

	t.Run("handler answers", func(t *testing.T) {
		var gotBridge *Bridge
		b.Prompt().SetHandler(PromptHandlerFunc(func(_ context.Context, br *Bridge, p Prompt) (string, error) {
			gotBridge = br
			if p.YesNo {
				return "yes", nil
			}
			return "secret", nil
		}))

		answer, err := b.Prompt().RequestPrompt(context.Background(), Prompt{Message: "accept?", YesNo: true})
		if err != nil {
			t.Fatalf("RequestPrompt() error = %v", err)
		}
		if answer != "yes" {
			t.Errorf("answer = %q, want yes", answer)
		}
		if gotBridge != b {
			t.Error("handler should receive the prompting bridge")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := b.Prompt().RequestPrompt(ctx, Prompt{}); err != context.Canceled {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})

	t.Run("cleared handler", func(t *testing.T) {
		b.Prompt().SetHandler(nil)
		if b.Prompt().Handler() != nil {
			t.Fatal("handler should be cleared")
		}
		if _, err := b.Prompt().RequestPrompt(context.Background(), Prompt{}); !errors.Is(err, errors.ErrNoPromptHandler) {
			t.Errorf("err = %v, want ErrNoPromptHandler", err)
		}
	})
}

func TestRequestPrompt_HandlerMayClearItself(t *testing.T) {
	b := New()
	b.Prompt().SetHandler(PromptHandlerFunc(func(_ context.Context, br *Bridge, _ Prompt) (string, error) {
		br.Prompt().SetHandler(nil)
		return "ok", nil
	}))

	if _, err := b.Prompt().RequestPrompt(context.Background(), Prompt{}); err != nil {
		t.Fatalf("RequestPrompt() error = %v", err)
	}
	if b.Prompt().Handler() != nil {
		t.Error("handler should have cleared itself without deadlocking")
	}
}
