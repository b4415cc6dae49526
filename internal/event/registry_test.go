package event

import (
	"fmt"
	"sync"
	"testing"

	"github.com/Iron-Ham/bridgehost/internal/bridge"
)

// recorder is a Listener that appends "<name>:<event>:<bridge>" to a shared log.
type recorder struct {
	name string
	mu   *sync.Mutex
	log  *[]string
}

func newRecorders(names ...string) ([]*recorder, *[]string) {
	var mu sync.Mutex
	log := &[]string{}
	out := make([]*recorder, len(names))
	for i, n := range names {
		out[i] = &recorder{name: n, mu: &mu, log: log}
	}
	return out, log
}

func (r *recorder) record(kind string, b *bridge.Bridge) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.log = append(*r.log, fmt.Sprintf("%s:%s:%s", r.name, kind, b.ID()))
}

func (r *recorder) OnBridgeConnected(b *bridge.Bridge)    { r.record("connected", b) }
func (r *recorder) OnBridgeDisconnected(b *bridge.Bridge) { r.record("disconnected", b) }

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Connected, "bridge.connected"},
		{Disconnected, "bridge.disconnected"},
		{Kind(0), "bridge.unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestRegistry_AddRemove(t *testing.T) {
	reg := NewRegistry(nil, nil)
	recs, _ := newRecorders("a")
	a := recs[0]

	if !reg.Add(a) {
		t.Fatal("first Add should return true")
	}
	if reg.Add(a) {
		t.Error("duplicate Add should return false")
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
	if !reg.Remove(a) {
		t.Error("Remove of member should return true")
	}
	if reg.Remove(a) {
		t.Error("Remove of non-member should be a no-op returning false")
	}
	if reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", reg.Len())
	}
}

func TestRegistry_FanOutOrder(t *testing.T) {
	recs, log := newRecorders("l1", "l2", "l3", "l4")
	reg := NewRegistry(nil, nil)
	for _, r := range recs {
		reg.Add(r)
	}
	b := bridge.New(bridge.WithID("x"))

	reg.NotifyConnected(b)

	want := []string{"l1:connected:x", "l2:connected:x", "l3:connected:x", "l4:connected:x"}
	if fmt.Sprint(*log) != fmt.Sprint(want) {
		t.Errorf("delivery = %v, want %v", *log, want)
	}
}

func TestRegistry_RemoveDuringFanOut(t *testing.T) {
	recs, log := newRecorders("l1", "l3")
	reg := NewRegistry(nil, nil)
	b := bridge.New(bridge.WithID("x"))

	// l2 removes l3 while the fan-out is in progress.
	l2 := &ListenerFuncs{Connected: func(*bridge.Bridge) {
		reg.Remove(recs[1])
	}}
	reg.Add(recs[0])
	reg.Add(l2)
	reg.Add(recs[1])

	reg.NotifyConnected(b)

	want := []string{"l1:connected:x"}
	if fmt.Sprint(*log) != fmt.Sprint(want) {
		t.Errorf("delivery = %v, want %v", *log, want)
	}
	if reg.Len() != 2 {
		t.Errorf("Len() = %d, want 2", reg.Len())
	}
}

func TestRegistry_ReAddDuringFanOutDoesNotDuplicate(t *testing.T) {
	recs, log := newRecorders("l2")
	reg := NewRegistry(nil, nil)
	b := bridge.New(bridge.WithID("x"))

	l1 := &ListenerFuncs{Connected: func(*bridge.Bridge) {
		reg.Remove(recs[0])
		reg.Add(recs[0])
	}}
	reg.Add(l1)
	reg.Add(recs[0])

	reg.NotifyConnected(b)

	if len(*log) != 0 {
		t.Errorf("re-added listener should not receive the in-flight event, got %v", *log)
	}

	reg.NotifyDisconnected(b)
	if len(*log) != 1 || (*log)[0] != "l2:disconnected:x" {
		t.Errorf("re-added listener should receive later events, got %v", *log)
	}
}

func TestRegistry_PanickingListener(t *testing.T) {
	recs, log := newRecorders("after")
	reg := NewRegistry(nil, nil)
	reg.Add(&ListenerFuncs{Disconnected: func(*bridge.Bridge) { panic("boom") }})
	reg.Add(recs[0])

	reg.NotifyDisconnected(bridge.New(bridge.WithID("x")))

	if len(*log) != 1 {
		t.Errorf("listener after a panicking one should still be called, got %v", *log)
	}
}

func TestRegistry_ListenerMayCallBack(t *testing.T) {
	reg := NewRegistry(nil, nil)
	var seen int
	reg.Add(&ListenerFuncs{Connected: func(*bridge.Bridge) {
		seen = reg.Len()
	}})

	reg.NotifyConnected(bridge.New())

	if seen != 1 {
		t.Errorf("Len() from inside listener = %d, want 1", seen)
	}
}

func TestRegistry_Clear(t *testing.T) {
	recs, log := newRecorders("a", "b")
	reg := NewRegistry(nil, nil)
	reg.Add(recs[0])
	reg.Add(recs[1])

	reg.mu.Lock()
	fan := reg.SnapshotLocked()
	reg.mu.Unlock()

	reg.Clear()
	fan.Deliver(Connected, bridge.New())

	if len(*log) != 0 {
		t.Errorf("cleared listeners should not receive events, got %v", *log)
	}
	if fan.Len() != 2 {
		t.Errorf("Fanout.Len() = %d, want 2", fan.Len())
	}
}

func TestRegistry_SharedLocker(t *testing.T) {
	var mu sync.Mutex
	reg := NewRegistry(&mu, nil)
	recs, _ := newRecorders("a")

	mu.Lock()
	reg.AddLocked(recs[0])
	n := reg.SnapshotLocked().Len()
	mu.Unlock()

	if n != 1 {
		t.Errorf("snapshot under shared lock = %d listeners, want 1", n)
	}
}

func TestListenerFuncs_NilFuncs(t *testing.T) {
	f := &ListenerFuncs{}
	b := bridge.New()
	f.OnBridgeConnected(b)
	f.OnBridgeDisconnected(b)
}

func TestRegistry_ConcurrentAddRemoveNotify(t *testing.T) {
	reg := NewRegistry(nil, nil)
	b := bridge.New()
	var wg sync.WaitGroup

	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			l := &ListenerFuncs{}
			for j := 0; j < 200; j++ {
				reg.Add(l)
				reg.Remove(l)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				reg.NotifyConnected(b)
				reg.NotifyDisconnected(b)
			}
		}()
	}
	wg.Wait()

	if reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", reg.Len())
	}
}
