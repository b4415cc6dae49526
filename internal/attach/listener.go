package attach

import (
	"github.com/Iron-Ham/bridgehost/internal/bridge"
)

// surfaceListener receives connection events on session goroutines and
// forwards them as dispatcher messages. It never touches the surface.
type surfaceListener struct {
	coord   *Coordinator
	surface Surface
}

func (l *surfaceListener) OnBridgeConnected(b *bridge.Bridge) {
	// The surface is asked for its handler outside the coordinator lock.
	handler := promptHandlerOf(l.surface)
	if !l.coord.installHandler(l.surface, b, handler) {
		return
	}
	l.coord.dispatcher.PostInvalidateMenu()
}

func (l *surfaceListener) OnBridgeDisconnected(b *bridge.Bridge) {
	if !l.coord.isAttached(l.surface) {
		return
	}
	l.coord.dispatcher.PostCloseBridgeView(b)
	l.coord.dispatcher.PostInvalidateMenu()
}
