// Package bridge defines the handle the host keeps for one live session.
//
// A [Bridge] is deliberately thin: the session protocol behind it belongs to
// external session logic. The host only needs an identity, a pending-close
// flag that session teardown raises and reconnection lowers, the current
// output geometry, and a [PromptHelper] through which session logic can ask
// the attached UI a question.
//
// Lifecycle:
//
//	b := bridge.New(bridge.WithLabel("db-1"))
//	mgr.NotifyConnected(b)     // manager clears PendingClose
//	answer, err := b.Prompt().RequestPrompt(ctx, bridge.Prompt{Message: "Accept host key?"})
//	mgr.NotifyDisconnected(b)  // manager sets PendingClose; UI tears the view down
//
// The interaction handler is installed by the attachment coordinator while a
// UI is attached and cleared again on detach, so a Bridge never keeps a UI
// surface reachable after the UI is gone.
package bridge
