// Package manager provides the process-wide session manager.
//
// The [Manager] owns the collection of live bridges and the set of
// listeners interested in connection changes. It runs for the whole life of
// the host process, independent of whether any UI is attached: sessions keep
// running, connecting and disconnecting while no UI is watching.
//
// # Thread Safety
//
// Every read and write of the bridge collection, the listener set and the
// resize-allowed flag happens under a single mutex. Notifications are fanned
// out after the mutex is released, so a listener may call back into the
// manager.
//
// # Basic Usage
//
//	mgr := manager.New(manager.Config{Logger: logger})
//
//	// session logic, any goroutine
//	b := bridge.New(bridge.WithLabel("web-1"))
//	mgr.NotifyConnected(b)
//	...
//	mgr.NotifyDisconnected(b)
//
//	// UI side
//	for _, b := range mgr.Snapshot() { ... }
package manager
