// Package attach connects a UI surface to the session manager.
//
// A UI is transient: it may attach, detach and re-attach many times while
// sessions keep running. The [Coordinator] registers a listener for the
// attached [Surface], builds one view per live bridge at attach time, and
// routes connection changes to the surface through the dispatcher so that
// every surface call happens on the UI goroutine inside [Coordinator.Consume].
//
// A close request is re-validated when consumed: if the bridge reconnected
// between the disconnect and consumption, the view is kept.
package attach
