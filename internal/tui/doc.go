// Package tui provides the terminal surfaces of bridgehost: an interactive
// bubbletea program and a headless line printer.
//
// Both attach to an [attach.Coordinator]. The interactive [App] forwards
// dispatcher wake-ups into the program as messages, so every queued UI
// change is applied inside [Model.Update] on the program goroutine.
package tui
