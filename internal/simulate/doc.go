// Package simulate drives fake sessions against a session manager.
//
// A [Driver] stands in for the networking layer of a real host: it connects
// bridges, drops and restores them at random, asks the attached UI to
// answer prompts, and resizes bridges when the UI allows it. Disconnected
// bridges are reconnected as the same handle, which is exactly the case
// where a queued close must not tear a view down.
//
// Runs are reproducible for a given seed.
package simulate
