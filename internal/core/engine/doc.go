// Package engine enumerates mechanically valid gear trains.
//
// The Engine is a backtracking search flattened into an explicit stack of
// frames so that it can be driven one bounded step at a time:
//
//	e := engine.New()
//	e.Setup(params)
//	for !e.Advance() {
//		// redraw progress, check for cancellation, yield...
//	}
//	trains := e.Finalize()
//
// The engine holds no timers, goroutines or external resources. Stopping a
// search is simply a matter of no longer calling Advance. Time budgeting is
// the caller's job.
//
// Like domain, this package imports only the standard library.
package engine
