// Package dispatch provides execution contexts for outcome delivery.
//
// Callers that need results on a designated goroutine (an event loop, a
// UI thread equivalent) pass a Serial dispatcher; callers that do not care
// use Immediate.
package dispatch
