// Package session performs HTTP transfers for the executor.
//
// It wraps the standard library's http package with additional features:
//   - Configurable timeouts
//   - Redirect handling
//   - Client-side rate limiting
//   - Per-request correlation IDs
//   - Latency recording
package session
