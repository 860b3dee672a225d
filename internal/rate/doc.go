// Package rate provides the Redis fixed-window throttle applied to repeated
// invalid-token presentations from a single client IP.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Key prefix:
//   - wg:atf: — invalid-token failures per client IP
//
// # What this package must NOT do
//
//   - Implement authorization policy (the engine decides when to consult it).
//   - Be imported outside the webguard module.
package rate
