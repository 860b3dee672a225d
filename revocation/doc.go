// Package revocation implements the Redis-backed token denylist consulted
// by the engine in strict validation mode.
//
// # Key layout
//
// One key per revoked token id: <prefix>:rv:<jti>, value "1", expiring at
// the token's own exp so the denylist never outlives the tokens it blocks.
//
// # Failure semantics
//
// Redis errors surface as [ErrRedisUnavailable]. The engine treats an
// unavailable backend as a denial in strict mode (fail-closed); callers
// that prefer availability run jwtonly mode instead.
//
// # What this package must NOT do
//
//   - Parse or verify tokens (it only sees opaque jti strings).
//   - Decide authorization outcomes (the engine owns policy).
package revocation
