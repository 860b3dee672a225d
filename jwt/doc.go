// Package jwt implements the access-token codec used by the webguard engine:
// HMAC-SHA256 signed tokens carrying subject, email, role, issue/expiry
// timestamps, and a unique token id.
//
// # Token contract
//
// Claims: sub, email, role, iat, exp, jti. The jti is a fresh UUID per
// issued token. Verification pins the algorithm to HS256, enforces expiry
// with a bounded leeway, and rejects tokens issued in the future beyond
// MaxFutureIAT.
//
// # What this package must NOT do
//
//   - Persist decoded claims anywhere (they live for one request only).
//   - Make authorization decisions (role checks belong to the Engine).
//   - Perform any I/O.
package jwt
