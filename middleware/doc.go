// Package middleware exposes the HTTP entrypoint of webguard: a
// route-classifying guard that intercepts every request, plus per-handler
// guards for API routes that carry bearer tokens.
//
// # Guards
//
//   - [Guard] — full pipeline: bypass check, route classification, cookie
//     token extraction, authorization, enforcement, security headers.
//   - [RequireUser] — per-handler guard, USER tier, bearer or cookie token.
//   - [RequireAdmin] — per-handler guard, ADMIN tier.
//
// Guard branches on the route's security category: public API routes pass
// through untouched, protected routes demand a verified token, admin-only
// routes demand the ADMIN role, and auth-restricted routes bounce already
// authenticated users away from login/register pages. Page routes receive
// redirects; API routes receive structured JSON errors.
//
// Every response leaving the guard carries the security header bundle for
// its content class (api, web, or admin).
//
// # Failure semantics
//
// A panic anywhere in the decision pipeline fails OPEN: the request is
// forwarded rather than blocked, trading strictness for availability so a
// guard bug cannot take down the whole site. The fail-open event is counted
// and audited.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine and Classifier calls.
// It does NOT implement authorization logic itself — all decisions are
// delegated to Engine.Authorize and route.Classifier.Classify.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Access Redis (Engine handles I/O).
//   - Serve application content; it only forwards, redirects, or denies.
package middleware
