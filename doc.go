// Package webguard provides the authorization core of a content-publishing
// web application: JWT bearer-token verification, two-tier role enforcement
// (USER/ADMIN), optional Redis-backed token revocation, and an audit stream
// with per-request correlation ids.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build]. The HTTP-facing pieces live in sub-packages: route
// classification in route/, the request state machine and security headers
// in middleware/.
//
// # Architecture boundaries
//
// webguard is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (AuthzResult, MetricsSnapshot, AuditEvent). Redis-backed
// infrastructure lives in revocation/ and internal/rate and is reached only
// through Engine methods.
//
// # What this package must NOT do
//
//   - Touch http.Request or http.ResponseWriter (that is middleware/'s job).
//   - Expose Redis clients or store internals in its public API.
//   - Import any sub-package that re-imports webguard (no import cycles).
//
// # Performance contract
//
// Authorize is the hot path. In jwtonly mode it must complete without Redis
// round-trips; strict mode is allowed one revocation lookup per call.
package webguard
