// Package route classifies request paths into security categories using a
// static route matrix and a bounded LRU cache with TTL expiry.
//
// # Classification semantics
//
// A path belongs to at most one of five categories, tested in fixed matrix
// declaration order: public API, admin-only, protected, auth-restricted,
// public content. Within a category the match order is: exact literal,
// "/*" wildcard prefix, dynamic segment pattern ("[param]" or ":param",
// compiled to a regex memoized by pattern string), then plain string prefix.
// The first matching category wins.
//
// # Cache concurrency
//
// The classification cache is shared mutable state guarded by a mutex. Even
// without the lock, correctness would hold: entries are idempotently derived
// from the immutable matrix, so a lost update costs only a redundant
// recomputation, never a wrong classification. The lock exists to keep the
// LRU bookkeeping (map + list) internally consistent under parallel
// requests, which Go serves on real OS threads rather than a single-threaded
// event loop.
//
// # What this package must NOT do
//
//   - Inspect tokens, cookies, or roles (classification is path-only).
//   - Mutate the matrix after construction.
//   - Perform any I/O.
package route
