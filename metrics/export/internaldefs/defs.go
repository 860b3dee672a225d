package internaldefs

import (
	webguard "github.com/arinellipar/webguard"
)

// CounterDef defines a public type used by webguard APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   webguard.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by webguard APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   webguard.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the authorization engine.
var CounterDefs = []CounterDef{
	{ID: webguard.MetricAuthzSuccess, Name: "webguard_authz_success_total", Help: "Successful authorization checks."},
	{ID: webguard.MetricAuthzTokenInvalid, Name: "webguard_authz_token_invalid_total", Help: "Authorization checks rejected for invalid, expired, or missing tokens."},
	{ID: webguard.MetricAuthzRevoked, Name: "webguard_authz_revoked_total", Help: "Authorization checks rejected because the token was revoked."},
	{ID: webguard.MetricAuthzInsufficientPrivileges, Name: "webguard_authz_insufficient_privileges_total", Help: "Authorization checks rejected for missing the ADMIN role."},
	{ID: webguard.MetricAuthzThrottled, Name: "webguard_authz_throttled_total", Help: "Authorization checks rejected by the per-IP invalid-token throttle."},
	{ID: webguard.MetricAuthzError, Name: "webguard_authz_error_total", Help: "Authorization checks that failed on an internal or backend error."},
	{ID: webguard.MetricTokenRevoked, Name: "webguard_token_revoked_total", Help: "Tokens added to the revocation denylist."},
	{ID: webguard.MetricGuardBypass, Name: "webguard_guard_bypass_total", Help: "Requests short-circuited by the auth-flow bypass allowlist."},
	{ID: webguard.MetricGuardPassThrough, Name: "webguard_guard_pass_total", Help: "Requests forwarded to the application."},
	{ID: webguard.MetricGuardRedirect, Name: "webguard_guard_redirect_total", Help: "Requests answered with a redirect."},
	{ID: webguard.MetricGuardDenied, Name: "webguard_guard_denied_total", Help: "Requests answered with a structured denial."},
	{ID: webguard.MetricGuardFailOpen, Name: "webguard_guard_fail_open_total", Help: "Requests forwarded after an internal guard failure."},
}

// HistogramDefs is an exported constant or variable used by the authorization engine.
var HistogramDefs = []HistogramDef{
	{ID: webguard.MetricAuthorizeLatency, Name: "webguard_authorize_latency_seconds", Help: "Authorize latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the authorization engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the authorization engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
