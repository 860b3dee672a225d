package webguard

import "time"

// Role defines a public type used by webguard APIs.
//
// Role instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Role string

const (
	// RoleUser is an exported constant or variable used by the authorization engine.
	RoleUser Role = "USER"
	// RoleAdmin is an exported constant or variable used by the authorization engine.
	RoleAdmin Role = "ADMIN"
)

// Valid describes the valid operation and its observable behavior.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// PrivilegeLevel is the access tier an operation demands. ADMIN implies a
// role check on top of token verification.
type PrivilegeLevel uint8

const (
	// LevelUser is an exported constant or variable used by the authorization engine.
	LevelUser PrivilegeLevel = iota + 1
	// LevelAdmin is an exported constant or variable used by the authorization engine.
	LevelAdmin
)

// ValidationMode selects how far Authorize goes beyond signature checks.
//
//	ModeJWTOnly — signature + temporal claims only, no Redis I/O.
//	ModeStrict  — additionally consults the revocation denylist (fail-closed).
type ValidationMode uint8

const (
	// ModeJWTOnly is an exported constant or variable used by the authorization engine.
	ModeJWTOnly ValidationMode = iota + 1
	// ModeStrict is an exported constant or variable used by the authorization engine.
	ModeStrict
)

// Machine-readable failure codes surfaced to API callers in the structured
// error body. The set is fixed; page routes translate them to redirects.
const (
	// CodeTokenInvalid is an exported constant or variable used by the authorization engine.
	CodeTokenInvalid = "TOKEN_INVALID"
	// CodeInsufficientPrivileges is an exported constant or variable used by the authorization engine.
	CodeInsufficientPrivileges = "INSUFFICIENT_PRIVILEGES"
	// CodeAuthenticationRequired is an exported constant or variable used by the authorization engine.
	CodeAuthenticationRequired = "AUTHENTICATION_REQUIRED"
	// CodeAuthError is an exported constant or variable used by the authorization engine.
	CodeAuthError = "AUTH_ERROR"
)

// TokenPayload is the decoded form of a verified access token. It is
// created per request and discarded after the response is built.
type TokenPayload struct {
	Subject   string
	Email     string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
	TokenID   string
}

// AuthzResult is returned by [Engine.Authorize]. Exactly one of Payload
// (success) or Code/Message (failure) is meaningful; CorrelationID is set
// on every result for log tracing.
type AuthzResult struct {
	Authorized    bool
	Payload       *TokenPayload
	Code          string
	Message       string
	CorrelationID string
}
