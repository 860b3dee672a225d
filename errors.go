package webguard

import "errors"

var (
	// ErrTokenInvalid is an exported constant or variable used by the authorization engine.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenRevoked is an exported constant or variable used by the authorization engine.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrInsufficientPrivileges is an exported constant or variable used by the authorization engine.
	ErrInsufficientPrivileges = errors.New("insufficient privileges")
	// ErrAuthenticationRequired is an exported constant or variable used by the authorization engine.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrAuthThrottled is an exported constant or variable used by the authorization engine.
	ErrAuthThrottled = errors.New("authorization attempts throttled")
	// ErrInvalidRole is an exported constant or variable used by the authorization engine.
	ErrInvalidRole = errors.New("invalid role claim")
	// ErrInvalidPrivilegeLevel is an exported constant or variable used by the authorization engine.
	ErrInvalidPrivilegeLevel = errors.New("invalid privilege level")
	// ErrInvalidValidationMode is an exported constant or variable used by the authorization engine.
	ErrInvalidValidationMode = errors.New("invalid validation mode")
	// ErrRevocationUnavailable is an exported constant or variable used by the authorization engine.
	ErrRevocationUnavailable = errors.New("revocation backend unavailable")
	// ErrEngineNotReady is an exported constant or variable used by the authorization engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
