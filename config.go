package webguard

import (
	"errors"
	"time"
)

// Config defines a public type used by webguard APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	JWT            JWTConfig
	Revocation     RevocationConfig
	Throttle       ThrottleConfig
	Audit          AuditConfig
	Metrics        MetricsConfig
	ValidationMode ValidationMode
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig defines a public type used by webguard APIs.
//
// JWTConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type JWTConfig struct {
	Secret       []byte // HMAC-SHA256 key, minimum 32 bytes
	AccessTTL    time.Duration
	Issuer       string
	Leeway       time.Duration
	RequireIAT   bool
	MaxFutureIAT time.Duration
}

/*
====================================
REVOCATION CONFIG
====================================
*/

// RevocationConfig defines a public type used by webguard APIs.
//
// RevocationConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RevocationConfig struct {
	Enabled     bool
	RedisPrefix string
}

/*
====================================
THROTTLE CONFIG
====================================
*/

// ThrottleConfig tunes the per-IP invalid-token throttle. When enabled,
// repeated failed verifications from one client IP inside the cooldown
// window are rejected without signature work.
type ThrottleConfig struct {
	Enabled     bool
	MaxFailures int
	Cooldown    time.Duration
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by webguard APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by webguard APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the baseline configuration: jwtonly validation,
// 15 minute access tokens, revocation and throttling disabled.
//
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:    15 * time.Minute,
			Leeway:       30 * time.Second,
			MaxFutureIAT: 10 * time.Minute,
		},
		Revocation: RevocationConfig{
			Enabled:     false,
			RedisPrefix: "wg",
		},
		Throttle: ThrottleConfig{
			Enabled:     false,
			MaxFailures: 20,
			Cooldown:    5 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
		ValidationMode: ModeJWTOnly,
	}
}

func validateConfig(cfg Config) error {
	if len(cfg.JWT.Secret) == 0 {
		return errors.New("jwt secret required")
	}
	if cfg.JWT.AccessTTL <= 0 {
		return errors.New("jwt access ttl must be positive")
	}
	switch cfg.ValidationMode {
	case ModeJWTOnly, ModeStrict:
	default:
		return ErrInvalidValidationMode
	}
	if cfg.ValidationMode == ModeStrict && !cfg.Revocation.Enabled {
		return errors.New("strict validation mode requires revocation to be enabled")
	}
	if cfg.Throttle.Enabled {
		if cfg.Throttle.MaxFailures <= 0 {
			return errors.New("throttle max failures must be positive")
		}
		if cfg.Throttle.Cooldown <= 0 {
			return errors.New("throttle cooldown must be positive")
		}
	}
	if cfg.Audit.Enabled && cfg.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be positive")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Secret = cloneBytes(cfg.JWT.Secret)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
