package webguard

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/arinellipar/webguard/internal/rate"
	"github.com/arinellipar/webguard/jwt"
	"github.com/arinellipar/webguard/revocation"
)

// Engine is the authorization core. It verifies access tokens, enforces
// privilege levels, and feeds metrics and audit events. Construct it with
// [Builder.Build]; the zero value is not usable.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config      Config
	jwtManager  *jwt.Manager
	revocations *revocation.Store
	throttle    *rate.Limiter
	audit       *auditDispatcher
	metrics     *Metrics
}

// Authorize verifies tokenStr and checks that the bearer meets the required
// privilege level. It never returns a nil result and never panics the
// caller: every failure is reported as a structured denial.
//
// Authorize may return an error when input validation, dependency calls, or security checks fail.
// Authorize does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Authorize(ctx context.Context, tokenStr string, level PrivilegeLevel) *AuthzResult {
	start := time.Now()
	defer func() {
		if e != nil {
			e.metrics.Observe(MetricAuthorizeLatency, time.Since(start))
		}
	}()

	correlationID := uuid.NewString()

	if e == nil || e.jwtManager == nil {
		return &AuthzResult{
			Code:          CodeAuthError,
			Message:       "Authorization engine is not initialized",
			CorrelationID: correlationID,
		}
	}

	if level != LevelUser && level != LevelAdmin {
		e.metrics.Inc(MetricAuthzError)
		return &AuthzResult{
			Code:          CodeAuthError,
			Message:       "Unknown privilege level",
			CorrelationID: correlationID,
		}
	}

	if tokenStr == "" {
		e.metrics.Inc(MetricAuthzTokenInvalid)
		e.emitAudit(ctx, auditEventAuthzDenied, false, correlationID, "", "", "", ErrAuthenticationRequired, nil)
		return &AuthzResult{
			Code:          CodeAuthenticationRequired,
			Message:       "Authentication required",
			CorrelationID: correlationID,
		}
	}

	ip := clientIPFromContext(ctx)

	if e.throttle != nil {
		if err := e.throttle.Check(ctx, ip); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				e.metrics.Inc(MetricAuthzThrottled)
				e.emitAudit(ctx, auditEventAuthzThrottled, false, correlationID, "", "", "", ErrAuthThrottled, nil)
				return &AuthzResult{
					Code:          CodeTokenInvalid,
					Message:       "Authentication token is invalid or expired",
					CorrelationID: correlationID,
				}
			}
			// The throttle is an optimization, not a gate. A Redis outage
			// must not block token verification.
			log.Print("webguard: throttle check failed, continuing without throttle")
		}
	}

	claims, err := e.jwtManager.Parse(tokenStr)
	if err != nil {
		if e.throttle != nil {
			if rerr := e.throttle.RecordFailure(ctx, ip); rerr != nil && !errors.Is(rerr, rate.ErrRateLimited) {
				log.Print("webguard: throttle record failed")
			}
		}
		e.metrics.Inc(MetricAuthzTokenInvalid)
		e.emitAudit(ctx, auditEventAuthzDenied, false, correlationID, "", "", "", ErrTokenInvalid, func() map[string]string {
			return map[string]string{"parse_error": err.Error()}
		})
		return &AuthzResult{
			Code:          CodeTokenInvalid,
			Message:       "Authentication token is invalid or expired",
			CorrelationID: correlationID,
		}
	}

	role := Role(claims.Role)
	if !role.Valid() {
		e.metrics.Inc(MetricAuthzTokenInvalid)
		e.emitAudit(ctx, auditEventAuthzDenied, false, correlationID, claims.Subject, role, "", ErrInvalidRole, nil)
		return &AuthzResult{
			Code:          CodeTokenInvalid,
			Message:       "Authentication token is invalid or expired",
			CorrelationID: correlationID,
		}
	}

	if e.config.ValidationMode == ModeStrict {
		revoked, err := e.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			// Strict mode fails closed: an unreachable denylist means the
			// token's standing cannot be proven.
			e.metrics.Inc(MetricAuthzError)
			e.emitAudit(ctx, auditEventAuthzError, false, correlationID, claims.Subject, role, "", ErrRevocationUnavailable, nil)
			return &AuthzResult{
				Code:          CodeAuthError,
				Message:       "Authorization backend unavailable",
				CorrelationID: correlationID,
			}
		}
		if revoked {
			e.metrics.Inc(MetricAuthzRevoked)
			e.emitAudit(ctx, auditEventAuthzDenied, false, correlationID, claims.Subject, role, "", ErrTokenRevoked, func() map[string]string {
				return map[string]string{"token_id": claims.ID}
			})
			return &AuthzResult{
				Code:          CodeTokenInvalid,
				Message:       "Authentication token is invalid or expired",
				CorrelationID: correlationID,
			}
		}
	}

	if level == LevelAdmin && role != RoleAdmin {
		e.metrics.Inc(MetricAuthzInsufficientPrivileges)
		e.emitAudit(ctx, auditEventAuthzDenied, false, correlationID, claims.Subject, role, "", ErrInsufficientPrivileges, nil)
		return &AuthzResult{
			Code:          CodeInsufficientPrivileges,
			Message:       "Administrator privileges required",
			CorrelationID: correlationID,
		}
	}

	if e.throttle != nil {
		if err := e.throttle.Reset(ctx, ip); err != nil {
			log.Print("webguard: throttle reset failed")
		}
	}

	payload := payloadFromClaims(claims, role)

	e.metrics.Inc(MetricAuthzSuccess)
	e.emitAudit(ctx, auditEventAuthzSuccess, true, correlationID, claims.Subject, role, "", nil, nil)

	return &AuthzResult{
		Authorized:    true,
		Payload:       payload,
		CorrelationID: correlationID,
	}
}

// RevokeToken verifies tokenStr and denylists its token id for the
// remainder of the token's lifetime. Requires revocation to be enabled.
//
// RevokeToken may return an error when input validation, dependency calls, or security checks fail.
// RevokeToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) RevokeToken(ctx context.Context, tokenStr string) error {
	if e == nil || e.jwtManager == nil {
		return ErrEngineNotReady
	}
	if e.revocations == nil {
		return ErrRevocationUnavailable
	}

	claims, err := e.jwtManager.Parse(tokenStr)
	if err != nil {
		return ErrTokenInvalid
	}
	if claims.ID == "" {
		return ErrTokenInvalid
	}

	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}

	if err := e.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
		if errors.Is(err, revocation.ErrRedisUnavailable) {
			return ErrRevocationUnavailable
		}
		return err
	}

	e.metrics.Inc(MetricTokenRevoked)
	e.emitAudit(ctx, auditEventTokenRevoked, true, "", claims.Subject, Role(claims.Role), "", nil, func() map[string]string {
		return map[string]string{"token_id": claims.ID}
	})

	return nil
}

// GuardOutcome classifies how the HTTP middleware resolved a request. It
// exists so the middleware package can record observability without
// reaching into engine internals.
type GuardOutcome uint8

const (
	// GuardBypass is an exported constant or variable used by the authorization engine.
	GuardBypass GuardOutcome = iota + 1
	// GuardPassThrough is an exported constant or variable used by the authorization engine.
	GuardPassThrough
	// GuardRedirect is an exported constant or variable used by the authorization engine.
	GuardRedirect
	// GuardDenied is an exported constant or variable used by the authorization engine.
	GuardDenied
	// GuardFailOpen is an exported constant or variable used by the authorization engine.
	GuardFailOpen
)

// RecordGuardOutcome bumps the metric and audit trail for one middleware
// decision. Unknown outcomes are ignored.
//
// RecordGuardOutcome does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) RecordGuardOutcome(ctx context.Context, outcome GuardOutcome, path, correlationID, detail string) {
	if e == nil {
		return
	}

	var (
		metric MetricID
		event  string
		ok     = true
	)
	switch outcome {
	case GuardBypass:
		metric, event = MetricGuardBypass, auditEventGuardBypass
	case GuardPassThrough:
		metric, event = MetricGuardPassThrough, auditEventGuardPass
	case GuardRedirect:
		metric, event, ok = MetricGuardRedirect, auditEventGuardRedirect, false
	case GuardDenied:
		metric, event, ok = MetricGuardDenied, auditEventGuardDenied, false
	case GuardFailOpen:
		metric, event, ok = MetricGuardFailOpen, auditEventGuardFailOpen, false
	default:
		return
	}

	e.metrics.Inc(metric)

	var metadataBuilder func() map[string]string
	if detail != "" {
		metadataBuilder = func() map[string]string {
			return map[string]string{"detail": detail}
		}
	}
	e.emitAudit(ctx, event, ok, correlationID, "", "", path, nil, metadataBuilder)
}

// MetricsSnapshot returns a point-in-time copy of all engine counters.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports how many audit events were discarded because the
// dispatch buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// Close flushes buffered audit events and stops background goroutines. The
// engine must not be used after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

func payloadFromClaims(claims *jwt.AccessClaims, role Role) *TokenPayload {
	payload := &TokenPayload{
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    role,
		TokenID: claims.ID,
	}
	if claims.IssuedAt != nil {
		payload.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		payload.ExpiresAt = claims.ExpiresAt.Time
	}
	return payload
}
