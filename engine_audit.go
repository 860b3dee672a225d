package webguard

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventAuthzSuccess   = "authz_success"
	auditEventAuthzDenied    = "authz_denied"
	auditEventAuthzThrottled = "authz_throttled"
	auditEventAuthzError     = "authz_error"
	auditEventTokenRevoked   = "token_revoked"
	auditEventGuardBypass    = "guard_bypass"
	auditEventGuardPass      = "guard_pass"
	auditEventGuardRedirect  = "guard_redirect"
	auditEventGuardDenied    = "guard_denied"
	auditEventGuardFailOpen  = "guard_fail_open"
)

// AuditErrorCode defines a public type used by webguard APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrInvalidToken           AuditErrorCode = "invalid_token"
	auditErrTokenRevoked           AuditErrorCode = "token_revoked"
	auditErrInsufficientPrivileges AuditErrorCode = "insufficient_privileges"
	auditErrAuthRequired           AuditErrorCode = "authentication_required"
	auditErrThrottled              AuditErrorCode = "throttled"
	auditErrInvalidRole            AuditErrorCode = "invalid_role"
	auditErrUnavailable            AuditErrorCode = "backend_unavailable"
	auditErrInternal               AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	correlationID string,
	subject string,
	role Role,
	path string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp:     time.Now().UTC(),
		EventType:     eventType,
		CorrelationID: correlationID,
		Subject:       subject,
		Role:          string(role),
		Path:          path,
		IP:            clientIPFromContext(ctx),
		Success:       success,
		Metadata:      metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrTokenInvalid):
		return auditErrInvalidToken
	case errors.Is(err, ErrTokenRevoked):
		return auditErrTokenRevoked
	case errors.Is(err, ErrInsufficientPrivileges):
		return auditErrInsufficientPrivileges
	case errors.Is(err, ErrAuthenticationRequired):
		return auditErrAuthRequired
	case errors.Is(err, ErrAuthThrottled):
		return auditErrThrottled
	case errors.Is(err, ErrInvalidRole):
		return auditErrInvalidRole
	case errors.Is(err, ErrRevocationUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
