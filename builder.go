package webguard

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/arinellipar/webguard/internal/rate"
	"github.com/arinellipar/webguard/jwt"
	"github.com/arinellipar/webguard/revocation"
)

// Builder assembles an [Engine]. It is not safe for concurrent use and is
// consumed by [Builder.Build].
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config    Config
	redis     redis.UniversalClient
	auditSink AuditSink
	built     bool
}

// New returns a [Builder] seeded with [DefaultConfig].
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the builder's configuration wholesale. The secret is
// copied so the caller may zero its slice afterwards.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis supplies the Redis client backing revocation and throttling.
// Required when either feature is enabled.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuditSink sets the destination for audit events. Ignored unless
// auditing is enabled in the configuration.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles counter collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the Authorize latency histogram. Has no
// effect unless metrics are enabled.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and constructs the [Engine]. A Builder
// can build at most once.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already consumed")
	}
	b.built = true

	if err := validateConfig(b.config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	manager, err := jwt.NewManager(jwt.Config{
		Secret:       b.config.JWT.Secret,
		AccessTTL:    b.config.JWT.AccessTTL,
		Issuer:       b.config.JWT.Issuer,
		Leeway:       b.config.JWT.Leeway,
		RequireIAT:   b.config.JWT.RequireIAT,
		MaxFutureIAT: b.config.JWT.MaxFutureIAT,
	})
	if err != nil {
		return nil, fmt.Errorf("jwt manager: %w", err)
	}

	engine := &Engine{
		config:     b.config,
		jwtManager: manager,
		metrics:    NewMetrics(b.config.Metrics),
	}

	if b.config.Revocation.Enabled {
		if b.redis == nil {
			return nil, errors.New("revocation enabled but no redis client provided")
		}
		engine.revocations = revocation.NewStore(b.redis, b.config.Revocation.RedisPrefix)
	}

	if b.config.Throttle.Enabled {
		if b.redis == nil {
			return nil, errors.New("throttle enabled but no redis client provided")
		}
		engine.throttle = rate.New(b.redis, rate.Config{
			MaxFailures: b.config.Throttle.MaxFailures,
			Cooldown:    b.config.Throttle.Cooldown,
		})
	}

	if b.config.Audit.Enabled {
		engine.audit = newAuditDispatcher(b.config.Audit, b.auditSink)
	}

	return engine, nil
}

// IssueToken signs an access token for the given identity using the
// engine's codec. Exposed mainly for tests, examples, and tooling; real
// deployments usually issue tokens from a dedicated auth service sharing
// the same secret.
//
// IssueToken may return an error when input validation, dependency calls, or security checks fail.
// IssueToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) IssueToken(subject, email string, role Role) (string, error) {
	if e == nil || e.jwtManager == nil {
		return "", ErrEngineNotReady
	}
	if !role.Valid() {
		return "", ErrInvalidRole
	}
	return e.jwtManager.Issue(subject, email, string(role))
}
