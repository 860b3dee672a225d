package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is an exported constant or variable used by the authorization engine.
var ErrRedisUnavailable = errors.New("redis unavailable")

const minRevocationTTL = time.Second

// Store is the jti denylist. Safe for concurrent use.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a denylist [Store] backed by the given Redis client.
func NewStore(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "wg"
	}
	return &Store{
		redis:  client,
		prefix: prefix,
	}
}

// Revoke denylists a token id until ttl elapses. The ttl should be the
// remaining lifetime of the token; entries for already-expired tokens are
// clamped to a minimal TTL rather than written unbounded.
func (s *Store) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" {
		return errors.New("empty token id")
	}
	if ttl < minRevocationTTL {
		ttl = minRevocationTTL
	}

	if err := s.redis.Set(ctx, s.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// IsRevoked reports whether a token id is denylisted.
func (s *Store) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		// Tokens without a jti predate revocation support; treat as revoked
		// in strict mode rather than unverifiable.
		return true, nil
	}

	n, err := s.redis.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n > 0, nil
}

func (s *Store) key(tokenID string) string {
	return s.prefix + ":rv:" + tokenID
}
