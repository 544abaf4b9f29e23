// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

package oauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mgirard/praxia/internal/platform/constants"
)

// stateTTL bounds how long a started OAuth flow stays completable.
const stateTTL = 10 * time.Minute

// ErrStateMismatch reports a callback whose state was never issued, already
// consumed, or expired.
var ErrStateMismatch = errors.New("oauth state mismatch")

// StateStore keeps one-time CSRF state values for in-flight OAuth flows.
type StateStore interface {
	// Save registers a freshly issued state value.
	Save(ctx context.Context, state string) error

	// Consume validates and atomically invalidates a state value, so each
	// issued state completes at most one callback.
	Consume(ctx context.Context, state string) error
}

// RedisStateStore implements [StateStore] on Redis with per-entry TTLs.
type RedisStateStore struct {
	client *redis.Client
}

// NewStateStore creates a Redis-backed state store.
func NewStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client}
}

// Save stores the state under its namespaced key with the flow TTL.
func (store *RedisStateStore) Save(ctx context.Context, state string) error {
	key := constants.RedisPrefixOAuthState + state
	if err := store.client.Set(ctx, key, "1", stateTTL).Err(); err != nil {
		return fmt.Errorf("oauth_state_save_failed: %w", err)
	}
	return nil
}

// Consume removes the state in a single round trip. GETDEL makes validation
// and invalidation atomic, closing the replay window between them.
func (store *RedisStateStore) Consume(ctx context.Context, state string) error {
	key := constants.RedisPrefixOAuthState + state
	err := store.client.GetDel(ctx, key).Err()
	if errors.Is(err, redis.Nil) {
		return ErrStateMismatch
	}
	if err != nil {
		return fmt.Errorf("oauth_state_consume_failed: %w", err)
	}
	return nil
}
