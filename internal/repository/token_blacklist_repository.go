package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklistRepository tracks revoked token ids. Entries expire with
// the token's remaining lifetime so the blacklist never outgrows the set of
// tokens that could still be presented.
//
// Lookup errors propagate to the caller; the authorization middleware
// treats them as deny.
type TokenBlacklistRepository interface {
	// RegisterIssued records a live token id under its user, enabling
	// BlacklistAllForUser. ttl is the token's full lifetime.
	RegisterIssued(ctx context.Context, userID, tokenID string, ttl time.Duration) error
	// Blacklist marks a token id revoked. Idempotent.
	Blacklist(ctx context.Context, tokenID string, ttl time.Duration) error
	// BlacklistAllForUser revokes every live token id registered for the user.
	BlacklistAllForUser(ctx context.Context, userID string) error
	// IsBlacklisted reports whether the token id has been revoked.
	IsBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

const (
	blacklistKeyPrefix = "auth:blacklist:"
	userTokensPrefix   = "auth:user_tokens:"
)

type redisTokenBlacklist struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// NewRedisTokenBlacklist returns a Redis-backed implementation. defaultTTL
// bounds entries whose exact remaining lifetime is unknown (bulk revocation);
// it should be at least the longest token lifetime in use.
func NewRedisTokenBlacklist(client *redis.Client, defaultTTL time.Duration) TokenBlacklistRepository {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &redisTokenBlacklist{client: client, defaultTTL: defaultTTL}
}

func (r *redisTokenBlacklist) RegisterIssued(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.defaultTTL
	}
	key := userTokensPrefix + userID
	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, key, tokenID)
	// The index must outlive its longest-lived member. A short-lived
	// issuance after a long-lived one must not shrink the TTL, so only
	// ever extend it.
	pipe.ExpireNX(ctx, key, ttl)
	pipe.ExpireGT(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *redisTokenBlacklist) Blacklist(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.defaultTTL
	}
	return r.client.Set(ctx, blacklistKeyPrefix+tokenID, "1", ttl).Err()
}

func (r *redisTokenBlacklist) BlacklistAllForUser(ctx context.Context, userID string) error {
	key := userTokensPrefix + userID
	tokenIDs, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	for _, tokenID := range tokenIDs {
		pipe.Set(ctx, blacklistKeyPrefix+tokenID, "1", r.defaultTTL)
	}
	pipe.Del(ctx, key)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisTokenBlacklist) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	count, err := r.client.Exists(ctx, blacklistKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// memoryTokenBlacklist keeps revocations in process memory. Used when no
// Redis is configured (single-instance development) and in tests.
type memoryTokenBlacklist struct {
	mu         sync.Mutex
	revoked    map[string]time.Time
	userTokens map[string]map[string]time.Time
	defaultTTL time.Duration
}

// NewMemoryTokenBlacklist returns an in-memory implementation.
func NewMemoryTokenBlacklist(defaultTTL time.Duration) TokenBlacklistRepository {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &memoryTokenBlacklist{
		revoked:    make(map[string]time.Time),
		userTokens: make(map[string]map[string]time.Time),
		defaultTTL: defaultTTL,
	}
}

func (m *memoryTokenBlacklist) RegisterIssued(_ context.Context, userID, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tokens, ok := m.userTokens[userID]
	if !ok {
		tokens = make(map[string]time.Time)
		m.userTokens[userID] = tokens
	}
	tokens[tokenID] = time.Now().Add(ttl)
	return nil
}

func (m *memoryTokenBlacklist) Blacklist(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = time.Now().Add(ttl)
	return nil
}

func (m *memoryTokenBlacklist) BlacklistAllForUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for tokenID, expiresAt := range m.userTokens[userID] {
		if expiresAt.After(now) {
			m.revoked[tokenID] = expiresAt
		}
	}
	delete(m.userTokens, userID)
	return nil
}

func (m *memoryTokenBlacklist) IsBlacklisted(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiresAt, ok := m.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiresAt) {
		delete(m.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
