package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBlacklistImmediateVisibility(t *testing.T) {
	store := NewMemoryTokenBlacklist(time.Hour)
	ctx := context.Background()

	revoked, err := store.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Blacklist(ctx, "jti-1", time.Hour))

	revoked, err = store.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestMemoryBlacklistIdempotent(t *testing.T) {
	store := NewMemoryTokenBlacklist(time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Blacklist(ctx, "jti-1", time.Hour))
	require.NoError(t, store.Blacklist(ctx, "jti-1", time.Hour))

	revoked, err := store.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestMemoryBlacklistAllForUser(t *testing.T) {
	store := NewMemoryTokenBlacklist(time.Hour)
	ctx := context.Background()

	require.NoError(t, store.RegisterIssued(ctx, "u1", "jti-1", time.Hour))
	require.NoError(t, store.RegisterIssued(ctx, "u1", "jti-2", time.Hour))
	require.NoError(t, store.RegisterIssued(ctx, "u2", "jti-3", time.Hour))

	require.NoError(t, store.BlacklistAllForUser(ctx, "u1"))

	for _, tokenID := range []string{"jti-1", "jti-2"} {
		revoked, err := store.IsBlacklisted(ctx, tokenID)
		require.NoError(t, err)
		assert.True(t, revoked, tokenID)
	}

	revoked, err := store.IsBlacklisted(ctx, "jti-3")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryBlacklistAllForUserUnknownUser(t *testing.T) {
	store := NewMemoryTokenBlacklist(time.Hour)
	assert.NoError(t, store.BlacklistAllForUser(context.Background(), "nobody"))
}

func TestMemoryBlacklistEntriesExpire(t *testing.T) {
	store := NewMemoryTokenBlacklist(time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Blacklist(ctx, "jti-1", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	revoked, err := store.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryBlacklistShortIssuanceDoesNotShadowLongerTokens(t *testing.T) {
	store := NewMemoryTokenBlacklist(time.Hour)
	ctx := context.Background()

	// A long-lived token followed by a short-lived one; once the short one
	// expires, bulk revocation must still reach the long-lived token.
	require.NoError(t, store.RegisterIssued(ctx, "u1", "jti-long", time.Hour))
	require.NoError(t, store.RegisterIssued(ctx, "u1", "jti-short", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	require.NoError(t, store.BlacklistAllForUser(ctx, "u1"))

	revoked, err := store.IsBlacklisted(ctx, "jti-long")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestMemoryBlacklistSkipsExpiredIssuedTokens(t *testing.T) {
	store := NewMemoryTokenBlacklist(time.Hour)
	ctx := context.Background()

	require.NoError(t, store.RegisterIssued(ctx, "u1", "jti-old", time.Millisecond))
	require.NoError(t, store.RegisterIssued(ctx, "u1", "jti-live", time.Hour))
	time.Sleep(5 * time.Millisecond)

	require.NoError(t, store.BlacklistAllForUser(ctx, "u1"))

	revoked, err := store.IsBlacklisted(ctx, "jti-old")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = store.IsBlacklisted(ctx, "jti-live")
	require.NoError(t, err)
	assert.True(t, revoked)
}
