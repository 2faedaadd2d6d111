package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenStore_WithoutRedisTreatsEverythingAsMissing(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	assert.NoError(t, store.StoreRefreshToken(ctx, "id", testSubject, time.Minute))

	_, err := store.GetRefreshToken(ctx, "id")
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)

	assert.NoError(t, store.BlacklistAccessToken(ctx, "id", time.Minute))
	revoked, err := store.IsAccessTokenBlacklisted(ctx, "id")
	assert.NoError(t, err)
	assert.False(t, revoked)

	assert.NoError(t, store.DeleteRefreshToken(ctx, "id"))
}

func TestTokenStore_BlacklistSkipsExpiredTokens(t *testing.T) {
	store := NewTokenStore(nil)
	assert.NoError(t, store.BlacklistAccessToken(context.Background(), "id", -time.Second))
}
