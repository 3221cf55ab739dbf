package utils

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"concierge/models"

	"github.com/go-redis/redis/v8"
)

// ErrAuthCacheMiss is returned when a token has no cached session.
var ErrAuthCacheMiss = errors.New("auth cache miss")

// AuthEntry is a cached session. Entries older than AuthCacheTTL are re-read from the
// store, so a deactivated or re-roled user loses cached access within that window.
type AuthEntry struct {
	User     models.User `json:"user"`
	CachedAt time.Time   `json:"cachedAt"`
}

// Fresh reports whether the entry may still be trusted at now.
func (e *AuthEntry) Fresh(now time.Time) bool {
	age := now.Sub(e.CachedAt)
	return age >= 0 && age < AuthCacheTTL
}

func authCacheKey(token string) string {
	return AuthCachePrefix + HashToken(token)
}

// CacheAuthUser stores the user behind token, keyed by the token hash.
// A nil client is a no-op so callers work without Redis.
func CacheAuthUser(ctx context.Context, client *redis.Client, token string, user *models.User, now time.Time) error {
	if client == nil {
		return nil
	}
	data, err := json.Marshal(AuthEntry{User: *user, CachedAt: now})
	if err != nil {
		return err
	}
	return client.Set(ctx, authCacheKey(token), data, AuthCacheTTL).Err()
}

// CachedAuthUser returns the cached session for token. The entry's TTL is not extended.
func CachedAuthUser(ctx context.Context, client *redis.Client, token string) (*AuthEntry, error) {
	if client == nil {
		return nil, ErrAuthCacheMiss
	}
	data, err := client.Get(ctx, authCacheKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrAuthCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var entry AuthEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
