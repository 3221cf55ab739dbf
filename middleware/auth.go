package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"concierge/models"
	"concierge/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CurrentUserKey is the gin context key holding the authenticated models.User.
const CurrentUserKey = "currentUser"

// UserLoader resolves a token subject to an active user.
type UserLoader interface {
	CurrentUser(ctx context.Context, id string) (*models.User, error)
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// JWTAuthMiddleware validates the Bearer token and puts the user on the context.
// Sessions are looked up in the Redis auth cache first; a miss, a stale entry or an
// unavailable cache falls back to the store and re-populates the cache.
func JWTAuthMiddleware(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(c, "Missing or invalid Authorization header")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil {
			unauthorized(c, "Invalid token")
			return
		}

		ctx := c.Request.Context()
		authCache := utils.GetAuthCacheClient()
		entry, err := utils.CachedAuthUser(ctx, authCache, tokenString)
		if err == nil && trustCached(entry, userID, time.Now()) {
			c.Set(CurrentUserKey, entry.User)
			c.Next()
			return
		}
		if err != nil && !errors.Is(err, utils.ErrAuthCacheMiss) {
			utils.LoggerFrom(c).Warn("Auth cache lookup failed, falling back to store", zap.Error(err))
		}

		user, err := users.CurrentUser(ctx, userID)
		if err != nil {
			unauthorized(c, "Authentication error")
			return
		}
		if err := utils.CacheAuthUser(ctx, authCache, tokenString, user, time.Now()); err != nil {
			utils.LoggerFrom(c).Warn("Failed to refresh auth cache", zap.String("userID", user.ID), zap.Error(err))
		}

		c.Set(CurrentUserKey, *user)
		c.Next()
	}
}

// trustCached accepts a cached session only while it is fresh and still describes an
// active user with the token's subject.
func trustCached(entry *utils.AuthEntry, userID string, now time.Time) bool {
	return entry != nil && entry.Fresh(now) && entry.User.ID == userID && entry.User.IsActive
}

// CurrentUser returns the user set by JWTAuthMiddleware.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
