// File: utils/cache.go
package utils

import (
	"context"
	"time"

	"concierge/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var (
	// AuthCacheClient is the dedicated client for authorization caching.
	AuthCacheClient *redis.Client
	// ReadStateClient stores per-user conversation read markers.
	ReadStateClient *redis.Client
)

func newRedisClient(db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
}

// pingOrNil returns the client when Redis answers, otherwise nil so callers fall back.
func pingOrNil(client *redis.Client, name string) *redis.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		GetLogger().Warn("Redis unavailable, falling back", zap.String("client", name), zap.Error(err))
		_ = client.Close()
		return nil
	}
	return client
}

// InitAuthCache initializes the Redis client for authorization caching.
func InitAuthCache() {
	AuthCacheClient = pingOrNil(newRedisClient(config.AppConfig.RedisAuthDB), "auth")
}

// GetAuthCacheClient returns the Redis client for authorization caching, or nil when Redis is down.
func GetAuthCacheClient() *redis.Client {
	return AuthCacheClient
}

// InitReadStateCache initializes the Redis client holding conversation read markers.
func InitReadStateCache() {
	ReadStateClient = pingOrNil(newRedisClient(config.AppConfig.RedisReadStateDB), "readstate")
}

// GetReadStateClient returns the read-marker client, or nil when Redis is down.
func GetReadStateClient() *redis.Client {
	return ReadStateClient
}

// RedisClients lists the live clients for health monitoring.
func RedisClients() []*redis.Client {
	var clients []*redis.Client
	for _, c := range []*redis.Client{AuthCacheClient, ReadStateClient} {
		if c != nil {
			clients = append(clients, c)
		}
	}
	return clients
}
