// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL bounds how long a cached session is trusted before the user is re-read.
const AuthCacheTTL = time.Minute

// ReadStatePrefix prefixes the per-user hash of conversation read markers.
const ReadStatePrefix = "readstate:"

// Gin context keys set by the request logger.
const (
	LoggerKey    = "logger"
	RequestIDKey = "requestID"
)
