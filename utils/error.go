package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every error the API returns.
type ErrorResponse struct {
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// LoggerFrom returns the request-scoped logger, or the global one outside a request.
func LoggerFrom(c *gin.Context) *zap.Logger {
	if l, exists := c.Get(LoggerKey); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return GetLogger()
}

// ErrorHandler recovers panics raised by later handlers and answers with a structured 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				LoggerFrom(c).Error("Recovered from panic", zap.Any("panic", rec), zap.Stack("stack"))
				JSONError(c, http.StatusInternalServerError, "Internal Server Error",
					"An unexpected error occurred. Please try again later.")
			}
		}()
		c.Next()
	}
}

// JSONError aborts the request with an ErrorResponse. Server errors log at error level,
// client errors at warn.
func JSONError(c *gin.Context, status int, message string, details string) {
	logger := LoggerFrom(c).With(zap.Int("status", status), zap.String("details", details))
	if status >= http.StatusInternalServerError {
		logger.Error(message)
	} else {
		logger.Warn(message)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message, Details: details, RequestID: c.GetString(RequestIDKey)})
}
