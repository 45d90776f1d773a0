package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the context key for the request id.
	RequestIDKey = "request_id"
	// PathPrefixKey is the context key for the configured path prefix.
	PathPrefixKey = "path_prefix"
)

// Logger is a middleware that logs HTTP requests.
// Every request is tagged with an id, reused from X-Request-ID when the
// caller sent a valid UUID.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		method := c.Request.Method

		log.Printf("[%s] %s %s %d %v id=%s",
			method,
			path,
			c.ClientIP(),
			status,
			latency,
			requestID,
		)
	}
}

// PathPrefix is a middleware that stores the path prefix in the context.
func PathPrefix(prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(PathPrefixKey, prefix)
		c.Next()
	}
}

// GetPathPrefix returns the prefix stored by PathPrefix.
func GetPathPrefix(c *gin.Context) string {
	return c.GetString(PathPrefixKey)
}

// GetRequestID returns the id assigned by Logger.
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// cookiePath scopes cookies to the mounted prefix.
func cookiePath(c *gin.Context) string {
	if prefix := GetPathPrefix(c); prefix != "" {
		return prefix
	}
	return "/"
}
