package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/avolkova/clouddisk/internal/shared/id"
)

// requestIDKey is the gin context key holding the request ID.
const requestIDKey = "request.id"

// requestIDHeader carries the request ID on the wire, inbound and outbound.
const requestIDHeader = "X-Request-ID"

// RequestID creates a middleware that tags every request with a correlation
// ID. An inbound X-Request-ID is honored so callers can trace their own
// requests; otherwise a fresh one is generated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = string(id.NewRequestID())
		}
		c.Set(requestIDKey, rid)
		c.Header(requestIDHeader, rid)
		c.Next()
	}
}

// RequestIDFrom returns the correlation ID set by RequestID, or "".
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
