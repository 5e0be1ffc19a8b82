package utils

import "github.com/gin-gonic/gin"

const (
	RequestIDKey    = "requestId"
	RequestIDHeader = "X-Request-ID"
)

// RequestID returns the id the request id middleware stored on the context.
func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
