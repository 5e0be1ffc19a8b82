package api

import (
	"net/http"
	"time"

	"github.com/Conversly/notion-converter/internal/types"
	"github.com/Conversly/notion-converter/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxRequestIDLength = 128

// RequestID reuses a well-formed inbound X-Request-ID or mints one, and echoes
// it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(utils.RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.New().String()
		}
		c.Set(utils.RequestIDKey, id)
		c.Header(utils.RequestIDHeader, id)
		c.Next()
	}
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("clientIp", c.ClientIP()),
			zap.String("requestId", utils.RequestID(c)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			utils.Zlog.Warn("Request completed", fields...)
			return
		}
		utils.Zlog.Info("Request completed", fields...)
	}
}

// Recovery answers a panic with a 500 in the usual error shape.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		utils.Zlog.Error("Recovered from panic",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("requestId", utils.RequestID(c)),
			zap.Stack("stack"))
		c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:     "Internal Server Error",
			Kind:      types.KindUpstreamFailure,
			Timestamp: time.Now().UTC(),
		})
	})
}

// validRequestID accepts up to maxRequestIDLength characters of
// [A-Za-z0-9._:-].
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		ch := id[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-', ch == '_', ch == '.', ch == ':':
		default:
			return false
		}
	}
	return true
}
