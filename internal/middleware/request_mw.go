package middleware

import (
	"time"

	"loan_portal/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

// RequestID tags every request with an id, reusing one sent by the client.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestIDFrom returns the id assigned by RequestID.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// AccessLog writes one structured line per request.
func AccessLog(log *logger.Logger) gin.HandlerFunc {
	log = log.With("middleware", "AccessLog")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		kv := []interface{}{
			"request_id", RequestIDFrom(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}
		switch {
		case status >= 500:
			log.Error("request", kv...)
		case status >= 400:
			log.Warn("request", kv...)
		default:
			log.Info("request", kv...)
		}
	}
}
