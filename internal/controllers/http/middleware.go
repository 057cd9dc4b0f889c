package http

import (
	"net/http"
	"strings"
	"time"

	"dealer-console/internal/infra"
	"dealer-console/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ctxRequestID    = "request_id"
	ctxCapabilities = "capabilities"
)

// Logger writes one line per request, at warn for 4xx and error for 5xx.
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(ctxRequestID)),
		}
		if caps, ok := capabilitiesOf(c); ok {
			fields = append(fields, zap.Uint64("user_id", caps.UserID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			logger.Error("server error", fields...)
		case status >= 400:
			logger.Warn("client error", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

// RequestID reuses the caller's X-Request-ID or mints one, and forwards it to
// the backends.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(infra.HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Writer.Header().Set(infra.HeaderRequestID, id)
		c.Request = c.Request.WithContext(infra.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// streamPath is the only route that accepts the token as a query parameter;
// EventSource cannot send headers.
const streamPath = "/api/notifications/stream"

// Auth resolves the caller's capabilities from the bearer token.
func Auth(parser *session.Parser) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
			token = strings.TrimSpace(parts[1])
		}
		if token == "" && c.FullPath() == streamPath {
			token = c.Query("token")
		}
		if token == "" {
			fail(c, http.StatusUnauthorized, CodeUnauthorized, "authorization is required", nil)
			c.Abort()
			return
		}

		caps, err := parser.Parse(token)
		if err != nil {
			fail(c, http.StatusUnauthorized, CodeUnauthorized, "invalid or expired token", nil)
			c.Abort()
			return
		}
		c.Set(ctxCapabilities, caps)
		c.Request = c.Request.WithContext(infra.WithToken(c.Request.Context(), token))
		c.Next()
	}
}

func capabilitiesOf(c *gin.Context) (session.Capabilities, bool) {
	v, ok := c.Get(ctxCapabilities)
	if !ok {
		return session.Capabilities{}, false
	}
	caps, ok := v.(session.Capabilities)
	return caps, ok
}

func capabilities(c *gin.Context) session.Capabilities {
	caps, _ := capabilitiesOf(c)
	return caps
}
