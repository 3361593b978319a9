package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"jobprep-backend/internal/shared/telemetry"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "requestId"
	maxRequestIDLen = 64
)

// RequestID reuses a caller supplied X-Request-Id when it is a short token of
// letters, digits, '-', '_' or '.', and otherwise assigns a fresh UUID. The id
// is stored on the gin context and echoed in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		inbound := c.GetHeader(requestIDHeader)
		id := inbound
		if !validRequestID(id) {
			id = uuid.NewString()
			if inbound != "" {
				telemetry.Warn("request.id_replaced", map[string]any{
					"request_id":  id,
					"inbound_len": len(inbound),
					"path":        c.Request.URL.Path,
				})
			}
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// RequestIDFromContext fetches the request ID stored by RequestID middleware.
func RequestIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(requestIDKey)
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
