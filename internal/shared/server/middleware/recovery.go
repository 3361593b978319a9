package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"jobprep-backend/internal/shared/metrics"
	"jobprep-backend/internal/shared/server/respond"
	"jobprep-backend/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 error envelope. The panic is
// logged with the caller's identity and counted per route. When the handler
// already started the response only the status is recorded.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			metrics.IncPanicRecovered(route)
			telemetry.Error("panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"user_id":    UserIDFromContext(c),
				"is_guest":   IsGuest(c),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
				"route":      route,
				"panic":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
		}()
		c.Next()
	}
}
