package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"jobprep-backend/internal/shared/telemetry"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		inbound  string
		keep     bool
		replaced bool
	}{
		{name: "generated when absent"},
		{name: "caller id reused", inbound: "req-123_abc.7", keep: true},
		{name: "header injection replaced", inbound: "abc\r\nX-Evil: 1", replaced: true},
		{name: "oversized replaced", inbound: strings.Repeat("a", 65), replaced: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			prev := telemetry.SetLogger(zap.New(core))
			defer telemetry.SetLogger(prev)

			var seen string
			router := gin.New()
			router.Use(RequestID())
			router.GET("/ping", func(c *gin.Context) {
				seen = RequestIDFromContext(c)
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.inbound != "" {
				req.Header.Set("X-Request-Id", tt.inbound)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			got := resp.Header().Get("X-Request-Id")
			assert.Equal(t, seen, got)
			if tt.keep {
				assert.Equal(t, tt.inbound, got)
			} else {
				_, err := uuid.Parse(got)
				require.NoError(t, err)
			}
			assert.Equal(t, tt.replaced, logs.FilterMessage("request.id_replaced").Len() == 1)
		})
	}
}
