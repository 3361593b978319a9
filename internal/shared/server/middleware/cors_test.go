package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	const app = "http://localhost:5173"

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantCORS   bool
	}{
		{name: "preflight from allowed origin", method: http.MethodOptions, origin: app, wantStatus: http.StatusNoContent, wantCORS: true},
		{name: "apply from allowed origin", method: http.MethodPost, origin: app, wantStatus: http.StatusCreated, wantCORS: true},
		{name: "unknown origin gets no headers", method: http.MethodPost, origin: "https://evil.example", wantStatus: http.StatusCreated},
		{name: "preflight from unknown origin is still answered", method: http.MethodOptions, origin: "https://evil.example", wantStatus: http.StatusNoContent},
		{name: "same-origin request", method: http.MethodPost, wantStatus: http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORS([]string{" " + app + " ", ""}))
			router.POST("/api/v1/analyses/:id/apply", func(c *gin.Context) {
				c.Status(http.StatusCreated)
			})
			router.OPTIONS("/api/v1/analyses/:id/apply", func(c *gin.Context) {
				c.Status(http.StatusTeapot)
			})

			req := httptest.NewRequest(tt.method, "/api/v1/analyses/a1/apply", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			assert.Equal(t, tt.wantStatus, resp.Code)
			h := resp.Header()
			if !tt.wantCORS {
				assert.Empty(t, h.Get("Access-Control-Allow-Origin"))
				return
			}
			assert.Equal(t, app, h.Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "Origin", h.Get("Vary"))
			assert.Contains(t, h.Get("Access-Control-Allow-Headers"), "X-Guest-Id")
			assert.Contains(t, h.Get("Access-Control-Allow-Headers"), "X-User-Id")
			assert.Contains(t, h.Get("Access-Control-Expose-Headers"), "Retry-After")
			assert.Equal(t, "600", h.Get("Access-Control-Max-Age"))
		})
	}
}
