package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobprep-backend/internal/shared/server/middleware"
	"jobprep-backend/internal/shared/server/respond"
)

// registerMeRoutes attaches the /me endpoint.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

// meHandler echoes the identity the request was scoped to.
func meHandler(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"userId":  userID,
		"isGuest": middleware.IsGuest(c),
	})
}
