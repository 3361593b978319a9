package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobprep-backend/internal/account"
	"jobprep-backend/internal/analyses"
	"jobprep-backend/internal/applies"
	"jobprep-backend/internal/documents"
	"jobprep-backend/internal/shared/config"
	"jobprep-backend/internal/shared/metrics"
	"jobprep-backend/internal/shared/server/middleware"
	"jobprep-backend/internal/shared/server/respond"
	"jobprep-backend/internal/usage"
)

const (
	apiPrefix   = "/api/v1"
	healthPath  = apiPrefix + "/health"
	metricsPath = "/metrics"

	rateGroupDefault = "DEFAULT"
	rateGroupRead    = "READ"
	rateGroupHeavy   = "HEAVY"
)

// RouterDeps holds handlers registered on the router. Nil handlers are skipped.
type RouterDeps struct {
	Config          config.Config
	DocumentHandler *documents.Handler
	AnalysisHandler *analyses.Handler
	ApplyHandler    *applies.Handler
	UsageHandler    *usage.Handler
	AccountHandler  *account.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Identity(healthPath, metricsPath),
		middleware.RateLimit(rateLimitConfig(deps.Config)),
	)

	r.GET(metricsPath, metrics.Handler())

	api := r.Group(apiPrefix)
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	registerMeRoutes(api)

	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(api)
	}
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}
	if deps.ApplyHandler != nil {
		deps.ApplyHandler.RegisterRoutes(api)
	}
	if deps.AccountHandler != nil {
		deps.AccountHandler.RegisterRoutes(api)
	}
	if deps.UsageHandler != nil {
		deps.UsageHandler.RegisterRoutes(api)
		if deps.Config.Env == "dev" || deps.Config.Env == "local" {
			deps.UsageHandler.RegisterDevRoutes(api.Group("/dev"))
		}
	}

	return r
}

// rateLimitConfig gives reads more headroom than writes; uploads and
// persisted analyses share the tightest bucket.
func rateLimitConfig(cfg config.Config) middleware.RateLimitConfig {
	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 10
	}
	return middleware.RateLimitConfig{
		DefaultGroup: rateGroupDefault,
		GroupFor:     rateGroupFor,
		Rules: map[string]middleware.RateLimitRule{
			rateGroupDefault: {Rate: rps, Burst: burst},
			rateGroupRead:    {Rate: rps * 2, Burst: burst * 2},
			rateGroupHeavy:   {Rate: rps / 2, Burst: burst},
		},
	}
}

func rateGroupFor(c *gin.Context) string {
	path := c.FullPath()
	switch {
	case path == healthPath || path == metricsPath:
		return "NONE"
	case c.Request.Method == http.MethodGet:
		return rateGroupRead
	case path == apiPrefix+"/documents",
		path == apiPrefix+"/analyses",
		path == apiPrefix+"/documents/:id/analyze":
		return rateGroupHeavy
	default:
		return rateGroupDefault
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
