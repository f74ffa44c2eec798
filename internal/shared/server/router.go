package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/auth"
	"resume-builder/internal/draft"
	"resume-builder/internal/export"
	"resume-builder/internal/resumes"
	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/summarize"
	"resume-builder/internal/users"
)

const (
	apiPrefix       = "/api/v1"
	summarizePrefix = "/api/summarize"
)

// RouterDeps contains handler dependencies for routing.
type RouterDeps struct {
	Config           config.Config
	Tokens           middleware.TokenVerifier
	Health           *health.Service
	DraftHandler     *draft.Handler
	ExportHandler    *export.Handler
	SummarizeHandler *summarize.Handler
	AuthHandler      *auth.Handler
	GoogleAuth       *auth.GoogleProvider
	UsersHandler     *users.Handler
	ResumesHandler   *resumes.Handler
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
		corsFor(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	// The summarize proxy keeps its own open CORS policy and needs no identity.
	if deps.SummarizeHandler != nil {
		deps.SummarizeHandler.RegisterRoutes(r.Group("/api"))
	}

	api := r.Group(apiPrefix)
	api.Use(
		middleware.Auth(deps.Tokens, apiPrefix+"/health", apiPrefix+"/auth/", apiPrefix+"/files/"),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    rateLimitRules,
			GroupFor: middleware.GroupByRoute(rateLimitRoutes),
		}),
	)

	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		status, ok := deps.Health.Status(c.Request.Context())
		if !ok {
			respond.JSON(c, http.StatusServiceUnavailable, status)
			return
		}
		respond.JSON(c, http.StatusOK, status)
	})

	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterRoutes(api)
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(api)
	}
	if deps.DraftHandler != nil {
		deps.DraftHandler.RegisterRoutes(api)
	}
	if deps.ExportHandler != nil {
		deps.ExportHandler.RegisterRoutes(api)
	}
	if deps.ResumesHandler != nil {
		deps.ResumesHandler.RegisterRoutes(api)
		deps.ResumesHandler.RegisterFileRoutes(api)
	}

	return r
}

var rateLimitRoutes = map[string]string{
	"POST " + apiPrefix + "/auth/signup":   "AUTH",
	"POST " + apiPrefix + "/auth/signin":   "AUTH",
	"POST " + apiPrefix + "/draft/summary": "SUMMARY",
	"POST " + apiPrefix + "/export":        "EXPORT",
}

var rateLimitRules = map[string]middleware.RateLimitRule{
	"AUTH":    {Rate: 0.2, Burst: 5},
	"SUMMARY": {Rate: 0.5, Burst: 3},
	"EXPORT":  {Rate: 1, Burst: 5},
}

// corsFor applies the open policy to the summarize proxy and the origin
// allow-list everywhere else.
func corsFor(origins []string) gin.HandlerFunc {
	open := middleware.OpenCORS()
	listed := middleware.CORS(origins)
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, summarizePrefix) {
			open(c)
			return
		}
		listed(c)
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
