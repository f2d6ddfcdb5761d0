package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hirehelp-backend/internal/applications"
	"hirehelp-backend/internal/evaluations"
	"hirehelp-backend/internal/jobs"
	"hirehelp-backend/internal/rounds"
	"hirehelp-backend/internal/shared/config"
	"hirehelp-backend/internal/shared/metrics"
	"hirehelp-backend/internal/shared/server/middleware"
	"hirehelp-backend/internal/shared/server/respond"
)

// RouterDeps carries the wired handlers the router exposes.
type RouterDeps struct {
	Config             config.Config
	JobHandler         *jobs.Handler
	ApplicationHandler *applications.Handler
	RoundHandler       *rounds.Handler
	EvaluationHandler  *evaluations.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	if deps.JobHandler != nil {
		deps.JobHandler.RegisterRoutes(api)
	}
	if deps.ApplicationHandler != nil {
		deps.ApplicationHandler.RegisterRoutes(api)
	}
	if deps.RoundHandler != nil {
		deps.RoundHandler.RegisterRoutes(api)
	}
	if deps.EvaluationHandler != nil {
		deps.EvaluationHandler.RegisterRoutes(api)
	}

	return r
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
