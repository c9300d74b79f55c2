package router

import (
	"github.com/gin-gonic/gin"

	"soilviz/internal/config"
	"soilviz/internal/handler"
	"soilviz/internal/middleware"
	"soilviz/internal/observability"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	interpH *handler.InterpolationHandler,
	healthH *handler.HealthHandler,
	metrics *observability.Metrics,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks and metrics
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Generated overlay artifacts
	r.Static("/output", cfg.Output.Dir)

	v1 := r.Group("/api/v1")
	v1.POST("/interpolate", interpH.Interpolate)

	return r
}
