package handler

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"soilviz/internal/config"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	cfg *config.Config
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
//
// Ready means the interpolation script and the staging and output directories
// are all present on disk.
func (h *HealthHandler) Readiness(c *gin.Context) {
	paths := []string{h.cfg.Staging.Dir, h.cfg.Output.Dir}
	if h.cfg.Interp.Script != "" {
		paths = append(paths, h.cfg.Interp.Script)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
