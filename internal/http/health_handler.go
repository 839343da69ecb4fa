package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PingFunc comprueba una dependencia externa.
type PingFunc func(ctx context.Context) error

type HealthHandler struct {
	logger *zap.Logger
	checks map[string]PingFunc
}

func NewHealthHandler(logger *zap.Logger, checks map[string]PingFunc) *HealthHandler {
	return &HealthHandler{logger: logger, checks: checks}
}

// Banner maneja GET /.
func (h *HealthHandler) Banner(c *gin.Context) {
	c.String(http.StatusOK, "Task Manager API is running")
}

// Live maneja GET /healthz.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready maneja GET /readyz consultando cada dependencia.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(gin.H, len(h.checks))
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			h.logger.Warn("readiness check failed", zap.String("dependency", name), zap.Error(err))
			results[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "unavailable"
	}
	c.JSON(status, gin.H{"status": overall, "checks": results})
}
