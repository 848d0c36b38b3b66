package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"profile-service/internal/core/server"
)

// Pinger is a dependency checked by the ops /health endpoint.
type Pinger func(ctx context.Context) error

// NewOpsEngine serves /health and /metrics; it is meant for a private listener.
func NewOpsEngine(l *zap.Logger, checks map[string]Pinger) *gin.Engine {
	r := server.NewRouter(l)

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		report := gin.H{}
		for name, ping := range checks {
			if err := ping(ctx); err != nil {
				l.Warn("health check failed", zap.String("dep", name), zap.Error(err))
				report[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			report[name] = "up"
		}
		ok := 1
		if status != http.StatusOK {
			ok = 0
		}
		c.JSON(status, gin.H{"ok": ok, "deps": report})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
