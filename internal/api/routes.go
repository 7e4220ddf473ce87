package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterOptions toggles optional routes.
type RouterOptions struct {
	MetricsPath string // empty disables the Prometheus endpoint
}

func SetupRoutes(handler *Handler, logger *zap.Logger, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(logger), PrometheusMiddleware(), gin.Recovery())

	r.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "NOT_FOUND", "route not found")
	})

	// Health check
	r.GET("/health", handler.Health)

	// Alert intake and queries
	r.POST("/alerts", handler.ReceiveAlert)
	r.GET("/alerts/:severity", handler.AlertsBySeverity)
	r.GET("/alerts-history", handler.AlertsHistory)
	r.GET("/stats", handler.Stats)

	if opts.MetricsPath != "" {
		r.GET(opts.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	return r
}
