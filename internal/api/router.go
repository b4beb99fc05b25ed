package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/youruser/vcardapp/internal/api/middleware"
	"github.com/youruser/vcardapp/internal/metrics"
)

// NewRouter builds the engine with recovery, correlation ids, request
// logging and metrics, and exposes /metrics.
func NewRouter(logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.CorrelationIDMiddleware(),
		middleware.SlogLoggerMiddleware(logger),
		metrics.GinMiddleware(),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
