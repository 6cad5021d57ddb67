// Package rest exposes the stress estimator over HTTP/JSON.
package rest

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig configures the HTTP router.
type RouterConfig struct {
	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler http.Handler
	AllowedOrigins []string
}

// NewRouter builds the gin engine with middleware and all routes registered.
func NewRouter(
	predictions *PredictionHandler,
	health *HealthHandler,
	cfg RouterConfig,
	logger *slog.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware(), LoggingMiddleware(logger))

	if corsMW := newCORS(cfg.AllowedOrigins); corsMW != nil {
		r.Use(corsMW)
	}

	predictions.RegisterRoutes(r)
	health.RegisterRoutes(r)

	if cfg.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	return r
}

func newCORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return nil
	}

	cc := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{PredictionIDHeader, RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cors.New(cc)
}
