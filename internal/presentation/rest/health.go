package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Readiness describes the loaded model for the readiness probe.
type Readiness struct {
	ModelKind      string
	Revision       string
	FeatureColumns []string
}

// HealthHandler provides HTTP health check endpoints for stressd.
type HealthHandler struct {
	started   time.Time
	readiness Readiness
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(readiness Readiness) *HealthHandler {
	return &HealthHandler{
		started:   time.Now(),
		readiness: readiness,
	}
}

type healthResponse struct {
	Status        string  `json:"status"`
	Service       string  `json:"service"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

type readyResponse struct {
	Status         string   `json:"status"`
	Service        string   `json:"service"`
	ModelKind      string   `json:"model_kind"`
	Revision       string   `json:"revision"`
	FeatureColumns []string `json:"feature_columns"`
}

// RegisterRoutes registers the health check routes on the given router.
func (h *HealthHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/healthz", h.Health)
	r.GET("/readyz", h.Ready)
}

// Health is the liveness probe endpoint.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:        "UP",
		Service:       "stressd",
		UptimeSeconds: time.Since(h.started).Seconds(),
	})
}

// Ready is the readiness probe endpoint. The service refuses to start
// without a model, so a running process is always ready.
func (h *HealthHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, readyResponse{
		Status:         "READY",
		Service:        "stressd",
		ModelKind:      h.readiness.ModelKind,
		Revision:       h.readiness.Revision,
		FeatureColumns: h.readiness.FeatureColumns,
	})
}
