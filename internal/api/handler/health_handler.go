package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coursegen/internal/config"
	"coursegen/internal/models"
	"coursegen/internal/service"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	cfg     *config.Config
	ping    service.PingFunc
	started time.Time
	now     func() time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cfg *config.Config, ping service.PingFunc) *HealthHandler {
	return &HealthHandler{cfg: cfg, ping: ping, started: time.Now(), now: time.Now}
}

// Check handles health check requests
// @Summary Health check
// @Description Report configuration and database reachability. Responds 503 when either check fails.
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /api/health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	start := h.now()
	env := h.cfg.CheckRequired()

	db := models.DatabaseCheck{}
	if h.ping != nil {
		if latency, err := h.ping(c.Request.Context()); err == nil {
			ms := latency.Milliseconds()
			db = models.DatabaseCheck{OK: true, LatencyMs: &ms}
		} else {
			log.Warn("Health check database ping failed", err)
		}
	}

	status, code := "ok", http.StatusOK
	if !env.OK || !db.OK {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	now := h.now()
	c.Header("Cache-Control", "no-store")
	c.JSON(code, models.HealthResponse{
		Status:         status,
		Timestamp:      now.UTC().Format(time.RFC3339),
		UptimeSec:      int64(now.Sub(h.started).Seconds()),
		Checks:         models.HealthChecks{Env: env, Database: db},
		ResponseTimeMs: now.Sub(start).Milliseconds(),
	})
}
