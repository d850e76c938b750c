package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ajharbinger/score-api/internal/database"
	"github.com/ajharbinger/score-api/internal/health"
)

// HealthChecker is the part of the database the health endpoint needs
type HealthChecker interface {
	HealthCheckContext(ctx context.Context) error
	GetStats() database.PoolStats
}

// HealthHandler reports database readiness and recent store behaviour
type HealthHandler struct {
	db      HealthChecker
	monitor *health.Monitor
}

// NewHealthHandler creates a new health handler. monitor may be nil.
func NewHealthHandler(db HealthChecker, monitor *health.Monitor) *HealthHandler {
	return &HealthHandler{db: db, monitor: monitor}
}

// GetHealth pings the database and reports pool and store statistics.
// A reachable database with a failing store is reported as degraded.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.HealthCheckContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unavailable",
			"timestamp": time.Now(),
		})
		return
	}

	response := gin.H{
		"status":    "ok",
		"database":  h.db.GetStats(),
		"timestamp": time.Now(),
	}

	if h.monitor != nil {
		store := h.monitor.Status()
		response["store"] = store
		if !store.IsHealthy {
			response["status"] = "degraded"
		}
	}

	c.JSON(http.StatusOK, response)
}
