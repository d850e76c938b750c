package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ajharbinger/score-api/internal/database"
	"github.com/ajharbinger/score-api/internal/errors"
	"github.com/ajharbinger/score-api/internal/health"
	"github.com/ajharbinger/score-api/internal/logger"
	"github.com/ajharbinger/score-api/internal/repository"
	"github.com/ajharbinger/score-api/internal/services"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, db *database.DB, log logger.Logger) error {
	if db == nil {
		return errors.InternalError("database is required", nil).WithOperation("SetupRoutes")
	}

	monitor := health.NewMonitor()
	repos := repository.NewRepositories(db.ORM())
	svcs := services.NewServices(repos, log, monitor)

	RegisterScoreRoutes(r, NewScoreHandler(svcs.Score))
	RegisterHealthRoutes(r, NewHealthHandler(db, monitor))

	return nil
}

// RegisterScoreRoutes mounts the leaderboard endpoints
func RegisterScoreRoutes(r gin.IRouter, h *ScoreHandler) {
	api := r.Group("/api")
	{
		api.POST("/scores", h.SubmitScore)
		api.GET("/scores", h.GetTopScores)
	}
}

// RegisterHealthRoutes mounts the health endpoint
func RegisterHealthRoutes(r gin.IRouter, h *HealthHandler) {
	r.GET("/health", h.GetHealth)
}
