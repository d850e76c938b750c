package services

import (
	"context"

	"github.com/ajharbinger/score-api/internal/logger"
	"github.com/ajharbinger/score-api/internal/models"
	"github.com/ajharbinger/score-api/internal/repository"
)

// Services contains all application services
type Services struct {
	Score ScoreService
}

// ScoreService defines the interface for leaderboard business logic
type ScoreService interface {
	Submit(ctx context.Context, score int) (*models.Score, error)
	Top10(ctx context.Context) ([]models.Score, error)
}

// NewServices creates a new Services instance with all dependencies
func NewServices(repos *repository.Repositories, log logger.Logger, recorder OperationRecorder) *Services {
	return &Services{
		Score: NewScoreService(repos.Score, log, recorder),
	}
}
