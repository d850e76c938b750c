package repository

import (
	"context"

	"github.com/ajharbinger/score-api/internal/models"
)

// ScoreRepository defines the interface for score data access
type ScoreRepository interface {
	// Create inserts a new score and sets its generated ID
	Create(ctx context.Context, score *models.Score) error
	// Top returns at most limit scores, highest first. Ties keep insertion order.
	Top(ctx context.Context, limit int) ([]models.Score, error)
}

// Repositories groups all repository interfaces
type Repositories struct {
	Score ScoreRepository
}
