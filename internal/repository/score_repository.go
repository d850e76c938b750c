package repository

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/ajharbinger/score-api/internal/models"
)

// scoreRepository implements ScoreRepository on bun
type scoreRepository struct {
	db bun.IDB
}

// NewScoreRepository creates a new score repository. db may be a *bun.DB or a bun.Tx.
func NewScoreRepository(db bun.IDB) ScoreRepository {
	return &scoreRepository{db: db}
}

// NewRepositories creates a new repository collection
func NewRepositories(db bun.IDB) *Repositories {
	return &Repositories{
		Score: NewScoreRepository(db),
	}
}

// Create inserts a score row; Postgres assigns the id via RETURNING
func (r *scoreRepository) Create(ctx context.Context, score *models.Score) error {
	if score == nil {
		return fmt.Errorf("failed to create score: nil score")
	}

	_, err := r.db.NewInsert().
		Model(score).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create score: %w", err)
	}

	return nil
}

// Top retrieves the highest scores
func (r *scoreRepository) Top(ctx context.Context, limit int) ([]models.Score, error) {
	scores := make([]models.Score, 0, max(limit, 0))
	if limit <= 0 {
		return scores, nil
	}

	err := r.db.NewSelect().
		Model(&scores).
		Order("score DESC", "id ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query top scores: %w", err)
	}

	return scores, nil
}
