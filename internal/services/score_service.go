package services

import (
	"context"

	"github.com/ajharbinger/score-api/internal/errors"
	"github.com/ajharbinger/score-api/internal/logger"
	"github.com/ajharbinger/score-api/internal/models"
	"github.com/ajharbinger/score-api/internal/repository"
)

// OperationRecorder observes store operation outcomes
type OperationRecorder interface {
	RecordSuccess(operation string)
	RecordFailure(operation string, err error)
}

type noopRecorder struct{}

func (noopRecorder) RecordSuccess(string)        {}
func (noopRecorder) RecordFailure(string, error) {}

// scoreService implements ScoreService
type scoreService struct {
	scores   repository.ScoreRepository
	logger   logger.Logger
	recorder OperationRecorder
}

// NewScoreService creates a score service over the given repository.
// log and recorder may be nil.
func NewScoreService(scores repository.ScoreRepository, log logger.Logger, recorder OperationRecorder) ScoreService {
	if log == nil {
		log = logger.NewDefault()
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &scoreService{
		scores:   scores,
		logger:   log,
		recorder: recorder,
	}
}

// Submit stores a new score. Identical values create separate rows.
// Failures are returned, not logged at error level; the request logger
// writes the single error line for the request.
func (s *scoreService) Submit(ctx context.Context, value int) (*models.Score, error) {
	score := &models.Score{Score: value}

	if err := s.scores.Create(ctx, score); err != nil {
		s.recorder.RecordFailure("Submit", err)
		s.logger.Debug("Failed to store score", "error", err.Error(), "score", value)
		return nil, errors.DatabaseError("failed to save score", err).WithOperation("Submit")
	}

	s.recorder.RecordSuccess("Submit")
	s.logger.Debug("Stored score", "id", score.ID, "score", score.Score)
	return score, nil
}

// Top10 returns the ten highest scores, ties ordered by insertion
func (s *scoreService) Top10(ctx context.Context) ([]models.Score, error) {
	scores, err := s.scores.Top(ctx, models.TopScoresLimit)
	if err != nil {
		s.recorder.RecordFailure("Top10", err)
		s.logger.Debug("Failed to retrieve top scores", "error", err.Error())
		return nil, errors.DatabaseError("failed to fetch scores", err).WithOperation("Top10")
	}
	s.recorder.RecordSuccess("Top10")

	if scores == nil {
		scores = []models.Score{}
	}
	return scores, nil
}
