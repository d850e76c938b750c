package api

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajharbinger/score-api/internal/errors"
	"github.com/ajharbinger/score-api/internal/services"
)

// Fixed failure bodies. Callers never see error details.
const (
	errSavingScore    = "Error saving score"
	errFetchingScores = "Error fetching scores"
)

// ScoreHandler serves the leaderboard endpoints
type ScoreHandler struct {
	scoreService services.ScoreService
}

// NewScoreHandler creates a new score handler with service injection
func NewScoreHandler(scoreService services.ScoreService) *ScoreHandler {
	return &ScoreHandler{
		scoreService: scoreService,
	}
}

// submitScoreRequest is the POST body. Score is a pointer so a missing field
// can be told apart from zero; float64 accepts integers written as 42.0 or 1e2.
type submitScoreRequest struct {
	Score *float64 `json:"score"`
}

// SubmitScore stores a score and returns the created record
func (h *ScoreHandler) SubmitScore(c *gin.Context) {
	value, appErr := readScore(c)
	if appErr != nil {
		h.fail(c, errSavingScore, appErr.WithOperation("SubmitScore"))
		return
	}

	score, err := h.scoreService.Submit(c.Request.Context(), value)
	if err != nil {
		h.fail(c, errSavingScore, err)
		return
	}

	c.JSON(http.StatusOK, score)
}

// GetTopScores returns the ten highest scores
func (h *ScoreHandler) GetTopScores(c *gin.Context) {
	scores, err := h.scoreService.Top10(c.Request.Context())
	if err != nil {
		h.fail(c, errFetchingScores, err)
		return
	}

	c.JSON(http.StatusOK, scores)
}

// readScore decodes the whole body as a single JSON object. Trailing data,
// a missing score, and values that are not whole numbers within the
// INTEGER column range are rejected.
func readScore(c *gin.Context) (int, *errors.AppError) {
	raw, err := c.GetRawData()
	if err != nil {
		return 0, errors.InvalidInput("failed to read request body", err)
	}

	var req submitScoreRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return 0, errors.InvalidInput("invalid score payload", err)
	}
	if req.Score == nil {
		return 0, errors.InvalidInput("score is required", nil)
	}

	v := *req.Score
	if v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
		return 0, errors.InvalidInput("score is not a storable integer", nil).
			WithDetails(fmt.Sprintf("score %v must be a whole number in [%d, %d]", v, math.MinInt32, math.MaxInt32))
	}

	return int(v), nil
}

// fail attaches err for the request logger and writes the fixed message
func (h *ScoreHandler) fail(c *gin.Context, message string, err error) {
	_ = c.Error(err)
	c.String(http.StatusInternalServerError, message)
}
