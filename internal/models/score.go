package models

import "github.com/uptrace/bun"

// Score is a single leaderboard entry. Rows are only ever inserted and read.
type Score struct {
	bun.BaseModel `bun:"table:scores,alias:s" json:"-"`

	ID    int64 `bun:"id,pk,autoincrement" json:"id"`
	Score int   `bun:"score,notnull" json:"score"`
}

// TopScoresLimit is the number of entries returned by the leaderboard
const TopScoresLimit = 10
