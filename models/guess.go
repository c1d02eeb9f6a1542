package models

import (
	"math"
	"time"
)

// Guess represents a user's locked prediction for one trading day.
// The (UserID, GameDate) pair is unique for the lifetime of that date and
// the record is never updated or deleted after creation - the lock is
// structural, not a status flag.
type Guess struct {
	UserID      string    `bson:"user_id" json:"userId"`
	GameDate    string    `bson:"game_date" json:"gameDate"`
	Value       float64   `bson:"guess" json:"guess"`
	SubmittedAt time.Time `bson:"submitted_at" json:"submittedAt"`
}

// NewGuess creates a guess record stamped with the current time.
func NewGuess(userID, gameDate string, value float64) *Guess {
	return &Guess{
		UserID:      userID,
		GameDate:    gameDate,
		Value:       value,
		SubmittedAt: time.Now().UTC(),
	}
}

// IsValidGuessValue reports whether a submitted value is a finite,
// strictly positive number. Prices of zero or below make no sense for an
// opening price and NaN/Inf would poison every downstream comparison.
func IsValidGuessValue(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// ScoreView is the comparative outcome of one guess against the model,
// computed on read once the actual open is known. It is never persisted.
type ScoreView struct {
	UserError      float64 `json:"userError"`
	BotError       float64 `json:"botError"`
	DidUserBeatBot bool    `json:"didUserBeatBot"`
}

// LeaderboardEntry is one ranked row for a resolved game date.
type LeaderboardEntry struct {
	Rank           int     `json:"rank"`
	UserID         string  `json:"userId"`
	Username       string  `json:"username"`
	UserError      float64 `json:"userError"`
	BotError       float64 `json:"botError"`
	DidUserBeatBot bool    `json:"didUserBeatBot"`
}

// UserPoints is a user's cumulative standing across all resolved days.
type UserPoints struct {
	UserID      string `json:"userId"`
	Points      int    `json:"points"`
	GamesPlayed int    `json:"gamesPlayed"`
}
