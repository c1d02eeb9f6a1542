package services

import (
	"context"

	"stock-game-go/models"
)

// PredictionRepository provides access to the model's prediction rows.
// Implementations return (nil, nil) for a date with no prediction; an
// error always means the store itself failed, never "not found".
type PredictionRepository interface {
	GetByDate(ctx context.Context, gameDate string) (*models.Prediction, error)
}

// GuessRepository provides access to locked user guesses. CreateIfAbsent
// must be a single atomic conditional write: under concurrent submissions
// for the same (user, game date) exactly one call succeeds and the rest
// return models.ErrDuplicateGuess.
type GuessRepository interface {
	CreateIfAbsent(ctx context.Context, guess *models.Guess) error
	GetOne(ctx context.Context, userID, gameDate string) (*models.Guess, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Guess, error)
	ListByDate(ctx context.Context, gameDate string) ([]*models.Guess, error)
}

// UserRepository provides access to registered users.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}
