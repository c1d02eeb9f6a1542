package services

import (
	"context"
	"fmt"

	"stock-game-go/logging"
	"stock-game-go/models"
)

// GuessService validates and persists user guesses. Its one hard rule is
// the per-(user, game date) uniqueness: a guess locks on first submission
// and there are no take-backs. Whether a guess may be accepted for a
// NO_GAME or already-CLOSED day is policy the caller layers on top; the
// service does not gate on game phase.
type GuessService struct {
	guessRepo GuessRepository
	logger    *logging.Logger
}

// NewGuessService creates a new guess submission service
func NewGuessService(guessRepo GuessRepository) *GuessService {
	return &GuessService{
		guessRepo: guessRepo,
		logger:    logging.WithPrefix("GuessService"),
	}
}

// SubmitGuess validates the submission and creates the guess record,
// returning the persisted record so the caller can display the locked
// value without a second read.
//
// Validation order: guess value first (models.ErrInvalidGuess), then
// caller identity (models.ErrUnauthenticated). The duplicate check and
// the write are one atomic conditional insert in the repository; a lost
// race surfaces as models.ErrDuplicateGuess.
func (s *GuessService) SubmitGuess(ctx context.Context, userID, gameDate string, value float64) (*models.Guess, error) {
	if !models.IsValidGuessValue(value) {
		return nil, fmt.Errorf("%w: value must be a finite number greater than zero", models.ErrInvalidGuess)
	}
	if userID == "" {
		return nil, models.ErrUnauthenticated
	}
	gameDate, err := models.ParseGameDate(gameDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidGuess, err)
	}

	guess := models.NewGuess(userID, gameDate, value)
	if err := s.guessRepo.CreateIfAbsent(ctx, guess); err != nil {
		if err == models.ErrDuplicateGuess {
			s.logger.Debugf("Duplicate guess rejected for %s on %s", userID, gameDate)
		}
		return nil, err
	}

	s.logger.Infof("Locked guess %.2f for %s on %s", value, userID, gameDate)
	return guess, nil
}
