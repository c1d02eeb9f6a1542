package services

import (
	"context"
	"fmt"

	"stock-game-go/logging"
	"stock-game-go/models"
)

// DayStatus is the caller-facing view of one calendar day's game.
type DayStatus struct {
	GameDate   string            `json:"gameDate"`
	Status     models.GameStatus `json:"status"`
	UserGuess  *models.Guess     `json:"userGuess,omitempty"`
	ActualOpen *float64          `json:"actualOpen,omitempty"`
}

// GameStatusService derives the phase of a day's game from prediction
// state. The phase is never stored: NO_GAME until a prediction is
// published, OPEN until the actual open is recorded, CLOSED after.
type GameStatusService struct {
	predictionRepo PredictionRepository
	guessRepo      GuessRepository
	logger         *logging.Logger
}

// NewGameStatusService creates a new game status service
func NewGameStatusService(predictionRepo PredictionRepository, guessRepo GuessRepository) *GameStatusService {
	return &GameStatusService{
		predictionRepo: predictionRepo,
		guessRepo:      guessRepo,
		logger:         logging.WithPrefix("GameStatusService"),
	}
}

// ResolveStatus reports the day's phase plus the caller's own guess when
// userID is non-empty. Whether any user has guessed never affects the
// phase. A store failure propagates as an error so the caller sees
// "status unknown" rather than a silently wrong NO_GAME.
func (s *GameStatusService) ResolveStatus(ctx context.Context, gameDate, userID string) (*DayStatus, error) {
	prediction, err := s.predictionRepo.GetByDate(ctx, gameDate)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve status for %s: %w", gameDate, err)
	}

	status := &DayStatus{
		GameDate: gameDate,
		Status:   models.StatusForPrediction(prediction),
	}
	if prediction.IsResolved() {
		status.ActualOpen = prediction.ActualOpen
	}

	if userID != "" {
		guess, err := s.guessRepo.GetOne(ctx, userID, gameDate)
		if err != nil {
			return nil, fmt.Errorf("failed to load guess for %s on %s: %w", userID, gameDate, err)
		}
		status.UserGuess = guess
	}

	s.logger.Debugf("Resolved %s as %s (user=%q, hasGuess=%t)",
		gameDate, status.Status, userID, status.UserGuess != nil)

	return status, nil
}

// GetPrediction returns the prediction row for a date, or models.ErrNoGame
// when none has been published yet.
func (s *GameStatusService) GetPrediction(ctx context.Context, gameDate string) (*models.Prediction, error) {
	prediction, err := s.predictionRepo.GetByDate(ctx, gameDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load prediction for %s: %w", gameDate, err)
	}
	if prediction == nil {
		return nil, models.ErrNoGame
	}
	return prediction, nil
}
