package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"stock-game-go/logging"
	"stock-game-go/models"
)

// predictionFetchLimit bounds how many per-date prediction lookups run
// concurrently during aggregation.
const predictionFetchLimit = 4

// PointsService folds a user's full guess history into cumulative points:
// one point per resolved day where the user's error was strictly smaller
// than the bot's. Nothing is persisted; every call re-derives the total
// from the guess and prediction stores.
type PointsService struct {
	predictionRepo PredictionRepository
	guessRepo      GuessRepository
	logger         *logging.Logger
}

// NewPointsService creates a new points aggregation service
func NewPointsService(predictionRepo PredictionRepository, guessRepo GuessRepository) *PointsService {
	return &PointsService{
		predictionRepo: predictionRepo,
		guessRepo:      guessRepo,
		logger:         logging.WithPrefix("PointsService"),
	}
}

// TotalPoints computes the user's points and resolved-game count.
//
// Days whose prediction is missing or unresolved are skipped, never
// counted as losses. A transient store failure on one date is logged and
// skipped as well so a single bad row cannot blank the whole score; only
// a failure to enumerate the user's guesses fails the call.
func (s *PointsService) TotalPoints(ctx context.Context, userID string) (*models.UserPoints, error) {
	if userID == "" {
		return nil, models.ErrUnauthenticated
	}

	guesses, err := s.guessRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate guesses for %s: %w", userID, err)
	}

	scores := make([]*models.ScoreView, len(guesses))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(predictionFetchLimit)
	for i, guess := range guesses {
		i, guess := i, guess
		g.Go(func() error {
			prediction, err := s.predictionRepo.GetByDate(gctx, guess.GameDate)
			if err != nil {
				// Skip this date, keep aggregating the rest.
				s.logger.Warnf("Skipping %s for %s: %v", guess.GameDate, userID, err)
				return nil
			}
			score, err := ScoreGuess(guess, prediction)
			if err != nil {
				// Unresolved day: no score exists yet.
				return nil
			}
			scores[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to aggregate points for %s: %w", userID, err)
	}

	points := &models.UserPoints{UserID: userID}
	for _, score := range scores {
		if score == nil {
			continue
		}
		points.GamesPlayed++
		if score.DidUserBeatBot {
			points.Points++
		}
	}

	s.logger.Debugf("User %s: %d points over %d resolved games (%d guesses total)",
		userID, points.Points, points.GamesPlayed, len(guesses))

	return points, nil
}
