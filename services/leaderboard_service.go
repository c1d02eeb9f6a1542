package services

import (
	"context"
	"fmt"
	"sort"

	"stock-game-go/logging"
	"stock-game-go/models"
)

// LeaderboardService ranks every guess for a resolved game date by
// ascending user error. Until the day resolves there is no leaderboard at
// all - an empty list, not an error.
type LeaderboardService struct {
	predictionRepo PredictionRepository
	guessRepo      GuessRepository
	userRepo       UserRepository
	logger         *logging.Logger
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(predictionRepo PredictionRepository, guessRepo GuessRepository, userRepo UserRepository) *LeaderboardService {
	return &LeaderboardService{
		predictionRepo: predictionRepo,
		guessRepo:      guessRepo,
		userRepo:       userRepo,
		logger:         logging.WithPrefix("LeaderboardService"),
	}
}

// BuildLeaderboard returns all entries for the date ranked 1-based by
// ascending user error, ties broken by earliest submission. The full set
// is returned; any cap or pagination is the caller's presentation choice.
func (s *LeaderboardService) BuildLeaderboard(ctx context.Context, gameDate string) ([]models.LeaderboardEntry, error) {
	prediction, err := s.predictionRepo.GetByDate(ctx, gameDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load prediction for %s: %w", gameDate, err)
	}
	if !prediction.IsResolved() {
		// Market has not opened (or no game today): nothing to rank.
		return []models.LeaderboardEntry{}, nil
	}

	guesses, err := s.guessRepo.ListByDate(ctx, gameDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list guesses for %s: %w", gameDate, err)
	}

	type scoredGuess struct {
		guess *models.Guess
		score *models.ScoreView
	}
	scored := make([]scoredGuess, 0, len(guesses))
	for _, guess := range guesses {
		score, err := ScoreGuess(guess, prediction)
		if err != nil {
			// Only possible while unresolved, which was checked above.
			continue
		}
		scored = append(scored, scoredGuess{guess: guess, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score.UserError != scored[j].score.UserError {
			return scored[i].score.UserError < scored[j].score.UserError
		}
		// First come, first served on equal errors.
		return scored[i].guess.SubmittedAt.Before(scored[j].guess.SubmittedAt)
	})

	entries := make([]models.LeaderboardEntry, 0, len(scored))
	for i, sg := range scored {
		entries = append(entries, models.LeaderboardEntry{
			Rank:           i + 1,
			UserID:         sg.guess.UserID,
			Username:       s.displayName(ctx, sg.guess.UserID),
			UserError:      sg.score.UserError,
			BotError:       sg.score.BotError,
			DidUserBeatBot: sg.score.DidUserBeatBot,
		})
	}

	s.logger.Debugf("Built leaderboard for %s with %d entries", gameDate, len(entries))
	return entries, nil
}

// displayName resolves a user ID to a leaderboard name, falling back to
// the raw ID when the lookup fails or the user is unknown.
func (s *LeaderboardService) displayName(ctx context.Context, userID string) string {
	user, err := s.userRepo.GetUserByEmail(ctx, userID)
	if err != nil {
		s.logger.Warnf("Could not resolve display name for %s: %v", userID, err)
		return userID
	}
	if user == nil {
		return userID
	}
	return user.DisplayName()
}
