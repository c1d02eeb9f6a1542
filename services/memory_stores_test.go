package services

import (
	"context"
	"sync"
	"time"

	"stock-game-go/models"
)

// In-memory store fakes for service tests. The guess fake mirrors the
// production semantics: CreateIfAbsent is atomic under its lock, so
// concurrent submissions for the same (user, date) see exactly one win.

func floatPtr(v float64) *float64 { return &v }

type memoryPredictionRepo struct {
	mu          sync.RWMutex
	predictions map[string]*models.Prediction
	failDates   map[string]error // per-date injected failures
	err         error            // blanket failure
}

func newMemoryPredictionRepo() *memoryPredictionRepo {
	return &memoryPredictionRepo{
		predictions: make(map[string]*models.Prediction),
		failDates:   make(map[string]error),
	}
}

func (r *memoryPredictionRepo) add(gameDate string, predictedOpen float64, actualOpen *float64) *models.Prediction {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := &models.Prediction{
		GameDate:      gameDate,
		Symbol:        "NVDA",
		PredictedOpen: predictedOpen,
		Lower95:       predictedOpen - 3,
		Upper95:       predictedOpen + 3,
		ActualOpen:    actualOpen,
		CreatedAt:     time.Now().UTC(),
	}
	r.predictions[gameDate] = p
	return p
}

func (r *memoryPredictionRepo) GetByDate(_ context.Context, gameDate string) (*models.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	if err, ok := r.failDates[gameDate]; ok {
		return nil, err
	}
	return r.predictions[gameDate], nil
}

type memoryGuessRepo struct {
	mu      sync.Mutex
	guesses map[string]*models.Guess
	err     error // blanket failure for reads and writes
}

func newMemoryGuessRepo() *memoryGuessRepo {
	return &memoryGuessRepo{guesses: make(map[string]*models.Guess)}
}

func guessKey(userID, gameDate string) string {
	return userID + "|" + gameDate
}

func (r *memoryGuessRepo) CreateIfAbsent(_ context.Context, guess *models.Guess) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	key := guessKey(guess.UserID, guess.GameDate)
	if _, exists := r.guesses[key]; exists {
		return models.ErrDuplicateGuess
	}
	stored := *guess
	r.guesses[key] = &stored
	return nil
}

func (r *memoryGuessRepo) GetOne(_ context.Context, userID, gameDate string) (*models.Guess, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.guesses[guessKey(userID, gameDate)], nil
}

func (r *memoryGuessRepo) ListByUser(_ context.Context, userID string) ([]*models.Guess, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*models.Guess
	for _, g := range r.guesses {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *memoryGuessRepo) ListByDate(_ context.Context, gameDate string) ([]*models.Guess, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*models.Guess
	for _, g := range r.guesses {
		if g.GameDate == gameDate {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *memoryGuessRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.guesses)
}

type memoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]*models.User
	err   error
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*models.User)}
}

func (r *memoryUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.users[email], nil
}

func (r *memoryUserRepo) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	stored := *user
	r.users[user.Email] = &stored
	return nil
}
