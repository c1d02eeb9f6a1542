package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-game-go/middleware"
	"stock-game-go/models"
	"stock-game-go/services"
)

// Minimal store fakes for exercising the handlers end to end through the
// real services.

type fakePredictionRepo struct {
	predictions map[string]*models.Prediction
}

func (r *fakePredictionRepo) GetByDate(_ context.Context, gameDate string) (*models.Prediction, error) {
	return r.predictions[gameDate], nil
}

type fakeGuessRepo struct {
	mu      sync.Mutex
	guesses map[string]*models.Guess
}

func newFakeGuessRepo() *fakeGuessRepo {
	return &fakeGuessRepo{guesses: make(map[string]*models.Guess)}
}

func (r *fakeGuessRepo) CreateIfAbsent(_ context.Context, guess *models.Guess) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := guess.UserID + "|" + guess.GameDate
	if _, exists := r.guesses[key]; exists {
		return models.ErrDuplicateGuess
	}
	stored := *guess
	r.guesses[key] = &stored
	return nil
}

func (r *fakeGuessRepo) GetOne(_ context.Context, userID, gameDate string) (*models.Guess, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.guesses[userID+"|"+gameDate], nil
}

func (r *fakeGuessRepo) ListByUser(_ context.Context, userID string) ([]*models.Guess, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Guess
	for _, g := range r.guesses {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGuessRepo) ListByDate(_ context.Context, gameDate string) ([]*models.Guess, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Guess
	for _, g := range r.guesses {
		if g.GameDate == gameDate {
			out = append(out, g)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return r.users[email], nil
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	r.users[user.Email] = user
	return nil
}

func newTestGameHandler(predictions map[string]*models.Prediction) (*GameHandler, *fakeGuessRepo) {
	predictionRepo := &fakePredictionRepo{predictions: predictions}
	guessRepo := newFakeGuessRepo()
	userRepo := &fakeUserRepo{users: make(map[string]*models.User)}

	return NewGameHandler(
		services.NewGameStatusService(predictionRepo, guessRepo),
		services.NewGuessService(guessRepo),
		services.NewPointsService(predictionRepo, guessRepo),
		services.NewLeaderboardService(predictionRepo, guessRepo, userRepo),
		"NVDA",
		time.UTC,
	), guessRepo
}

func authenticatedRequest(method, target, body, email string) *http.Request {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	if email != "" {
		ctx := context.WithValue(r.Context(), middleware.UserKey, &models.User{Email: email})
		r = r.WithContext(ctx)
	}
	return r
}

func TestGetGameStatus_NoGame(t *testing.T) {
	handler, _ := newTestGameHandler(map[string]*models.Prediction{})

	w := httptest.NewRecorder()
	handler.GetGameStatus(w, authenticatedRequest(http.MethodGet, "/api/game/status?gameDate=2026-08-28", "", ""))

	require.Equal(t, http.StatusOK, w.Code)

	var status services.DayStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, models.GameStatusNoGame, status.Status)
	assert.Equal(t, "2026-08-28", status.GameDate)
}

func TestGetGameStatus_RejectsBadDate(t *testing.T) {
	handler, _ := newTestGameHandler(map[string]*models.Prediction{})

	w := httptest.NewRecorder()
	handler.GetGameStatus(w, authenticatedRequest(http.MethodGet, "/api/game/status?gameDate=28-08-2026", "", ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTodayGame_NotFoundWithoutPrediction(t *testing.T) {
	handler, _ := newTestGameHandler(map[string]*models.Prediction{})

	w := httptest.NewRecorder()
	handler.GetTodayGame(w, authenticatedRequest(http.MethodGet, "/api/game?gameDate=2026-08-28", "", ""))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTodayGame_ReturnsPrediction(t *testing.T) {
	handler, _ := newTestGameHandler(map[string]*models.Prediction{
		"2026-08-28": {
			GameDate:      "2026-08-28",
			PredictedOpen: 148.5,
			Lower95:       145.2,
			Upper95:       151.8,
		},
	})

	w := httptest.NewRecorder()
	handler.GetTodayGame(w, authenticatedRequest(http.MethodGet, "/api/game?gameDate=2026-08-28", "", ""))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		GameDate        string `json:"gameDate"`
		Symbol          string `json:"symbol"`
		ModelPrediction struct {
			PredictedOpen float64 `json:"predictedOpen"`
			Lower95       float64 `json:"lower95"`
			Upper95       float64 `json:"upper95"`
		} `json:"modelPrediction"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NVDA", resp.Symbol)
	assert.Equal(t, 148.5, resp.ModelPrediction.PredictedOpen)
}

func TestSubmitGuess_RequiresAuth(t *testing.T) {
	handler, _ := newTestGameHandler(map[string]*models.Prediction{})

	w := httptest.NewRecorder()
	handler.SubmitGuess(w, authenticatedRequest(http.MethodPost, "/api/game/guess", `{"guess":150}`, ""))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitGuess_LocksAndRejectsSecondAttempt(t *testing.T) {
	handler, guessRepo := newTestGameHandler(map[string]*models.Prediction{})

	w := httptest.NewRecorder()
	handler.SubmitGuess(w, authenticatedRequest(
		http.MethodPost, "/api/game/guess?gameDate=2026-08-28", `{"guess":151.25}`, "a@example.com"))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Guess    float64 `json:"guess"`
		GameDate string  `json:"gameDate"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 151.25, resp.Guess)
	assert.Equal(t, "2026-08-28", resp.GameDate)

	stored, err := guessRepo.GetOne(context.Background(), "a@example.com", "2026-08-28")
	require.NoError(t, err)
	require.NotNil(t, stored)

	w = httptest.NewRecorder()
	handler.SubmitGuess(w, authenticatedRequest(
		http.MethodPost, "/api/game/guess?gameDate=2026-08-28", `{"guess":160}`, "a@example.com"))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSubmitGuess_RejectsNonNumericBody(t *testing.T) {
	handler, _ := newTestGameHandler(map[string]*models.Prediction{})

	for _, body := range []string{`{"guess":"150"}`, `{"guess":null}`, `{}`, `not json`} {
		w := httptest.NewRecorder()
		handler.SubmitGuess(w, authenticatedRequest(
			http.MethodPost, "/api/game/guess?gameDate=2026-08-28", body, "a@example.com"))
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q should be rejected", body)
	}
}

func TestSubmitGuess_RejectsNonPositiveValues(t *testing.T) {
	handler, _ := newTestGameHandler(map[string]*models.Prediction{})

	for _, body := range []string{`{"guess":0}`, `{"guess":-5}`} {
		w := httptest.NewRecorder()
		handler.SubmitGuess(w, authenticatedRequest(
			http.MethodPost, "/api/game/guess?gameDate=2026-08-28", body, "a@example.com"))
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q should be rejected", body)
	}
}

func TestGetLeaderboard_RanksResolvedDay(t *testing.T) {
	actual := 150.0
	handler, guessRepo := newTestGameHandler(map[string]*models.Prediction{
		"2026-08-28": {
			GameDate:      "2026-08-28",
			PredictedOpen: 148,
			ActualOpen:    &actual,
		},
	})

	now := time.Now().UTC()
	require.NoError(t, guessRepo.CreateIfAbsent(context.Background(),
		&models.Guess{UserID: "a@example.com", GameDate: "2026-08-28", Value: 152, SubmittedAt: now}))
	require.NoError(t, guessRepo.CreateIfAbsent(context.Background(),
		&models.Guess{UserID: "b@example.com", GameDate: "2026-08-28", Value: 150.5, SubmittedAt: now}))

	w := httptest.NewRecorder()
	handler.GetLeaderboard(w, authenticatedRequest(http.MethodGet, "/api/leaderboard?gameDate=2026-08-28", "", ""))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		GameDate    string                    `json:"gameDate"`
		Leaderboard []models.LeaderboardEntry `json:"leaderboard"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Leaderboard, 2)
	assert.Equal(t, 1, resp.Leaderboard[0].Rank)
	assert.Equal(t, "b@example.com", resp.Leaderboard[0].UserID)
	assert.Equal(t, 2, resp.Leaderboard[1].Rank)
}

func TestGetUserPoints_CountsWins(t *testing.T) {
	actual := 150.0
	handler, guessRepo := newTestGameHandler(map[string]*models.Prediction{
		"2026-08-27": {GameDate: "2026-08-27", PredictedOpen: 140, ActualOpen: &actual},
		"2026-08-28": {GameDate: "2026-08-28", PredictedOpen: 148},
	})

	now := time.Now().UTC()
	require.NoError(t, guessRepo.CreateIfAbsent(context.Background(),
		&models.Guess{UserID: "a@example.com", GameDate: "2026-08-27", Value: 149, SubmittedAt: now}))
	require.NoError(t, guessRepo.CreateIfAbsent(context.Background(),
		&models.Guess{UserID: "a@example.com", GameDate: "2026-08-28", Value: 149, SubmittedAt: now}))

	w := httptest.NewRecorder()
	handler.GetUserPoints(w, authenticatedRequest(http.MethodGet, "/api/points", "", "a@example.com"))

	require.Equal(t, http.StatusOK, w.Code)

	var points models.UserPoints
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &points))
	assert.Equal(t, 1, points.Points)
	assert.Equal(t, 1, points.GamesPlayed)
}
