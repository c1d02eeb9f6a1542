package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"stock-game-go/logging"
	"stock-game-go/middleware"
	"stock-game-go/models"
	"stock-game-go/services"
)

// GameHandler exposes the game engine over JSON: today's game, day
// status, guess submission, user points and the daily leaderboard.
type GameHandler struct {
	statusService      *services.GameStatusService
	guessService       *services.GuessService
	pointsService      *services.PointsService
	leaderboardService *services.LeaderboardService
	symbol             string
	marketLocation     *time.Location
	logger             *logging.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(
	statusService *services.GameStatusService,
	guessService *services.GuessService,
	pointsService *services.PointsService,
	leaderboardService *services.LeaderboardService,
	symbol string,
	marketLocation *time.Location,
) *GameHandler {
	return &GameHandler{
		statusService:      statusService,
		guessService:       guessService,
		pointsService:      pointsService,
		leaderboardService: leaderboardService,
		symbol:             symbol,
		marketLocation:     marketLocation,
		logger:             logging.WithPrefix("GameHandler"),
	}
}

// gameDateFromRequest returns the requested game date, defaulting to
// today in the market time zone. This is the only place "today" is
// derived; the services always receive the date explicitly.
func (h *GameHandler) gameDateFromRequest(r *http.Request) (string, bool) {
	raw := r.URL.Query().Get("gameDate")
	if raw == "" {
		return models.CurrentGameDate(h.marketLocation), true
	}
	gameDate, err := models.ParseGameDate(raw)
	if err != nil {
		return "", false
	}
	return gameDate, true
}

// todayGameResponse mirrors the shape the frontend expects for the
// day's prediction card.
type todayGameResponse struct {
	GameDate        string          `json:"gameDate"`
	Symbol          string          `json:"symbol"`
	ModelPrediction modelPrediction `json:"modelPrediction"`
}

type modelPrediction struct {
	PredictedOpen float64 `json:"predictedOpen"`
	Lower95       float64 `json:"lower95"`
	Upper95       float64 `json:"upper95"`
}

// GetTodayGame handles GET /api/game and returns the model's prediction
// for the requested date (default: today). 404 when no game exists.
func (h *GameHandler) GetTodayGame(w http.ResponseWriter, r *http.Request) {
	gameDate, ok := h.gameDateFromRequest(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid gameDate, expected YYYY-MM-DD")
		return
	}

	prediction, err := h.statusService.GetPrediction(r.Context(), gameDate)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, todayGameResponse{
		GameDate: gameDate,
		Symbol:   h.symbol,
		ModelPrediction: modelPrediction{
			PredictedOpen: prediction.PredictedOpen,
			Lower95:       prediction.Lower95,
			Upper95:       prediction.Upper95,
		},
	})
}

// GetGameStatus handles GET /api/game/status. Anonymous callers get the
// day's phase; authenticated callers also get their own locked guess.
func (h *GameHandler) GetGameStatus(w http.ResponseWriter, r *http.Request) {
	gameDate, ok := h.gameDateFromRequest(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid gameDate, expected YYYY-MM-DD")
		return
	}

	status, err := h.statusService.ResolveStatus(r.Context(), gameDate, middleware.CallerID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}

// guessRequest is the POST /api/game/guess body.
type guessRequest struct {
	Guess *float64 `json:"guess"`
}

// guessResponse echoes the locked guess back to the caller.
type guessResponse struct {
	UserID      string    `json:"userId"`
	GameDate    string    `json:"gameDate"`
	Guess       float64   `json:"guess"`
	SubmittedAt time.Time `json:"submittedAt"`
	Message     string    `json:"message"`
}

// SubmitGuess handles POST /api/game/guess. One guess per user per game
// date; the value locks on first submission.
func (h *GameHandler) SubmitGuess(w http.ResponseWriter, r *http.Request) {
	userID := middleware.CallerID(r)
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	gameDate, ok := h.gameDateFromRequest(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid gameDate, expected YYYY-MM-DD")
		return
	}

	var req guessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Guess == nil {
		// Also covers non-numeric values, which fail JSON decoding above.
		respondError(w, http.StatusBadRequest, "Invalid guess")
		return
	}

	guess, err := h.guessService.SubmitGuess(r.Context(), userID, gameDate, *req.Guess)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.logger.Infof("User %s locked guess %.2f for %s", userID, guess.Value, gameDate)
	respondJSON(w, http.StatusOK, guessResponse{
		UserID:      guess.UserID,
		GameDate:    guess.GameDate,
		Guess:       guess.Value,
		SubmittedAt: guess.SubmittedAt,
		Message:     "Guess saved",
	})
}

// GetUserPoints handles GET /api/points for the authenticated caller.
func (h *GameHandler) GetUserPoints(w http.ResponseWriter, r *http.Request) {
	points, err := h.pointsService.TotalPoints(r.Context(), middleware.CallerID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, points)
}

// leaderboardResponse wraps the ranked entries with their game date.
type leaderboardResponse struct {
	GameDate    string                    `json:"gameDate"`
	Leaderboard []models.LeaderboardEntry `json:"leaderboard"`
}

// GetLeaderboard handles GET /api/leaderboard?gameDate=YYYY-MM-DD
// (default: today). The list is empty until the day's actual open is
// recorded.
func (h *GameHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	gameDate, ok := h.gameDateFromRequest(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid gameDate, expected YYYY-MM-DD")
		return
	}

	entries, err := h.leaderboardService.BuildLeaderboard(r.Context(), gameDate)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, leaderboardResponse{
		GameDate:    gameDate,
		Leaderboard: entries,
	})
}
