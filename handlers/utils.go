package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"stock-game-go/logging"
	"stock-game-go/models"
)

// errorResponse is the JSON body for every non-2xx API response.
type errorResponse struct {
	Message string `json:"message"`
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Errorf("Failed to encode JSON response: %v", err)
	}
}

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Message: message})
}

// respondServiceError maps the game error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is a store/infrastructure failure and is
// reported as a generic 500 - never conflated with "no game" or an empty
// result.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidGuess):
		respondError(w, http.StatusBadRequest, "Invalid guess")
	case errors.Is(err, models.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, models.ErrDuplicateGuess):
		respondError(w, http.StatusConflict, "You already submitted a guess for this game")
	case errors.Is(err, models.ErrNoGame):
		respondError(w, http.StatusNotFound, "No game for this date")
	default:
		logging.Errorf("Internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
