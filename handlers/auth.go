package handlers

import (
	"encoding/json"
	"net/http"

	"stock-game-go/logging"
	"stock-game-go/models"
	"stock-game-go/services"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *services.AuthService
	logger      *logging.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logging.WithPrefix("AuthHandler"),
	}
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	authResponse, err := h.authService.Signup(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		h.logger.Warnf("Signup failed for %s: %v", req.Email, err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.setAuthCookie(w, authResponse.Token)
	respondJSON(w, http.StatusCreated, authResponse)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	authResponse, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warnf("Login failed for %s: %v", req.Email, err)
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	h.logger.Infof("User %s logged in", authResponse.User.Email)
	h.setAuthCookie(w, authResponse.Token)
	respondJSON(w, http.StatusOK, authResponse)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// setAuthCookie sets the auth token as an HTTP-only cookie so browser
// clients do not have to manage the bearer header themselves.
func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
