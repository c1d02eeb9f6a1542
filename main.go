package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"stock-game-go/config"
	"stock-game-go/database"
	"stock-game-go/handlers"
	"stock-game-go/logging"
	"stock-game-go/middleware"
	"stock-game-go/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}

	logging.Configure(logging.Config{
		Level:       cfg.Logging.Level,
		Output:      os.Stdout,
		Prefix:      cfg.Logging.Prefix,
		EnableColor: cfg.Logging.EnableColor,
	})

	logger := logging.WithPrefix("Main")
	logger.Infof("Starting stock game server (symbol=%s, tz=%s, env=%s)",
		cfg.Game.Symbol, cfg.Game.Timezone, cfg.Server.Environment)

	// Connect to MongoDB
	db, err := database.NewMongoConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
	})
	if err != nil {
		logger.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	if err := db.TestConnection(); err != nil {
		logger.Fatalf("Database test failed: %v", err)
	}

	// Repositories
	predictionRepo := database.NewMongoPredictionRepository(db)
	guessRepo := database.NewMongoGuessRepository(db)
	userRepo := database.NewMongoUserRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	statusService := services.NewGameStatusService(predictionRepo, guessRepo)
	guessService := services.NewGuessService(guessRepo)
	pointsService := services.NewPointsService(predictionRepo, guessRepo)
	leaderboardService := services.NewLeaderboardService(predictionRepo, guessRepo, userRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	gameHandler := handlers.NewGameHandler(
		statusService,
		guessService,
		pointsService,
		leaderboardService,
		cfg.Game.Symbol,
		cfg.MarketLocation(),
	)
	metadataHandler := handlers.NewModelMetadataHandler()

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)

	// Routes
	r := mux.NewRouter()
	r.Use(middleware.SecurityMiddleware)
	r.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigin))

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST", "OPTIONS")

	api.Handle("/game", authMiddleware.OptionalAuth(http.HandlerFunc(gameHandler.GetTodayGame))).Methods("GET", "OPTIONS")
	api.Handle("/game/status", authMiddleware.OptionalAuth(http.HandlerFunc(gameHandler.GetGameStatus))).Methods("GET", "OPTIONS")
	api.Handle("/game/guess", authMiddleware.RequireAuth(http.HandlerFunc(gameHandler.SubmitGuess))).Methods("POST", "OPTIONS")
	api.Handle("/points", authMiddleware.RequireAuth(http.HandlerFunc(gameHandler.GetUserPoints))).Methods("GET", "OPTIONS")
	api.Handle("/leaderboard", authMiddleware.OptionalAuth(http.HandlerFunc(gameHandler.GetLeaderboard))).Methods("GET", "OPTIONS")

	api.HandleFunc("/model/metadata", metadataHandler.GetModelMetadata).Methods("GET", "OPTIONS")

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.TestConnection(); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Infof("Server listening on %s", cfg.GetServerAddress())
	if err := server.ListenAndServe(); err != nil {
		logger.Fatalf("Server failed: %v", err)
	}
}
