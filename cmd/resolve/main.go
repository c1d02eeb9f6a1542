// Command resolve records the realized opening price for a game date.
// It is the operational half of the "external process" that closes a
// day's game: the prediction row becomes immutable once resolved, so a
// second run against the same date fails.
//
// Usage:
//
//	go run ./cmd/resolve -date 2026-08-28 -open 181.42
package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"stock-game-go/config"
	"stock-game-go/database"
	"stock-game-go/logging"
	"stock-game-go/models"
)

func main() {
	var (
		dateFlag = flag.String("date", "", "game date (YYYY-MM-DD), defaults to today in the market time zone")
		openFlag = flag.Float64("open", 0, "realized opening price")
	)
	flag.Parse()

	logger := logging.WithPrefix("Resolve")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	gameDate := *dateFlag
	if gameDate == "" {
		gameDate = models.CurrentGameDate(cfg.MarketLocation())
	} else {
		if gameDate, err = models.ParseGameDate(gameDate); err != nil {
			logger.Fatalf("Invalid -date: %v", err)
		}
	}

	if !models.IsValidGuessValue(*openFlag) {
		logger.Fatal("A finite -open price greater than zero is required")
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	predictionRepo := database.NewMongoPredictionRepository(db)
	if err := predictionRepo.ResolveActualOpen(ctx, gameDate, *openFlag); err != nil {
		switch {
		case errors.Is(err, models.ErrNoGame):
			logger.Fatalf("No prediction exists for %s", gameDate)
		case errors.Is(err, models.ErrAlreadyResolved):
			logger.Fatalf("%s is already resolved; the actual open cannot be changed", gameDate)
		default:
			logger.Fatalf("Failed to resolve %s: %v", gameDate, err)
		}
	}

	logger.Infof("Recorded actual open %.2f for %s; the game is now closed", *openFlag, gameDate)
}
