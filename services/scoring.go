package services

import (
	"math"

	"stock-game-go/models"
)

// ScoreGuess computes the comparative outcome of one guess against the
// model's prediction for the same date. It is a pure derivation with no
// I/O and nothing about it is ever persisted.
//
// Returns models.ErrUnresolved while the actual open is unknown (or the
// prediction is missing entirely) - that is a legitimate state, not a
// failure. Errors are absolute differences in price units with no
// rounding; rounding is a display concern. The user beats the bot only on
// a strictly smaller error: a tie counts for the bot.
func ScoreGuess(guess *models.Guess, prediction *models.Prediction) (*models.ScoreView, error) {
	if !prediction.IsResolved() {
		return nil, models.ErrUnresolved
	}

	actual := *prediction.ActualOpen
	userError := math.Abs(guess.Value - actual)
	botError := math.Abs(prediction.PredictedOpen - actual)

	return &models.ScoreView{
		UserError:      userError,
		BotError:       botError,
		DidUserBeatBot: userError < botError,
	}, nil
}
