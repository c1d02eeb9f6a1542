package models

import (
	"fmt"
	"time"
)

// GameDateLayout is the wire/storage format for game dates (YYYY-MM-DD).
// A game date is a calendar trading day, not an instant; it is always
// derived in the service's canonical market time zone.
const GameDateLayout = "2006-01-02"

// CurrentGameDate returns today's game date in the given location.
// All handlers derive "today" through this single function so that
// components cannot disagree near midnight boundaries.
func CurrentGameDate(loc *time.Location) string {
	return time.Now().In(loc).Format(GameDateLayout)
}

// ParseGameDate validates a YYYY-MM-DD game date string.
func ParseGameDate(s string) (string, error) {
	t, err := time.Parse(GameDateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid game date %q: %w", s, err)
	}
	return t.Format(GameDateLayout), nil
}

// Prediction represents the forecasting model's record for one trading day.
// It is written by the upstream model pipeline before the trading day
// begins; ActualOpen is filled in exactly once after market open and the
// record is immutable from then on.
type Prediction struct {
	GameDate      string     `bson:"game_date" json:"gameDate"`
	Symbol        string     `bson:"symbol" json:"symbol"`
	PredictedOpen float64    `bson:"predicted_open" json:"predictedOpen"`
	Lower95       float64    `bson:"lower95" json:"lower95"`
	Upper95       float64    `bson:"upper95" json:"upper95"`
	ActualOpen    *float64   `bson:"actual_open,omitempty" json:"actualOpen,omitempty"`
	CreatedAt     time.Time  `bson:"created_at" json:"createdAt"`
	ResolvedAt    *time.Time `bson:"resolved_at,omitempty" json:"resolvedAt,omitempty"`
}

// IsResolved reports whether the realized opening price is known.
func (p *Prediction) IsResolved() bool {
	return p != nil && p.ActualOpen != nil
}

// GameStatus is the phase of a calendar day's game. It is derived from
// prediction state on every read and never stored as a field.
type GameStatus string

const (
	GameStatusNoGame GameStatus = "NO_GAME"
	GameStatusOpen   GameStatus = "OPEN"
	GameStatusClosed GameStatus = "CLOSED"
)

// StatusForPrediction derives the day's phase:
// no prediction published -> NO_GAME, prediction without an actual
// open -> OPEN, prediction with an actual open -> CLOSED.
// Guess records never influence the phase.
func StatusForPrediction(p *Prediction) GameStatus {
	switch {
	case p == nil:
		return GameStatusNoGame
	case p.ActualOpen == nil:
		return GameStatusOpen
	default:
		return GameStatusClosed
	}
}
