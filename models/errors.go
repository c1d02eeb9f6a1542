package models

import "errors"

// Game error taxonomy. Handlers map these to distinct HTTP responses so
// the UI can tell "you already played today" apart from "something went
// wrong" and from "there is no game today".
var (
	// ErrInvalidGuess means the submitted value is not a finite number
	// greater than zero.
	ErrInvalidGuess = errors.New("invalid guess")

	// ErrUnauthenticated means no caller identity could be resolved.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrDuplicateGuess means a guess already exists for this user and
	// game date. Guesses are locked on first submission.
	ErrDuplicateGuess = errors.New("guess already submitted for this game date")

	// ErrUnresolved is not a failure: it means the actual opening price
	// is not known yet, so no score exists to compute.
	ErrUnresolved = errors.New("actual open not resolved yet")

	// ErrNoGame means no prediction has been published for the date.
	ErrNoGame = errors.New("no game for this date")

	// ErrAlreadyResolved means the actual open was already recorded for
	// the date; predictions are immutable once resolved.
	ErrAlreadyResolved = errors.New("prediction already resolved")
)
