package services

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-game-go/models"
)

func TestSubmitGuess_PersistsAndReturnsRecord(t *testing.T) {
	guesses := newMemoryGuessRepo()
	svc := NewGuessService(guesses)

	guess, err := svc.SubmitGuess(context.Background(), "a@example.com", "2026-08-28", 151.5)
	require.NoError(t, err)

	assert.Equal(t, "a@example.com", guess.UserID)
	assert.Equal(t, "2026-08-28", guess.GameDate)
	assert.Equal(t, 151.5, guess.Value)
	assert.False(t, guess.SubmittedAt.IsZero())

	stored, err := guesses.GetOne(context.Background(), "a@example.com", "2026-08-28")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 151.5, stored.Value)
}

func TestSubmitGuess_RejectsInvalidValues(t *testing.T) {
	svc := NewGuessService(newMemoryGuessRepo())

	for _, value := range []float64{0, -5, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := svc.SubmitGuess(context.Background(), "a@example.com", "2026-08-28", value)
		assert.ErrorIs(t, err, models.ErrInvalidGuess, "value %v should be rejected", value)
	}
}

func TestSubmitGuess_AcceptsBoundaryValues(t *testing.T) {
	svc := NewGuessService(newMemoryGuessRepo())

	_, err := svc.SubmitGuess(context.Background(), "a@example.com", "2026-08-28", 0.01)
	assert.NoError(t, err)

	_, err = svc.SubmitGuess(context.Background(), "b@example.com", "2026-08-28", 999999.99)
	assert.NoError(t, err)
}

func TestSubmitGuess_RejectsAnonymousCaller(t *testing.T) {
	svc := NewGuessService(newMemoryGuessRepo())

	_, err := svc.SubmitGuess(context.Background(), "", "2026-08-28", 150)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestSubmitGuess_RejectsMalformedDate(t *testing.T) {
	svc := NewGuessService(newMemoryGuessRepo())

	_, err := svc.SubmitGuess(context.Background(), "a@example.com", "08/28/2026", 150)
	assert.ErrorIs(t, err, models.ErrInvalidGuess)
}

func TestSubmitGuess_SecondSubmissionIsDuplicate(t *testing.T) {
	guesses := newMemoryGuessRepo()
	svc := NewGuessService(guesses)

	first, err := svc.SubmitGuess(context.Background(), "a@example.com", "2026-08-28", 150)
	require.NoError(t, err)

	_, err = svc.SubmitGuess(context.Background(), "a@example.com", "2026-08-28", 160)
	assert.ErrorIs(t, err, models.ErrDuplicateGuess)

	// The locked value is untouched by the rejected attempt.
	stored, err := guesses.GetOne(context.Background(), "a@example.com", "2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, first.Value, stored.Value)
	assert.Equal(t, 1, guesses.count())
}

func TestSubmitGuess_SameUserDifferentDates(t *testing.T) {
	svc := NewGuessService(newMemoryGuessRepo())

	_, err := svc.SubmitGuess(context.Background(), "a@example.com", "2026-08-27", 150)
	require.NoError(t, err)

	_, err = svc.SubmitGuess(context.Background(), "a@example.com", "2026-08-28", 150)
	assert.NoError(t, err, "the lock is per date, not per user")
}

func TestSubmitGuess_ConcurrentSubmissionsOneWinner(t *testing.T) {
	const callers = 32

	guesses := newMemoryGuessRepo()
	svc := NewGuessService(guesses)

	var wg sync.WaitGroup
	results := make(chan error, callers)
	start := make(chan struct{})

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(value float64) {
			defer wg.Done()
			<-start
			_, err := svc.SubmitGuess(context.Background(), "a@example.com", "2026-08-28", value)
			results <- err
		}(float64(100 + i))
	}

	close(start)
	wg.Wait()
	close(results)

	var successes, duplicates int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case err == models.ErrDuplicateGuess:
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, callers-1, duplicates)
	assert.Equal(t, 1, guesses.count())
}
