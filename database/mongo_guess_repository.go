package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stock-game-go/logging"
	"stock-game-go/models"
)

// MongoGuessRepository implements GuessRepository for MongoDB.
// The unique compound index on (user_id, game_date) is what enforces the
// one-guess-per-user-per-day invariant: CreateIfAbsent is a single
// InsertOne against that index, so under concurrent submissions exactly
// one insert wins and the rest fail with a duplicate key error.
type MongoGuessRepository struct {
	collection *mongo.Collection
}

// NewMongoGuessRepository creates a new MongoDB guess repository
func NewMongoGuessRepository(db *MongoDB) *MongoGuessRepository {
	collection := db.GetCollection("guesses")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "game_date", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "game_date", Value: 1},
			},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logging.Warnf("Could not create guess indexes: %v", err)
	}

	return &MongoGuessRepository{
		collection: collection,
	}
}

// CreateIfAbsent inserts the guess unless one already exists for the same
// (user, game date). Returns models.ErrDuplicateGuess when the unique
// index rejects the insert.
func (r *MongoGuessRepository) CreateIfAbsent(ctx context.Context, guess *models.Guess) error {
	_, err := r.collection.InsertOne(ctx, guess)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicateGuess
		}
		return fmt.Errorf("failed to create guess: %w", err)
	}
	return nil
}

// GetOne retrieves a user's guess for a game date, or (nil, nil) when the
// user has not guessed that day.
func (r *MongoGuessRepository) GetOne(ctx context.Context, userID, gameDate string) (*models.Guess, error) {
	filter := bson.M{
		"user_id":   userID,
		"game_date": gameDate,
	}

	var guess models.Guess
	err := r.collection.FindOne(ctx, filter).Decode(&guess)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find guess for %s on %s: %w", userID, gameDate, err)
	}
	return &guess, nil
}

// ListByUser retrieves all of a user's guesses across all dates, oldest
// first. Served by the prefix of the unique (user_id, game_date) index.
func (r *MongoGuessRepository) ListByUser(ctx context.Context, userID string) ([]*models.Guess, error) {
	opts := options.Find().SetSort(bson.D{{Key: "game_date", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list guesses for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var guesses []*models.Guess
	for cursor.Next(ctx) {
		var guess models.Guess
		if err := cursor.Decode(&guess); err != nil {
			return nil, fmt.Errorf("failed to decode guess: %w", err)
		}
		guesses = append(guesses, &guess)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error listing guesses for user %s: %w", userID, err)
	}

	return guesses, nil
}

// ListByDate retrieves every guess locked against a game date.
func (r *MongoGuessRepository) ListByDate(ctx context.Context, gameDate string) ([]*models.Guess, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"game_date": gameDate}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list guesses for %s: %w", gameDate, err)
	}
	defer cursor.Close(ctx)

	var guesses []*models.Guess
	for cursor.Next(ctx) {
		var guess models.Guess
		if err := cursor.Decode(&guess); err != nil {
			return nil, fmt.Errorf("failed to decode guess: %w", err)
		}
		guesses = append(guesses, &guess)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error listing guesses for %s: %w", gameDate, err)
	}

	return guesses, nil
}
