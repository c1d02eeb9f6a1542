package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"stock-game-go/models"
)

// MongoPredictionRepository implements PredictionRepository for MongoDB.
// The predictions collection is written by the upstream model pipeline;
// this repository only reads it, except for ResolveActualOpen which is
// used by the operator tool that records the realized opening price.
type MongoPredictionRepository struct {
	collection *mongo.Collection
}

// NewMongoPredictionRepository creates a new MongoDB prediction repository
func NewMongoPredictionRepository(db *MongoDB) *MongoPredictionRepository {
	return &MongoPredictionRepository{
		collection: db.GetCollection("predictions"),
	}
}

// GetByDate retrieves the prediction for a game date. A missing row is
// not an error: it returns (nil, nil) and means NO_GAME for that date.
func (r *MongoPredictionRepository) GetByDate(ctx context.Context, gameDate string) (*models.Prediction, error) {
	var prediction models.Prediction
	err := r.collection.FindOne(ctx, bson.M{"game_date": gameDate}).Decode(&prediction)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find prediction for %s: %w", gameDate, err)
	}
	return &prediction, nil
}

// ResolveActualOpen records the realized opening price for a date exactly
// once. The filter requires actual_open to be absent, so a second attempt
// matches nothing and re-resolution is rejected.
func (r *MongoPredictionRepository) ResolveActualOpen(ctx context.Context, gameDate string, actualOpen float64) error {
	now := time.Now().UTC()
	filter := bson.M{
		"game_date":   gameDate,
		"actual_open": bson.M{"$exists": false},
	}
	update := bson.M{
		"$set": bson.M{
			"actual_open": actualOpen,
			"resolved_at": now,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to resolve actual open for %s: %w", gameDate, err)
	}

	if result.MatchedCount == 0 {
		// Distinguish "no prediction row" from "already resolved".
		existing, err := r.GetByDate(ctx, gameDate)
		if err != nil {
			return err
		}
		if existing == nil {
			return models.ErrNoGame
		}
		return models.ErrAlreadyResolved
	}

	return nil
}
