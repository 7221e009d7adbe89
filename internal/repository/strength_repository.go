package repository

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/astrovault/natalcore/internal/domain"
	"github.com/astrovault/natalcore/internal/infrastructure/mongodb"
)

// StrengthRepository implements domain.StrengthRepository on MongoDB.
type StrengthRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewStrengthRepository creates a new strength table repository
func NewStrengthRepository(client *mongodb.Client, logger *slog.Logger) *StrengthRepository {
	return &StrengthRepository{
		coll:   client.Collection(mongodb.CollStrengths),
		logger: logger,
	}
}

// InsertMany stores the strength tables for one horoscope.
func (r *StrengthRepository) InsertMany(ctx context.Context, strengths []domain.Strength) error {
	if len(strengths) == 0 {
		return nil
	}
	docs := make([]interface{}, len(strengths))
	for i := range strengths {
		docs[i] = strengths[i]
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert strengths: %w", err)
	}
	return nil
}

// ListByHoroscope returns all strength tables owned by one horoscope.
func (r *StrengthRepository) ListByHoroscope(ctx context.Context, workspaceID string, horoscopeID primitive.ObjectID) ([]domain.Strength, error) {
	cursor, err := r.coll.Find(ctx, bson.M{
		"workspaceId": workspaceID,
		"horoscopeId": horoscopeID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list strengths: %w", err)
	}
	var strengths []domain.Strength
	if err := cursor.All(ctx, &strengths); err != nil {
		return nil, fmt.Errorf("failed to decode strengths: %w", err)
	}
	return strengths, nil
}
