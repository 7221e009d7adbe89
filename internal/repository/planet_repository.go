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

// PlanetRepository implements domain.PlanetRepository on MongoDB.
type PlanetRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewPlanetRepository creates a new planet repository
func NewPlanetRepository(client *mongodb.Client, logger *slog.Logger) *PlanetRepository {
	return &PlanetRepository{
		coll:   client.Collection(mongodb.CollPlanets),
		logger: logger,
	}
}

// InsertMany stores the normalized planets for one horoscope.
func (r *PlanetRepository) InsertMany(ctx context.Context, planets []domain.Planet) error {
	if len(planets) == 0 {
		return nil
	}
	docs := make([]interface{}, len(planets))
	for i := range planets {
		docs[i] = planets[i]
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert planets: %w", err)
	}
	return nil
}

// ListByHoroscope returns all planets owned by one horoscope.
func (r *PlanetRepository) ListByHoroscope(ctx context.Context, workspaceID string, horoscopeID primitive.ObjectID) ([]domain.Planet, error) {
	cursor, err := r.coll.Find(ctx, bson.M{
		"workspaceId": workspaceID,
		"horoscopeId": horoscopeID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list planets: %w", err)
	}
	var planets []domain.Planet
	if err := cursor.All(ctx, &planets); err != nil {
		return nil, fmt.Errorf("failed to decode planets: %w", err)
	}
	return planets, nil
}
