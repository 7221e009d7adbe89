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

// DashaRepository implements domain.DashaRepository on MongoDB.
type DashaRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewDashaRepository creates a new dasha system repository
func NewDashaRepository(client *mongodb.Client, logger *slog.Logger) *DashaRepository {
	return &DashaRepository{
		coll:   client.Collection(mongodb.CollDashaSystems),
		logger: logger,
	}
}

// InsertMany stores the period systems for one horoscope.
func (r *DashaRepository) InsertMany(ctx context.Context, systems []domain.DashaSystem) error {
	if len(systems) == 0 {
		return nil
	}
	docs := make([]interface{}, len(systems))
	for i := range systems {
		docs[i] = systems[i]
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert dasha systems: %w", err)
	}
	return nil
}

// ListByHoroscope returns all period systems owned by one horoscope.
func (r *DashaRepository) ListByHoroscope(ctx context.Context, workspaceID string, horoscopeID primitive.ObjectID) ([]domain.DashaSystem, error) {
	cursor, err := r.coll.Find(ctx, bson.M{
		"workspaceId": workspaceID,
		"horoscopeId": horoscopeID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list dasha systems: %w", err)
	}
	var systems []domain.DashaSystem
	if err := cursor.All(ctx, &systems); err != nil {
		return nil, fmt.Errorf("failed to decode dasha systems: %w", err)
	}
	return systems, nil
}

// FindSystem returns one period system by name.
func (r *DashaRepository) FindSystem(ctx context.Context, workspaceID string, horoscopeID primitive.ObjectID, system string) (*domain.DashaSystem, error) {
	var ds domain.DashaSystem
	err := r.coll.FindOne(ctx, bson.M{
		"workspaceId": workspaceID,
		"horoscopeId": horoscopeID,
		"system":      system,
	}).Decode(&ds)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find dasha system: %w", err)
	}
	return &ds, nil
}
