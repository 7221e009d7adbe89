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

// PointRepository implements domain.PointRepository on MongoDB. One
// physical collection holds every point category, discriminated by type.
type PointRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewPointRepository creates a new astrological point repository
func NewPointRepository(client *mongodb.Client, logger *slog.Logger) *PointRepository {
	return &PointRepository{
		coll:   client.Collection(mongodb.CollPoints),
		logger: logger,
	}
}

// InsertMany stores the points for one horoscope.
func (r *PointRepository) InsertMany(ctx context.Context, points []domain.AstrologicalPoint) error {
	if len(points) == 0 {
		return nil
	}
	docs := make([]interface{}, len(points))
	for i := range points {
		docs[i] = points[i]
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert points: %w", err)
	}
	return nil
}

// ListByHoroscope returns all points owned by one horoscope.
func (r *PointRepository) ListByHoroscope(ctx context.Context, workspaceID string, horoscopeID primitive.ObjectID) ([]domain.AstrologicalPoint, error) {
	cursor, err := r.coll.Find(ctx, bson.M{
		"workspaceId": workspaceID,
		"horoscopeId": horoscopeID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list points: %w", err)
	}
	var points []domain.AstrologicalPoint
	if err := cursor.All(ctx, &points); err != nil {
		return nil, fmt.Errorf("failed to decode points: %w", err)
	}
	return points, nil
}
