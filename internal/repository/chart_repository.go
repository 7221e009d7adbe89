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

// ChartRepository implements domain.ChartRepository on MongoDB.
type ChartRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewChartRepository creates a new divisional chart repository
func NewChartRepository(client *mongodb.Client, logger *slog.Logger) *ChartRepository {
	return &ChartRepository{
		coll:   client.Collection(mongodb.CollCharts),
		logger: logger,
	}
}

// InsertMany stores the divisional charts for one horoscope.
func (r *ChartRepository) InsertMany(ctx context.Context, charts []domain.DivisionalChart) error {
	if len(charts) == 0 {
		return nil
	}
	docs := make([]interface{}, len(charts))
	for i := range charts {
		docs[i] = charts[i]
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert charts: %w", err)
	}
	return nil
}

// ListByHoroscope returns all divisional charts owned by one horoscope.
func (r *ChartRepository) ListByHoroscope(ctx context.Context, workspaceID string, horoscopeID primitive.ObjectID) ([]domain.DivisionalChart, error) {
	cursor, err := r.coll.Find(ctx, bson.M{
		"workspaceId": workspaceID,
		"horoscopeId": horoscopeID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list charts: %w", err)
	}
	var charts []domain.DivisionalChart
	if err := cursor.All(ctx, &charts); err != nil {
		return nil, fmt.Errorf("failed to decode charts: %w", err)
	}
	return charts, nil
}

// FindDivision returns one chart by division code.
func (r *ChartRepository) FindDivision(ctx context.Context, workspaceID string, horoscopeID primitive.ObjectID, division string) (*domain.DivisionalChart, error) {
	var chart domain.DivisionalChart
	err := r.coll.FindOne(ctx, bson.M{
		"workspaceId": workspaceID,
		"horoscopeId": horoscopeID,
		"division":    division,
	}).Decode(&chart)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find chart division: %w", err)
	}
	return &chart, nil
}
