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

// ConditionRepository implements domain.ConditionRepository: yogas and
// doshas, two collections behind one interface.
type ConditionRepository struct {
	yogas  *mongo.Collection
	doshas *mongo.Collection
	logger *slog.Logger
}

// NewConditionRepository creates a new yoga/dosha repository
func NewConditionRepository(client *mongodb.Client, logger *slog.Logger) *ConditionRepository {
	return &ConditionRepository{
		yogas:  client.Collection(mongodb.CollYogas),
		doshas: client.Collection(mongodb.CollDoshas),
		logger: logger,
	}
}

// InsertYogas stores the yogas for one horoscope.
func (r *ConditionRepository) InsertYogas(ctx context.Context, yogas []domain.Yoga) error {
	if len(yogas) == 0 {
		return nil
	}
	docs := make([]interface{}, len(yogas))
	for i := range yogas {
		docs[i] = yogas[i]
	}
	if _, err := r.yogas.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert yogas: %w", err)
	}
	return nil
}

// InsertDoshas stores the doshas for one horoscope.
func (r *ConditionRepository) InsertDoshas(ctx context.Context, doshas []domain.Dosha) error {
	if len(doshas) == 0 {
		return nil
	}
	docs := make([]interface{}, len(doshas))
	for i := range doshas {
		docs[i] = doshas[i]
	}
	if _, err := r.doshas.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert doshas: %w", err)
	}
	return nil
}

// ListYogas returns all yogas owned by one horoscope.
func (r *ConditionRepository) ListYogas(ctx context.Context, workspaceID string, horoscopeID primitive.ObjectID) ([]domain.Yoga, error) {
	cursor, err := r.yogas.Find(ctx, bson.M{
		"workspaceId": workspaceID,
		"horoscopeId": horoscopeID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list yogas: %w", err)
	}
	var yogas []domain.Yoga
	if err := cursor.All(ctx, &yogas); err != nil {
		return nil, fmt.Errorf("failed to decode yogas: %w", err)
	}
	return yogas, nil
}

// ListDoshas returns all doshas owned by one horoscope.
func (r *ConditionRepository) ListDoshas(ctx context.Context, workspaceID string, horoscopeID primitive.ObjectID) ([]domain.Dosha, error) {
	cursor, err := r.doshas.Find(ctx, bson.M{
		"workspaceId": workspaceID,
		"horoscopeId": horoscopeID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list doshas: %w", err)
	}
	var doshas []domain.Dosha
	if err := cursor.All(ctx, &doshas); err != nil {
		return nil, fmt.Errorf("failed to decode doshas: %w", err)
	}
	return doshas, nil
}
