package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/astrovault/natalcore/internal/domain"
	"github.com/astrovault/natalcore/internal/infrastructure/mongodb"
)

// HoroscopeRepository implements domain.HoroscopeRepository on MongoDB.
type HoroscopeRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewHoroscopeRepository creates a new horoscope repository
func NewHoroscopeRepository(client *mongodb.Client, logger *slog.Logger) *HoroscopeRepository {
	return &HoroscopeRepository{
		coll:   client.Collection(mongodb.CollHoroscopes),
		logger: logger,
	}
}

// Insert stores the root horoscope. A violation of the
// (workspaceId, birthHash) unique index surfaces as
// domain.ErrDuplicateFingerprint: the losing side of a concurrent
// first-time ingest race.
func (r *HoroscopeRepository) Insert(ctx context.Context, h *domain.Horoscope) error {
	if h.ID.IsZero() {
		h.ID = primitive.NewObjectID()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, h); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateFingerprint, h.BirthHash)
		}
		return fmt.Errorf("failed to insert horoscope: %w", err)
	}
	r.logger.Debug("horoscope inserted",
		slog.String("workspace_id", h.WorkspaceID),
		slog.String("birth_hash", h.BirthHash),
	)
	return nil
}

// FindByHash resolves a horoscope by its birth-parameter fingerprint.
func (r *HoroscopeRepository) FindByHash(ctx context.Context, workspaceID, birthHash string) (*domain.Horoscope, error) {
	var h domain.Horoscope
	err := r.coll.FindOne(ctx, bson.M{
		"workspaceId": workspaceID,
		"birthHash":   birthHash,
	}).Decode(&h)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find horoscope by hash: %w", err)
	}
	return &h, nil
}

// FindByID resolves a horoscope by ID, still scoped to the workspace.
func (r *HoroscopeRepository) FindByID(ctx context.Context, workspaceID string, id primitive.ObjectID) (*domain.Horoscope, error) {
	var h domain.Horoscope
	err := r.coll.FindOne(ctx, bson.M{
		"_id":         id,
		"workspaceId": workspaceID,
	}).Decode(&h)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find horoscope by id: %w", err)
	}
	return &h, nil
}
