package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/astrovault/natalcore/internal/domain"
	"github.com/astrovault/natalcore/internal/fingerprint"
	"github.com/astrovault/natalcore/internal/lookup"
	"github.com/astrovault/natalcore/internal/observability/metrics"
)

// HoroscopeService coordinates one generation request end to end:
// fingerprint, tiered lookup, provider fetch, atomic ingestion,
// verification read, cache population.
type HoroscopeService struct {
	chain       *lookup.Chain
	configs     domain.ConfigResolver
	provider    domain.ProviderClient
	ingestion   *IngestionService
	aggregation *AggregationService
	logger      *slog.Logger
}

// NewHoroscopeService creates a new horoscope service
func NewHoroscopeService(
	chain *lookup.Chain,
	configs domain.ConfigResolver,
	provider domain.ProviderClient,
	ingestion *IngestionService,
	aggregation *AggregationService,
	logger *slog.Logger,
) *HoroscopeService {
	return &HoroscopeService{
		chain:       chain,
		configs:     configs,
		provider:    provider,
		ingestion:   ingestion,
		aggregation: aggregation,
		logger:      logger,
	}
}

// GenerateResult is the outcome of one generation request.
type GenerateResult struct {
	Composite *domain.Composite
	BirthHash string
	// Cached is true when the composite was resolved from an existing
	// horoscope rather than freshly ingested.
	Cached bool
	// Tier names the lookup tier that answered, empty on a fresh ingest.
	Tier string
}

// Generate resolves a horoscope for the given birth details, computing and
// ingesting it on a first request and serving the stored entities on every
// repeat. The provider is called at most once per (workspace, birth hash).
func (s *HoroscopeService) Generate(ctx context.Context, workspaceID string, details domain.BirthDetails) (*GenerateResult, error) {
	birthHash := fingerprint.Hash(details)

	if id, tier, ok := s.chain.Lookup(ctx, workspaceID, birthHash); ok {
		metrics.ObserveCacheLookup(tier, "hit")
		composite, err := s.resolveCached(ctx, workspaceID, birthHash, id)
		if err != nil {
			return nil, err
		}
		return &GenerateResult{
			Composite: composite,
			BirthHash: birthHash,
			Cached:    true,
			Tier:      tier,
		}, nil
	}
	metrics.ObserveCacheLookup("none", "miss")

	cfg, err := s.configs.Resolve(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	raw, err := s.provider.Fetch(ctx, details, cfg)
	if err != nil {
		return nil, err
	}

	horoscope, err := s.ingestion.Ingest(ctx, workspaceID, birthHash, details, raw)
	if err != nil {
		// A lost first-time race is terminal for this request; the entry
		// the winner committed is reachable on the caller's next lookup.
		return nil, err
	}

	// Verification read: the response is always served from the entity
	// store, proving the round trip, never echoing the raw payload.
	composite, err := s.aggregation.GetByID(ctx, workspaceID, horoscope.ID)
	if err != nil {
		return nil, fmt.Errorf("verification read failed: %w", err)
	}

	s.chain.Populate(ctx, workspaceID, birthHash, horoscope.ID.Hex())

	s.logger.Info("horoscope generated",
		slog.String("workspace_id", workspaceID),
		slog.String("birth_hash", birthHash),
	)
	return &GenerateResult{Composite: composite, BirthHash: birthHash}, nil
}

// resolveCached turns a cached horoscope ID into a composite. A hit whose
// root has since been deleted evicts the stale mapping and reports not
// found; it never regenerates within the same request.
func (s *HoroscopeService) resolveCached(ctx context.Context, workspaceID, birthHash, id string) (*domain.Composite, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		s.chain.Evict(ctx, workspaceID, birthHash)
		return nil, domain.ErrNotFound
	}
	composite, err := s.aggregation.GetByID(ctx, workspaceID, oid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("stale cache entry evicted",
				slog.String("workspace_id", workspaceID),
				slog.String("birth_hash", birthHash),
			)
			s.chain.Evict(ctx, workspaceID, birthHash)
		}
		return nil, err
	}
	return composite, nil
}

// GetByHash reconstructs a stored horoscope without generating.
func (s *HoroscopeService) GetByHash(ctx context.Context, workspaceID, birthHash string) (*domain.Composite, error) {
	return s.aggregation.GetByHash(ctx, workspaceID, birthHash)
}
