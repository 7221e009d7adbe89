package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/astrovault/natalcore/internal/domain"
	"github.com/astrovault/natalcore/internal/infrastructure/redis"
	"github.com/astrovault/natalcore/pkg/cache"
)

func cacheKey(workspaceID, birthHash string) string {
	return fmt.Sprintf("jhora:ws:%s:birth:%s", workspaceID, birthHash)
}

// MemoryTier fronts the chain with the in-process TTL cache.
type MemoryTier struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewMemoryTier wraps an in-process cache with a fixed TTL.
func NewMemoryTier(c *cache.Cache, ttl time.Duration) *MemoryTier {
	return &MemoryTier{cache: c, ttl: ttl}
}

func (t *MemoryTier) Name() string { return "memory" }

func (t *MemoryTier) Lookup(_ context.Context, workspaceID, birthHash string) (string, bool) {
	v, ok := t.cache.Get(cacheKey(workspaceID, birthHash))
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func (t *MemoryTier) Populate(_ context.Context, workspaceID, birthHash, horoscopeID string) {
	t.cache.Set(cacheKey(workspaceID, birthHash), horoscopeID, t.ttl)
}

func (t *MemoryTier) Evict(_ context.Context, workspaceID, birthHash string) {
	t.cache.Delete(cacheKey(workspaceID, birthHash))
}

// Rediser is the subset of the Redis client the tier needs.
type Rediser interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisTier is the shared volatile tier. Connection failures degrade to a
// miss; they are logged, never propagated.
type RedisTier struct {
	client Rediser
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisTier wraps a Redis client with a fixed TTL.
func NewRedisTier(client Rediser, ttl time.Duration, logger *slog.Logger) *RedisTier {
	return &RedisTier{client: client, ttl: ttl, logger: logger}
}

func (t *RedisTier) Name() string { return "redis" }

func (t *RedisTier) Lookup(ctx context.Context, workspaceID, birthHash string) (string, bool) {
	id, err := t.client.Get(ctx, cacheKey(workspaceID, birthHash))
	if err != nil {
		if !redis.IsNil(err) {
			t.logger.Error("redis get failed", slog.String("error", err.Error()))
		}
		return "", false
	}
	return id, id != ""
}

func (t *RedisTier) Populate(ctx context.Context, workspaceID, birthHash, horoscopeID string) {
	if err := t.client.Set(ctx, cacheKey(workspaceID, birthHash), horoscopeID, t.ttl); err != nil {
		t.logger.Error("redis set failed", slog.String("error", err.Error()))
	}
}

func (t *RedisTier) Evict(ctx context.Context, workspaceID, birthHash string) {
	if err := t.client.Delete(ctx, cacheKey(workspaceID, birthHash)); err != nil {
		t.logger.Error("redis delete failed", slog.String("error", err.Error()))
	}
}

// StoreTier resolves against the entity store itself: the final tier.
// Populate is a no-op (the store is the source of truth) and read errors
// other than not-found degrade to a miss; the unique ingestion index keeps
// that safe.
type StoreTier struct {
	repo   domain.HoroscopeRepository
	logger *slog.Logger
}

// NewStoreTier wraps the horoscope repository as the terminal tier.
func NewStoreTier(repo domain.HoroscopeRepository, logger *slog.Logger) *StoreTier {
	return &StoreTier{repo: repo, logger: logger}
}

func (t *StoreTier) Name() string { return "store" }

func (t *StoreTier) Lookup(ctx context.Context, workspaceID, birthHash string) (string, bool) {
	h, err := t.repo.FindByHash(ctx, workspaceID, birthHash)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			t.logger.Error("store lookup failed", slog.String("error", err.Error()))
		}
		return "", false
	}
	return h.ID.Hex(), true
}

func (t *StoreTier) Populate(context.Context, string, string, string) {}

func (t *StoreTier) Evict(context.Context, string, string) {}
